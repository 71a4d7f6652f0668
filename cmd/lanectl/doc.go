// Command lanectl inspects and moves projects in the video editor database
// from the command line.
//
// Usage:
//
//	lanectl <command> [args]
//
// Commands:
//
//	list                List projects with their clip counts.
//
//	check               Re-validate every project's lanes and print each
//	                    pair of overlapping clips. Exits 1 if any project
//	                    is inconsistent, so it can gate backups or CI.
//
//	show <project-id>   Draw the project's lanes as text, one row per lane,
//	                    fitted to the terminal width.
//
//	export <project-id> Write the project as a YAML document to stdout.
//
//	import <file.yaml>  Create or replace the project described by a YAML
//	                    document. The document is validated first.
//
// Environment:
//
//	DATABASE_DIR    - Path to database directory (default: /database)
//	LANECTL_WORKERS - Projects checked in parallel by check
package main
