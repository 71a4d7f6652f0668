package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"video-editor/internal/database"
	"video-editor/internal/mediatypes"
	"video-editor/internal/project"
	"video-editor/internal/timeline"
	"video-editor/internal/workers"

	"golang.org/x/term"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default database directory path
	defaultDatabaseDir = "/database"
	// Width used when stdout is not a terminal
	defaultWidth = 80
	// Width of the lane label column in show output
	labelWidth = 10
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	databaseDir := os.Getenv("DATABASE_DIR")
	if databaseDir == "" {
		databaseDir = defaultDatabaseDir
	}
	dbPath := filepath.Join(databaseDir, "editor.db")

	db, err := database.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect to database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure DATABASE_DIR is set correctly (current: %s)\n", databaseDir)
		os.Exit(1)
	}

	ok := run(ctx, db, command, args)
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(ctx context.Context, db *database.Database, command string, args []string) bool {
	switch command {
	case "list":
		return listProjects(ctx, db, os.Stdout)
	case "check":
		n := workers.ForIO(os.Getenv("LANECTL_WORKERS"), 8)
		return checkProjects(ctx, db, n, os.Stdout)
	case "show":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: lanectl show <project-id>")
			return false
		}
		return showProject(ctx, db, args[0], terminalWidth(), os.Stdout)
	case "export":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: lanectl export <project-id>")
			return false
		}
		return exportProject(ctx, db, args[0], os.Stdout)
	case "import":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: lanectl import <file.yaml>")
			return false
		}
		return importProject(ctx, db, args[0], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command)) //nolint:gosec // G705 - input is sanitized via allowlist in sanitizeCommand
		printUsage(os.Stdout)
		return false
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore becomes '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Video Editor Lane Tool")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: lanectl <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                - List projects")
	fmt.Fprintln(w, "  check               - Verify no lane holds overlapping clips")
	fmt.Fprintln(w, "  show <project-id>   - Draw a project's lanes")
	fmt.Fprintln(w, "  export <project-id> - Write a project as YAML to stdout")
	fmt.Fprintln(w, "  import <file.yaml>  - Create or replace a project from YAML")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  DATABASE_DIR    - Path to database directory (default: %s)\n", defaultDatabaseDir)
	fmt.Fprintln(w, "  LANECTL_WORKERS - Parallel project checks (default: 2 per CPU, max 8)")
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= labelWidth+10 {
		return defaultWidth
	}
	return width
}

func listProjects(ctx context.Context, db *database.Database, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	projects, err := db.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list projects: %v\n", err)
		return false
	}
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects")
		return true
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%s  %-30s %4d clips  updated %s\n",
			p.ID, p.Name, p.ElementCount, p.UpdatedAt.Format(time.RFC3339))
	}
	return true
}

// checkProjects validates every project's lanes on n workers and reports
// each conflict. It returns false if any project is inconsistent or could
// not be read.
func checkProjects(ctx context.Context, db *database.Database, n int, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	projects, err := db.ListProjects(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list projects: %v\n", err)
		return false
	}

	conflicts := make([][]timeline.Conflict, len(projects))
	err = workers.Each(ctx, n, len(projects), func(ctx context.Context, i int) error {
		elements, err := db.ListElements(ctx, projects[i].ID)
		if err != nil {
			return fmt.Errorf("project %s: %w", projects[i].ID, err)
		}
		conflicts[i] = timeline.Validate(database.TimelineElements(elements))
		return nil
	})

	ok := err == nil
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	bad := 0
	for i, cs := range conflicts {
		if len(cs) == 0 {
			continue
		}
		bad++
		ok = false
		fmt.Fprintf(w, "%s (%s):\n", projects[i].ID, projects[i].Name)
		for _, c := range cs {
			fmt.Fprintf(w, "  %s: %s overlaps %s\n", c.LaneID, c.First, c.Second)
		}
	}

	fmt.Fprintf(w, "Checked %d projects, %d with overlapping clips\n", len(projects), bad)
	return ok
}

func showProject(ctx context.Context, db *database.Database, id string, width int, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := db.GetProject(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	elements, err := db.ListElements(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list clips: %v\n", err)
		return false
	}

	fmt.Fprintf(w, "%s (%d clips)\n", p.Name, len(elements))
	for _, line := range renderLanes(database.TimelineElements(elements), width) {
		fmt.Fprintln(w, line)
	}
	return true
}

// renderLanes draws one row per lane, width columns wide. Cells covered by a
// clip show the kind's initial; a clip's first cell is '['.
func renderLanes(elements []timeline.Element, width int) []string {
	cols := width - labelWidth
	if cols < 1 || len(elements) == 0 {
		return nil
	}

	end := 0.0
	lanes := make(map[string][]timeline.Element)
	for _, el := range elements {
		lanes[el.LaneID] = append(lanes[el.LaneID], el)
		end = math.Max(end, el.EndTime)
	}
	laneIDs := make([]string, 0, len(lanes))
	for id := range lanes {
		laneIDs = append(laneIDs, id)
	}
	sort.Strings(laneIDs)

	secPerCol := end / float64(cols)
	lines := make([]string, 0, len(laneIDs)+1)
	for _, id := range laneIDs {
		row := []rune(strings.Repeat(".", cols))
		for _, el := range lanes[id] {
			from := int(el.StartTime / secPerCol)
			to := int(math.Ceil(el.EndTime/secPerCol)) - 1
			to = min(max(to, from), cols-1)
			for c := from; c <= to; c++ {
				row[c] = kindRune(el.Kind)
			}
			if from < cols {
				row[from] = '['
			}
		}
		lines = append(lines, fmt.Sprintf("%-*s%s", labelWidth, truncate(id, labelWidth-1), string(row)))
	}
	lines = append(lines, fmt.Sprintf("%-*s0s%*s", labelWidth, "", cols-2, fmt.Sprintf("%.1fs", end)))
	return lines
}

func kindRune(kind string) rune {
	switch mediatypes.Kind(kind) {
	case mediatypes.KindText:
		return 'T'
	case mediatypes.KindImage:
		return 'I'
	case mediatypes.KindVideo:
		return 'V'
	case mediatypes.KindAudio:
		return 'A'
	}
	return '#'
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func exportProject(ctx context.Context, db *database.Database, id string, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p, err := db.GetProject(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	elements, err := db.ListElements(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to list clips: %v\n", err)
		return false
	}
	if err := project.Encode(w, *p, elements); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to write project: %v\n", err)
		return false
	}
	return true
}

func importProject(ctx context.Context, db *database.Database, path string, w io.Writer) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	f, err := os.Open(path) //nolint:gosec // path comes from the operator's command line
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	defer f.Close()

	doc, err := project.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	p, err := db.ReplaceProject(ctx, doc.Project(), doc.Elements())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to import project: %v\n", err)
		return false
	}

	fmt.Fprintf(w, "Imported %s (%s) with %d clips\n", p.Name, p.ID, p.ElementCount)
	return true
}
