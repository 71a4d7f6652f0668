// Package project reads and writes projects as YAML documents.
//
// A document groups clips by lane:
//
//	version: 1
//	name: Holiday cut
//	lanes:
//	  - id: Text-0
//	    elements:
//	      - id: 3f0c...
//	        kind: text
//	        start: 0
//	        end: 5
//	        content: Welcome
//
// Decode validates everything the store would reject so a bad file fails
// before anything is written.
package project
