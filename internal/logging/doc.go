// Package logging provides the leveled logger used across the editor backend.
//
// Levels, from most to least verbose:
//   - DEBUG: drag session lifecycle, query details
//   - INFO: startup banner, route table, project imports
//   - WARN: rejected client input, slow shutdown
//   - ERROR: store failures
//   - FATAL: unrecoverable startup errors (exits)
//
// The level is read once from DEBUG (any truthy value) or LOG_LEVEL. Tools and
// tests can override it with SetLevel.
package logging
