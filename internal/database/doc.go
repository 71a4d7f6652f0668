// Package database provides SQLite storage for editor projects.
//
// It handles storage and retrieval of:
//   - Projects and their names
//   - Timeline clips (lane, kind, time bounds and payload)
//   - Metadata such as the schema version and the last import
//
// Every write that changes clip bounds re-checks the lane invariant inside
// its transaction: no two clips on the same lane of a project may overlap.
// The database uses WAL mode for improved concurrent read performance
// and includes automatic schema initialization.
package database
