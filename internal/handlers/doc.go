// Package handlers provides HTTP request handlers for the video editor API.
//
// It includes handlers for:
//   - Projects: listing, creation, deletion, YAML export and import
//   - Clips: adding, patching, splitting and deleting timeline elements
//   - Positioning: stateless drop-time, snap-position and snap-guide queries
//   - The drag channel: a WebSocket that drives one drag controller per
//     connection from pointer events
//   - Overview images, health checks and version information
package handlers
