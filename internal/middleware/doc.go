// Package middleware provides HTTP middleware for the video editor backend.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics labelled by route template
//
// Both response writer wrappers implement http.Hijacker so the drag channel
// can upgrade to a WebSocket behind them.
package middleware
