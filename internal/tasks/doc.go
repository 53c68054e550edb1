// Package tasks implements long-running operations that sit above the
// gateway: bulk audio downloads with a worker pool, rate limiting, and
// progress reporting over a channel the CLI or TUI can render.
package tasks
