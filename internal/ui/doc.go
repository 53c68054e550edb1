// Package ui implements the interactive browser: a catalog list with playback
// controls, favorite and pick toggles, and transient toast notifications,
// built on Bubble Tea. The model polls the playback engine on a short tick so
// the status bar tracks the shared handle no matter which code path drove it.
package ui
