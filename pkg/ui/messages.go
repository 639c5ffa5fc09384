// Package ui provides the Bubble Tea TUI for the route evaluation engine.
package ui

import (
	"time"

	"github.com/arbx-labs/routeval/business/evaluation/app"
)

// Message types for TUI updates

// ScanResultMsg is sent after each batch evaluation completes.
type ScanResultMsg struct {
	Outcomes  []app.Outcome
	Duration  time.Duration
	Timestamp time.Time
}

// LogMsg displays a log line in the activity feed.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// ErrorMsg is sent when a scan fails entirely (e.g. snapshot unreadable).
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI refresh.
type TickMsg struct{}
