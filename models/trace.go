package models

import "time"

// TraceEntry records what one pipeline stage saw and produced.
type TraceEntry struct {
	Stage   string        `json:"stage"`
	Elapsed time.Duration `json:"elapsed"`
	Input   string        `json:"input"`
	Output  string        `json:"output"`
}

// DebugTrace is the ordered per-stage diagnostic log attached to a
// response when debug mode is enabled. It never affects the result set.
type DebugTrace []TraceEntry
