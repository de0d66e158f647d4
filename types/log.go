package types

import "time"

// LogEntry is one HTTP request/response record queued for the async logger
type LogEntry struct {
	ID           uint
	Method       string
	URL          string
	ClientIP     string
	RequestBody  string
	ResponseBody string
	StatusCode   int
	CreatedAt    time.Time
}
