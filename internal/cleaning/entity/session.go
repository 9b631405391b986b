package entity

import "time"

// Session is one mounted dashboard: the selected file plus bookkeeping.
type Session struct {
	ID        string
	File      File
	CreatedAt time.Time
	UpdatedAt time.Time
	// LastSeenAt moves on every read so idle dashboards can be reaped.
	LastSeenAt time.Time
}
