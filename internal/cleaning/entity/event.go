package entity

import "time"

type LifecycleEvent struct {
	EventID   int64
	SessionID string
	Kind      EventKind
	File      File
	Progress  float64
	At        time.Time
}
