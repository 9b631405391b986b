package entity

import "time"

type ResultStats struct {
	TotalRows             int64
	ProcessedRows         int64
	ErrorRows             int64
	ConfidenceScore       float64
	ProcessingTimeSeconds float64
}

// FixedResultStats is the payload every completed run reports, whatever the input.
func FixedResultStats() ResultStats {
	return ResultStats{
		TotalRows:             847,
		ProcessedRows:         842,
		ErrorRows:             5,
		ConfidenceScore:       94.7,
		ProcessingTimeSeconds: 3.2,
	}
}

type ProcessingState struct {
	State       SimulationState
	Progress    float64
	StepIndex   int
	StepLabel   string
	IsRunning   bool
	Stats       *ResultStats
	StartedAt   time.Time
	CompletedAt time.Time
}
