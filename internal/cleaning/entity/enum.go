package entity

type SimulationState string

const (
	SimulationStateIdle     SimulationState = "IDLE"
	SimulationStateRunning  SimulationState = "RUNNING"
	SimulationStateComplete SimulationState = "COMPLETE"
)

type EventKind string

const (
	EventKindFileSelected        EventKind = "FILE_SELECTED"
	EventKindProcessingStarted   EventKind = "PROCESSING_STARTED"
	EventKindProcessingCompleted EventKind = "PROCESSING_COMPLETED"
	EventKindSessionDiscarded    EventKind = "SESSION_DISCARDED"
)
