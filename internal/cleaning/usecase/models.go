package usecase

import (
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
)

type SelectFileInput struct {
	// SessionID is empty for a fresh dashboard.
	SessionID string
	File      entity.File
}

type SessionResult struct {
	Session entity.Session
	State   entity.ProcessingState
}
