package inbound

import (
	"net/http"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/usecase"
)

type FileMetadataRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

type File struct {
	Name             string `json:"name"`
	Size             int64  `json:"size"`
	ContentType      string `json:"content_type"`
	Extension        string `json:"extension"`
	AdvertisedFormat bool   `json:"advertised_format"`
}

type ResultStats struct {
	TotalRows             int64   `json:"total_rows"`
	ProcessedRows         int64   `json:"processed_rows"`
	ErrorRows             int64   `json:"error_rows"`
	ConfidenceScore       float64 `json:"confidence_score"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
}

type Processing struct {
	State       entity.SimulationState `json:"state"`
	Progress    float64                `json:"progress"`
	StepIndex   int                    `json:"step_index"`
	StepLabel   string                 `json:"step_label"`
	IsRunning   bool                   `json:"is_running"`
	Stats       *ResultStats           `json:"stats"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

type SessionResponse struct {
	SessionID  string     `json:"session_id"`
	File       File       `json:"file"`
	Processing Processing `json:"processing"`
	code       int
	msg        string
}

func (r SessionResponse) StatusCode() int {
	if r.code == 0 {
		return http.StatusOK
	}
	return r.code
}

func (r SessionResponse) Message() string {
	if r.msg == "" {
		return "request has been successfully"
	}
	return r.msg
}

func toSessionResponse(result usecase.SessionResult, code int, msg string) SessionResponse {
	state := result.State
	processing := Processing{
		State:     state.State,
		Progress:  state.Progress,
		StepIndex: state.StepIndex,
		StepLabel: state.StepLabel,
		IsRunning: state.IsRunning,
	}
	if state.Stats != nil {
		processing.Stats = &ResultStats{
			TotalRows:             state.Stats.TotalRows,
			ProcessedRows:         state.Stats.ProcessedRows,
			ErrorRows:             state.Stats.ErrorRows,
			ConfidenceScore:       state.Stats.ConfidenceScore,
			ProcessingTimeSeconds: state.Stats.ProcessingTimeSeconds,
		}
	}
	if !state.StartedAt.IsZero() {
		startedAt := state.StartedAt
		processing.StartedAt = &startedAt
	}
	if !state.CompletedAt.IsZero() {
		completedAt := state.CompletedAt
		processing.CompletedAt = &completedAt
	}

	file := result.Session.File
	return SessionResponse{
		SessionID: result.Session.ID,
		File: File{
			Name:             file.Name,
			Size:             file.Size,
			ContentType:      file.ContentType,
			Extension:        file.Extension,
			AdvertisedFormat: file.AdvertisedFormat(),
		},
		Processing: processing,
		code:       code,
		msg:        msg,
	}
}
