package inbound

import (
	"context"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/usecase"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgrouter"
)

type uc interface {
	SelectFile(ctx context.Context, in usecase.SelectFileInput) (usecase.SessionResult, error)
	Start(ctx context.Context, sessionID string) (usecase.SessionResult, error)
	Status(ctx context.Context, sessionID string) (usecase.SessionResult, error)
	Back(ctx context.Context, sessionID string) error
	Download(ctx context.Context, sessionID string) error
	Report(ctx context.Context, sessionID string) error
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/sessions", end.OpenSession)
	r.GET("/sessions/:session_id", end.Status)
	r.DELETE("/sessions/:session_id", end.Back)
	r.PUT("/sessions/:session_id/file", end.ReplaceFile)
	r.POST("/sessions/:session_id/start", end.Start)

	// inert controls until a cleaning backend exists
	r.GET("/sessions/:session_id/download", end.Download)
	r.GET("/sessions/:session_id/report", end.Report)
}
