package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.cleaning.enabled") {
		closer, err := cleaning.New(cleaning.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			EventID:   a.snowflake,
			Metrics:   a.metrics,
		})
		if err != nil {
			slog.Error("failed to init module cleaning", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Cleaning"] = closer
		}
	}
}
