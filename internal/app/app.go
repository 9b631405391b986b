package app

import (
	"context"
	"net/http"

	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgconfig"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkglog"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgmetric"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgrouter"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgroutine"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager
	metrics   *pkgmetric.Metrics

	// resources

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging(pkglog.DefaultService, "info")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
