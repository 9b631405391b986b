package cleaning

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/event"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/inbound"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/simulator"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/store"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/usecase"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgconfig"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgmetric"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgrouter"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgroutine"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkguid"
)

const (
	defaultMaxIncrement   = 15
	defaultLinearDuration = 3 * time.Second
	defaultEventBuffer    = 512
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	EventID   pkguid.NumberID
	Metrics   *pkgmetric.Metrics
}

type settings struct {
	interval        time.Duration
	progression     string
	maxIncrement    float64
	linearDuration  time.Duration
	maxSessions     int
	sessionTTL      time.Duration
	janitorInterval time.Duration
	eventWorkers    int
	eventBuffer     int
	eventRetries    int
	eventBackoff    time.Duration
}

func loadSettings(cfg pkgconfig.Config) settings {
	s := settings{
		interval:        cfg.GetDuration("modules.cleaning.tick_interval"),
		progression:     cfg.GetString("modules.cleaning.progression"),
		maxIncrement:    cfg.GetFloat("modules.cleaning.max_increment"),
		linearDuration:  cfg.GetDuration("modules.cleaning.linear_duration"),
		maxSessions:     int(cfg.GetInt("modules.cleaning.max_sessions")),
		sessionTTL:      cfg.GetDuration("modules.cleaning.session_ttl"),
		janitorInterval: cfg.GetDuration("modules.cleaning.janitor_interval"),
		eventWorkers:    int(cfg.GetInt("modules.cleaning.events.workers")),
		eventBuffer:     int(cfg.GetInt("modules.cleaning.events.buffer")),
		eventRetries:    int(cfg.GetInt("modules.cleaning.events.max_retries")),
		eventBackoff:    cfg.GetDuration("modules.cleaning.events.base_backoff"),
	}

	if s.interval <= 0 {
		s.interval = simulator.DefaultInterval
	}
	if s.progression != "linear" {
		s.progression = "random"
	}
	if s.linearDuration <= 0 {
		s.linearDuration = defaultLinearDuration
	}
	if s.eventBuffer <= 0 {
		s.eventBuffer = defaultEventBuffer
	}
	if s.janitorInterval <= 0 && s.sessionTTL > 0 {
		s.janitorInterval = s.sessionTTL / 2
	}

	return s
}

// sessionLimit bounds max sessions by the goroutine slots left for timer
// loops, so every session can hold a RUNNING simulation at once. 0 means
// "as many as fit".
func sessionLimit(maxSessions, slots int, janitor bool) int {
	if janitor {
		slots--
	}
	if slots < 1 {
		slots = 1
	}

	if maxSessions <= 0 || maxSessions > slots {
		return slots
	}
	return maxSessions
}

// progressionFor picks the increment source; values that could skip a step fall back to the default.
func progressionFor(s settings, catalog simulator.Catalog) simulator.Progression {
	if s.progression == "linear" {
		p := simulator.NewLinearProgression(s.interval, s.linearDuration)
		if p.Max() > 0 && p.Max() < catalog.Width() {
			return p
		}
		slog.Warn("linear duration too short for the tick interval, using random progression",
			"tick_interval", s.interval, "linear_duration", s.linearDuration)
	}

	maxIncrement := s.maxIncrement
	if maxIncrement <= 0 || maxIncrement >= catalog.Width() {
		if maxIncrement != 0 {
			slog.Warn("max increment out of range, using default", "max_increment", maxIncrement, "default", defaultMaxIncrement)
		}
		maxIncrement = defaultMaxIncrement
	}

	return simulator.NewRandomProgression(maxIncrement, nil)
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil || dep.Goroutine == nil {
		return nil, errors.New("cleaning module requires config, router and goroutine manager")
	}

	if dep.Context == nil {
		dep.Context = context.Background()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	s := loadSettings(dep.Config)
	if limit := sessionLimit(s.maxSessions, dep.Goroutine.Limit(), s.sessionTTL > 0); limit != s.maxSessions {
		if s.maxSessions > 0 {
			slog.Warn("max sessions exceeds goroutine capacity, clamping", "max_sessions", s.maxSessions, "limit", limit)
		}
		s.maxSessions = limit
	}
	catalog := simulator.DefaultCatalog()
	progression := progressionFor(s, catalog)

	simulations := func(onComplete func(state entity.ProcessingState)) (usecase.Simulation, error) {
		sim, err := simulator.New(simulator.Config{
			Interval:    s.interval,
			Progression: progression,
			Catalog:     catalog,
			Runner:      dep.Goroutine,
			OnComplete:  onComplete,
		})
		if err != nil {
			return nil, err
		}
		return sim, nil
	}

	storage := store.NewInMemoryStore()
	bus := event.NewBus(s.eventBuffer)
	consumer := event.NewLifecycleConsumer(bus, event.AuditLogger{}, event.ConsumerConfig{
		Workers:     s.eventWorkers,
		MaxRetries:  s.eventRetries,
		BaseBackoff: s.eventBackoff,
	})
	consumer.Start()

	ucDep := usecase.Dependency{
		Store:       storage,
		Simulations: simulations,
		Events:      bus,
		ID:          dep.ID,
		EventID:     dep.EventID,
		RootCtx:     dep.Context,
		MaxSessions: s.maxSessions,
		SessionTTL:  s.sessionTTL,
	}
	if dep.Metrics != nil {
		ucDep.Metrics = dep.Metrics
	}
	uc := usecase.New(ucDep)

	if s.sessionTTL > 0 {
		scheduled := dep.Goroutine.Go(dep.Context, func(ctx context.Context) error {
			return uc.RunJanitor(ctx, s.janitorInterval)
		})
		if !scheduled {
			slog.Warn("session janitor was not scheduled")
		}
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	slog.Info("cleaning module ready",
		"progression", s.progression,
		"tick_interval", s.interval,
		"max_sessions", s.maxSessions,
		"session_ttl", s.sessionTTL,
	)

	return consumer.Stop, nil
}
