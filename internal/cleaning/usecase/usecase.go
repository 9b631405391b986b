package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
	"github.com/AAnishRam/medical-data-processing/internal/cleaning/simulator"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgerror"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkglog"
	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkguid"
)

// Simulation is the processing machine owned by one session.
type Simulation interface {
	Start(ctx context.Context) error
	Stop() bool
	Snapshot() entity.ProcessingState
}

// SimulationFactory builds a Simulation that calls onComplete once it reaches COMPLETE.
type SimulationFactory func(onComplete func(state entity.ProcessingState)) (Simulation, error)

type Store interface {
	CreateSession(ctx context.Context, session entity.Session, sim Simulation) error
	GetSession(ctx context.Context, sessionID string) (entity.Session, Simulation, error)
	// UpdateSession runs fn under the session's exclusive lock.
	UpdateSession(ctx context.Context, sessionID string, fn func(session *entity.Session)) error
	DeleteSession(ctx context.Context, sessionID string) (entity.Session, Simulation, error)
	CountSessions(ctx context.Context) (int, error)
	ListIdleSessions(ctx context.Context, seenBefore time.Time) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.LifecycleEvent) error
}

type Metrics interface {
	FileSelected(extension string)
	SessionOpened()
	SessionClosed()
	SimulationStarted()
	SimulationCompleted(elapsed time.Duration)
	SimulationStopped(reason string)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store       Store
	Simulations SimulationFactory
	Events      EventPublisher
	Metrics     Metrics
	Clock       Clock
	ID          pkguid.StringID
	EventID     pkguid.NumberID
	RootCtx     context.Context
	MaxSessions int
	SessionTTL  time.Duration
}

type Usecase struct {
	store       Store
	simulations SimulationFactory
	events      EventPublisher
	metrics     Metrics
	clock       Clock
	id          pkguid.StringID
	eventID     pkguid.NumberID
	rootCtx     context.Context
	maxSessions int
	sessionTTL  time.Duration
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	metrics := dep.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Usecase{
		store:       dep.Store,
		simulations: dep.Simulations,
		events:      dep.Events,
		metrics:     metrics,
		clock:       clock,
		id:          dep.ID,
		eventID:     dep.EventID,
		rootCtx:     root,
		maxSessions: dep.MaxSessions,
		sessionTTL:  dep.SessionTTL,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type noopMetrics struct{}

func (noopMetrics) FileSelected(string)               {}
func (noopMetrics) SessionOpened()                    {}
func (noopMetrics) SessionClosed()                    {}
func (noopMetrics) SimulationStarted()                {}
func (noopMetrics) SimulationCompleted(time.Duration) {}
func (noopMetrics) SimulationStopped(string)          {}

// SelectFile hands a file to a dashboard. Without a session id it opens a new
// one; otherwise it replaces the file and resets the simulation to IDLE.
// The file is never validated.
func (u *Usecase) SelectFile(ctx context.Context, in SelectFileInput) (SessionResult, error) {
	if u.store == nil || u.id == nil || u.simulations == nil {
		return SessionResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if in.SessionID == "" {
		return u.openSession(ctx, in.File)
	}

	ctx = pkglog.SetSessionID(ctx, in.SessionID)
	_, sim, err := u.store.GetSession(ctx, in.SessionID)
	if err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	// Stop and the file swap happen under the session lock, the same lock
	// Start takes, so a concurrent Start either is stopped here or runs on
	// the new file. Never on a half-replaced session.
	var (
		stopped bool
		result  SessionResult
	)
	now := u.clock.Now()
	if err := u.store.UpdateSession(ctx, in.SessionID, func(session *entity.Session) {
		stopped = sim.Stop()
		session.File = in.File
		session.UpdatedAt = now
		session.LastSeenAt = now
		result = SessionResult{Session: *session, State: sim.Snapshot()}
	}); err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	if stopped {
		u.metrics.SimulationStopped("reselect")
	}
	u.metrics.FileSelected(in.File.Extension)
	u.publish(ctx, in.SessionID, entity.EventKindFileSelected, in.File, 0)

	return result, nil
}

func (u *Usecase) openSession(ctx context.Context, file entity.File) (SessionResult, error) {
	if u.maxSessions > 0 {
		count, err := u.store.CountSessions(ctx)
		if err != nil {
			return SessionResult{}, normalizeErr(err)
		}
		if count >= u.maxSessions {
			return SessionResult{}, pkgerror.NewBusiness("too many active sessions", pkgerror.CodeConflict)
		}
	}

	sessionID := u.id.Generate()
	ctx = pkglog.SetSessionID(ctx, sessionID)
	sim, err := u.simulations(u.completionHook(sessionID))
	if err != nil {
		return SessionResult{}, pkgerror.NewServer(err)
	}

	now := u.clock.Now()
	session := entity.Session{
		ID:         sessionID,
		File:       file,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastSeenAt: now,
	}
	if err := u.store.CreateSession(ctx, session, sim); err != nil {
		return SessionResult{}, normalizeErr(err)
	}

	u.metrics.SessionOpened()
	u.metrics.FileSelected(file.Extension)
	u.publish(ctx, sessionID, entity.EventKindFileSelected, file, 0)

	return SessionResult{Session: session, State: sim.Snapshot()}, nil
}

// Start kicks off the simulated processing run of a session.
func (u *Usecase) Start(ctx context.Context, sessionID string) (SessionResult, error) {
	if sessionID == "" {
		return SessionResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	ctx = pkglog.SetSessionID(ctx, sessionID)
	_, sim, err := u.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	var (
		startErr error
		result   SessionResult
	)
	now := u.clock.Now()
	if err := u.store.UpdateSession(ctx, sessionID, func(session *entity.Session) {
		// the run outlives the request, so it hangs off the root context
		startErr = sim.Start(u.rootCtx)
		session.LastSeenAt = now
		result = SessionResult{Session: *session, State: sim.Snapshot()}
	}); err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	switch {
	case errors.Is(startErr, simulator.ErrNotIdle):
		return SessionResult{}, pkgerror.NewBusiness("processing already started, select a new file to run again", pkgerror.CodeConflict)
	case errors.Is(startErr, simulator.ErrNotScheduled):
		return SessionResult{}, pkgerror.NewUnavailable("processing capacity exhausted, try again later")
	case startErr != nil:
		return SessionResult{}, pkgerror.NewServer(startErr)
	}

	u.metrics.SimulationStarted()
	u.publish(ctx, sessionID, entity.EventKindProcessingStarted, result.Session.File, 0)
	slog.InfoContext(ctx, "processing simulation started", "file", result.Session.File.Name)

	return result, nil
}

// Status returns the session's file and current processing state.
func (u *Usecase) Status(ctx context.Context, sessionID string) (SessionResult, error) {
	if sessionID == "" {
		return SessionResult{}, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	return u.result(ctx, sessionID)
}

// Back discards the session and its file, stopping any live timer.
func (u *Usecase) Back(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}

	return u.discard(ctx, sessionID, "back")
}

// Download is the placeholder behind "Download Cleaned Data".
func (u *Usecase) Download(ctx context.Context, sessionID string) error {
	if err := u.ensureSession(ctx, sessionID); err != nil {
		return err
	}
	return pkgerror.NewNotImplemented("download of cleaned data is not available yet")
}

// Report is the placeholder behind "View Detailed Report".
func (u *Usecase) Report(ctx context.Context, sessionID string) error {
	if err := u.ensureSession(ctx, sessionID); err != nil {
		return err
	}
	return pkgerror.NewNotImplemented("detailed report is not available yet")
}

// ExpireIdle discards sessions nobody has looked at within the session TTL.
func (u *Usecase) ExpireIdle(ctx context.Context) (int, error) {
	if u.sessionTTL <= 0 {
		return 0, nil
	}

	ids, err := u.store.ListIdleSessions(ctx, u.clock.Now().Add(-u.sessionTTL))
	if err != nil {
		return 0, normalizeErr(err)
	}

	expired := 0
	for _, id := range ids {
		if err := u.discard(ctx, id, "expired"); err != nil {
			// already discarded by a concurrent back
			if pkgerror.HasCode(err, pkgerror.CodeNotFound) {
				continue
			}
			return expired, err
		}
		expired++
	}

	return expired, nil
}

// RunJanitor calls ExpireIdle every interval until ctx is done.
func (u *Usecase) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := u.ExpireIdle(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to expire idle sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "expired idle sessions", "count", n)
			}
		}
	}
}

func (u *Usecase) discard(ctx context.Context, sessionID, reason string) error {
	ctx = pkglog.SetSessionID(ctx, sessionID)
	session, sim, err := u.store.DeleteSession(ctx, sessionID)
	if err != nil {
		return mapStoreErr(err)
	}

	if sim.Stop() {
		u.metrics.SimulationStopped(reason)
	}
	u.metrics.SessionClosed()
	u.publish(ctx, sessionID, entity.EventKindSessionDiscarded, session.File, 0)
	slog.InfoContext(ctx, "session discarded", "reason", reason)

	return nil
}

func (u *Usecase) ensureSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerror.NewInvalidInput(errors.New("session_id is required"))
	}
	if _, _, err := u.store.GetSession(ctx, sessionID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (u *Usecase) result(ctx context.Context, sessionID string) (SessionResult, error) {
	now := u.clock.Now()
	if err := u.store.UpdateSession(ctx, sessionID, func(session *entity.Session) {
		session.LastSeenAt = now
	}); err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	session, sim, err := u.store.GetSession(ctx, sessionID)
	if err != nil {
		return SessionResult{}, mapStoreErr(err)
	}

	return SessionResult{Session: session, State: sim.Snapshot()}, nil
}

func (u *Usecase) completionHook(sessionID string) func(state entity.ProcessingState) {
	return func(state entity.ProcessingState) {
		u.metrics.SimulationCompleted(state.CompletedAt.Sub(state.StartedAt))

		ctx := pkglog.SetSessionID(u.rootCtx, sessionID)
		var file entity.File
		if session, _, err := u.store.GetSession(ctx, sessionID); err == nil {
			file = session.File
		}

		u.publish(ctx, sessionID, entity.EventKindProcessingCompleted, file, state.Progress)
		slog.InfoContext(ctx, "processing simulation completed", "progress", state.Progress)
	}
}

func (u *Usecase) publish(ctx context.Context, sessionID string, kind entity.EventKind, file entity.File, progress float64) {
	if u.events == nil {
		return
	}

	ctx = pkglog.SetSessionID(ctx, sessionID)
	event := entity.LifecycleEvent{
		SessionID: sessionID,
		Kind:      kind,
		File:      file,
		Progress:  progress,
		At:        u.clock.Now(),
	}
	if u.eventID != nil {
		event.EventID = u.eventID.Generate()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "kind", kind, "error", err)
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("session not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
