package simulator

import "time"

// Ticker is the owned periodic timer driving a run.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

// NewTicker wraps time.NewTicker.
func NewTicker(d time.Duration) Ticker {
	return &stdTicker{t: time.NewTicker(d)}
}

func (s *stdTicker) C() <-chan time.Time {
	return s.t.C
}

func (s *stdTicker) Stop() {
	s.t.Stop()
}
