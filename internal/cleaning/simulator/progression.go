package simulator

import (
	"math/rand/v2"
	"time"
)

// Progression decides how far a single tick moves the progress value.
type Progression interface {
	Increment() float64
	// Max is an upper bound for Increment.
	Max() float64
}

// RandomProgression adds rand()*max per tick.
type RandomProgression struct {
	max  float64
	rand func() float64
}

// NewRandomProgression builds a RandomProgression. A nil source uses math/rand/v2.
func NewRandomProgression(maxIncrement float64, source func() float64) RandomProgression {
	if source == nil {
		source = rand.Float64
	}
	return RandomProgression{max: maxIncrement, rand: source}
}

func (p RandomProgression) Increment() float64 {
	return p.rand() * p.max
}

func (p RandomProgression) Max() float64 {
	return p.max
}

// LinearProgression interpolates progress from elapsed ticks over a fixed duration.
type LinearProgression struct {
	step float64
}

func NewLinearProgression(interval, duration time.Duration) LinearProgression {
	if duration <= 0 || interval <= 0 {
		return LinearProgression{step: 100}
	}
	return LinearProgression{step: 100 * float64(interval) / float64(duration)}
}

func (p LinearProgression) Increment() float64 {
	return p.step
}

func (p LinearProgression) Max() float64 {
	return p.step
}
