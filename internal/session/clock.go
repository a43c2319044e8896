package session

import "time"

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by the system time.
func RealClock() Clock { return realClock{} }

// Stopwatch measures one interval against a Clock.
type Stopwatch struct {
	clock   Clock
	started time.Time
	elapsed time.Duration
	running bool
}

// NewStopwatch returns a stopped stopwatch reading zero.
func NewStopwatch(c Clock) *Stopwatch {
	return &Stopwatch{clock: c}
}

// Start resets the stopwatch and starts it.
func (s *Stopwatch) Start() {
	s.started = s.clock.Now()
	s.elapsed = 0
	s.running = true
}

// Stop freezes the reading and returns it. Stopping a stopped stopwatch
// returns the frozen reading.
func (s *Stopwatch) Stop() time.Duration {
	if s.running {
		s.elapsed = s.since()
		s.running = false
	}
	return s.elapsed
}

// Elapsed returns the current reading without stopping.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.running {
		return s.since()
	}
	return s.elapsed
}

// Running reports whether the stopwatch is started.
func (s *Stopwatch) Running() bool {
	return s.running
}

func (s *Stopwatch) since() time.Duration {
	d := s.clock.Now().Sub(s.started)
	if d < 0 {
		return 0
	}
	return d
}
