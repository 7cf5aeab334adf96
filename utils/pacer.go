package utils

import "time"

// Pacer spaces out remote calls by a fixed minimum interval. It is meant
// for a single sequential caller.
type Pacer struct {
	interval    time.Duration
	lastRequest time.Time
	sleep       func(time.Duration)
	now         func() time.Time
}

// NewPacer creates a Pacer enforcing delayMs milliseconds between calls.
func NewPacer(delayMs int) *Pacer {
	return &Pacer{
		interval: time.Duration(delayMs) * time.Millisecond,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Interval returns the configured minimum gap.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Mark records that a remote call just finished.
func (p *Pacer) Mark() {
	p.lastRequest = p.now()
}

// Wait blocks until at least one interval has passed since the last Mark.
// The first call before any Mark returns immediately.
func (p *Pacer) Wait() {
	if p.lastRequest.IsZero() || p.interval <= 0 {
		return
	}
	elapsed := p.now().Sub(p.lastRequest)
	if elapsed < p.interval {
		p.sleep(p.interval - elapsed)
	}
}

// Do waits for the pacing interval, runs fn and marks the call.
func (p *Pacer) Do(fn func() error) error {
	p.Wait()
	defer p.Mark()
	return fn()
}
