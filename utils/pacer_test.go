package utils

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func newFakePacer(delayMs int) (*Pacer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	p := NewPacer(delayMs)
	p.now = clock.Now
	p.sleep = clock.Sleep
	return p, clock
}

func TestPacerFirstCallDoesNotWait(t *testing.T) {
	p, clock := newFakePacer(1000)
	p.Wait()
	if len(clock.slept) != 0 {
		t.Errorf("first Wait slept %v; want no sleep", clock.slept)
	}
}

func TestPacerWaitsRemainingInterval(t *testing.T) {
	p, clock := newFakePacer(1000)
	p.Mark()
	clock.now = clock.now.Add(300 * time.Millisecond)

	p.Wait()
	if len(clock.slept) != 1 || clock.slept[0] != 700*time.Millisecond {
		t.Errorf("slept %v; want [700ms]", clock.slept)
	}
}

func TestPacerNoWaitAfterIntervalElapsed(t *testing.T) {
	p, clock := newFakePacer(100)
	p.Mark()
	clock.now = clock.now.Add(time.Second)

	p.Wait()
	if len(clock.slept) != 0 {
		t.Errorf("slept %v; want no sleep", clock.slept)
	}
}

func TestPacerDoSpacesCalls(t *testing.T) {
	p, clock := newFakePacer(500)
	var calls []time.Time
	for i := 0; i < 3; i++ {
		if err := p.Do(func() error {
			calls = append(calls, clock.now)
			return nil
		}); err != nil {
			t.Fatalf("Do returned %v", err)
		}
	}

	for i := 1; i < len(calls); i++ {
		gap := calls[i].Sub(calls[i-1])
		if gap < p.Interval() {
			t.Errorf("gap between call %d and %d: %v < minimum %v", i-1, i, gap, p.Interval())
		}
	}
}

func TestPacerDoReturnsError(t *testing.T) {
	p, _ := newFakePacer(0)
	want := errors.New("boom")
	if err := p.Do(func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Do error = %v; want %v", err, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warning ", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.raw); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}
