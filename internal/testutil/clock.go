package testutil

import (
	"fmt"
	"time"
)

// StubClock returns a settable fixed time.
type StubClock struct {
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-01-08 10:30:00 UTC (a Monday).
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 8, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	return c.now
}

// Set moves the clock to t.
func (c *StubClock) Set(t time.Time) {
	c.now = t
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc. Queued ids
// are handed out first.
type StubIDGenerator struct {
	counter int
	queue   []string
}

func NewStubIDGenerator(queued ...string) *StubIDGenerator {
	return &StubIDGenerator{queue: queued}
}

func (g *StubIDGenerator) New() string {
	if len(g.queue) > 0 {
		id := g.queue[0]
		g.queue = g.queue[1:]
		return id
	}
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}
