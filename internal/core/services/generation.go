package services

import "sync"

// Generation hands out increasing tickets; only the newest ticket may publish
type Generation struct {
	mu      sync.Mutex
	current uint64
}

// Ticket identifies one computation started by Begin
type Ticket struct {
	id  uint64
	gen *Generation
}

// NewGeneration creates a tracker at generation zero
func NewGeneration() *Generation {
	return &Generation{}
}

// Begin starts a new generation, superseding every earlier ticket
func (g *Generation) Begin() Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current++
	return Ticket{id: g.current, gen: g}
}

// Latest returns the newest generation number
func (g *Generation) Latest() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Publish runs fn only while t is still the newest ticket.
// It reports whether fn ran.
func (g *Generation) Publish(t Ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t.gen != g || t.id != g.current {
		return false
	}
	fn()
	return true
}

// ID returns the generation number of the ticket
func (t Ticket) ID() uint64 {
	return t.id
}

// Current reports whether no newer ticket has been issued
func (t Ticket) Current() bool {
	if t.gen == nil {
		return false
	}
	return t.gen.Latest() == t.id
}
