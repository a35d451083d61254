package tracking

import (
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultTickInterval is how often a tracked vehicle position advances.
	DefaultTickInterval = 30 * time.Second

	minETAMinutes = 10
	maxETAMinutes = 30
)

// Snapshot is the current simulated state of one tracked order.
type Snapshot struct {
	Position    Position `json:"position"`
	Destination Position `json:"destination"`
	ETAMinutes  int      `json:"eta_minutes"`
}

type track struct {
	dest   Position
	pos    Position
	eta    int
	ticker *time.Ticker
	done   chan struct{}
}

// Simulator fabricates vehicle positions for orders that are out for
// delivery. Each tracked order owns a single periodic ticker; starting a
// track that already exists reuses it, and Stop tears it down
// deterministically. The simulator is a stand-in for real telemetry and must
// only run while an order is out for delivery.
type Simulator struct {
	mu       sync.Mutex
	interval time.Duration
	rng      *rand.Rand
	tracks   map[string]*track
}

// NewSimulator creates a Simulator advancing positions every interval.
func NewSimulator(interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Simulator{
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		tracks:   make(map[string]*track),
	}
}

// Track starts simulation for orderID headed to dest, or returns the current
// state if the order is already tracked. The first position is seeded at a
// fixed offset from the destination.
func (s *Simulator) Track(orderID string, dest Position) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tracks[orderID]; ok {
		return snapshotOf(t)
	}

	t := &track{
		dest:   dest,
		pos:    SeedPosition(dest),
		eta:    s.randomETA(),
		ticker: time.NewTicker(s.interval),
		done:   make(chan struct{}),
	}
	s.tracks[orderID] = t

	go s.run(orderID, t)

	return snapshotOf(t)
}

// Snapshot returns the current state for orderID, if it is being tracked.
func (s *Simulator) Snapshot(orderID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tracks[orderID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(t), true
}

// Stop ends simulation for orderID. It is a no-op for untracked orders.
func (s *Simulator) Stop(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(orderID)
}

// StopAll ends every active simulation. Called on shutdown.
func (s *Simulator) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for orderID := range s.tracks {
		s.stopLocked(orderID)
	}
}

func (s *Simulator) stopLocked(orderID string) {
	t, ok := s.tracks[orderID]
	if !ok {
		return
	}
	t.ticker.Stop()
	close(t.done)
	delete(s.tracks, orderID)
}

func (s *Simulator) run(orderID string, t *track) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			s.mu.Lock()
			if _, ok := s.tracks[orderID]; ok {
				t.pos = StepToward(t.pos, t.dest)
				t.eta = s.randomETA()
			}
			s.mu.Unlock()
		}
	}
}

// randomETA draws a display-only arrival estimate in minutes. It is not
// derived from the simulated position. Callers must hold s.mu.
func (s *Simulator) randomETA() int {
	return minETAMinutes + s.rng.Intn(maxETAMinutes-minETAMinutes+1)
}

func snapshotOf(t *track) Snapshot {
	return Snapshot{Position: t.pos, Destination: t.dest, ETAMinutes: t.eta}
}
