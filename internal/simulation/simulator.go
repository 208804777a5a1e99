// Package simulation owns the canonical live conference dataset and advances
// it on a fixed cadence, publishing shallow-copied snapshots to subscribers.
package simulation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confpulse/backend/internal/generator"
	"github.com/confpulse/backend/internal/models"
)

// DefaultInterval is the tick cadence used when Start is given no interval.
const DefaultInterval = 5 * time.Second

// Subscriber receives every published snapshot.
type Subscriber func(models.Snapshot)

// Simulator is the single owner of the mutable dataset. It is a constructible
// service object: create as many as needed, there is no package-level state.
// All exported methods are safe for concurrent use.
type Simulator struct {
	mu     sync.RWMutex
	gen    *generator.Generator
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger

	data *models.Snapshot

	subs      map[int]Subscriber
	nextSubID int

	running bool
	stopCh  chan struct{}
}

// New creates a Simulator with a freshly generated dataset. A nil rng gets a
// time-seeded source; a nil clock defaults to time.Now; a nil logger is
// replaced by a no-op one. The rng is shared with the generator so a seeded
// simulator is deterministic end to end.
func New(rng *rand.Rand, now func() time.Time, logger *zap.Logger) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulator{
		gen:    generator.New(rng, now),
		rng:    rng,
		now:    now,
		logger: logger,
		subs:   make(map[int]Subscriber),
	}
	s.data = s.gen.Generate()
	return s
}

// Subscribe registers a callback and immediately invokes it once with the
// current snapshot. The returned function deregisters the callback.
func (s *Simulator) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.deliver(id, fn, snap)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Start begins periodic ticking. Calling Start on a running simulator is a
// warned no-op, not an error.
func (s *Simulator) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("simulation already running")
		return
	}
	s.running = true
	stop := make(chan struct{})
	s.stopCh = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick()
			case <-stop:
				return
			}
		}
	}()
	s.logger.Info("simulation started", zap.Duration("interval", interval))
}

// Stop halts ticking. Stopping a stopped simulator is a warned no-op. An
// in-flight tick always completes; only future ticks are cancelled.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Warn("simulation not running")
		return
	}
	s.running = false
	close(s.stopCh)
	s.stopCh = nil
	s.mu.Unlock()
	s.logger.Info("simulation stopped")
}

// Running reports whether the tick loop is active.
func (s *Simulator) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Reset stops ticking, regenerates the dataset from scratch, zeroes the tick
// counter, and immediately pushes the fresh snapshot to all subscribers.
func (s *Simulator) Reset() {
	s.mu.Lock()
	if s.running {
		s.running = false
		close(s.stopCh)
		s.stopCh = nil
	}
	s.data = s.gen.Generate()
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Info("simulation reset")
	s.notify(subs, snap)
}

// Data returns a defensive copy of the full snapshot.
func (s *Simulator) Data() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Metrics returns the current aggregate metrics.
func (s *Simulator) Metrics() models.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Metrics
}

// Sessions returns a copy of the session list.
func (s *Simulator) Sessions() []models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Session(nil), s.data.Sessions...)
}

// Speakers returns a copy of the speaker list.
func (s *Simulator) Speakers() []models.Speaker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Speaker(nil), s.data.Speakers...)
}

// Attendees returns a copy of the attendee list.
func (s *Simulator) Attendees() []models.Attendee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Attendee(nil), s.data.Attendees...)
}

// Feedback returns a copy of the global feedback list.
func (s *Simulator) Feedback() []models.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feedback(nil), s.data.Feedback...)
}

// snapshotLocked builds a shallow copy of the canonical dataset. Speaker names
// on session copies are refreshed from the speaker table so the denormalized
// field can never drift from its source. Caller must hold mu.
func (s *Simulator) snapshotLocked() models.Snapshot {
	d := s.data
	names := make(map[uuid.UUID]string, len(d.Speakers))
	for i := range d.Speakers {
		names[d.Speakers[i].ID] = d.Speakers[i].Name
	}
	sessions := append([]models.Session(nil), d.Sessions...)
	for i := range sessions {
		if name, ok := names[sessions[i].SpeakerID]; ok {
			sessions[i].SpeakerName = name
		}
	}
	return models.Snapshot{
		Sessions:    sessions,
		Speakers:    append([]models.Speaker(nil), d.Speakers...),
		Attendees:   append([]models.Attendee(nil), d.Attendees...),
		Feedback:    append([]models.Feedback(nil), d.Feedback...),
		Metrics:     d.Metrics,
		LastUpdated: d.LastUpdated,
		UpdateCount: d.UpdateCount,
	}
}

func (s *Simulator) subscribersLocked() map[int]Subscriber {
	subs := make(map[int]Subscriber, len(s.subs))
	for id, fn := range s.subs {
		subs[id] = fn
	}
	return subs
}

// notify delivers the snapshot to every subscriber in turn. A panicking
// subscriber is recovered and logged; the rest still get the snapshot.
func (s *Simulator) notify(subs map[int]Subscriber, snap models.Snapshot) {
	for id, fn := range subs {
		s.deliver(id, fn, snap)
	}
}

func (s *Simulator) deliver(id int, fn Subscriber, snap models.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked", zap.Int("subscriber", id), zap.Any("panic", r))
		}
	}()
	fn(snap)
}
