package simulation

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/confpulse/backend/internal/models"
)

// testClock is a settable clock for driving status transitions.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newTestSim(seed int64) (*Simulator, *testClock) {
	clock := &testClock{now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	return New(rand.New(rand.NewSource(seed)), clock.Now, nil), clock
}

func TestSubscribeDeliversImmediately(t *testing.T) {
	sim, _ := newTestSim(1)

	var got []models.Snapshot
	unsubscribe := sim.Subscribe(func(snap models.Snapshot) { got = append(got, snap) })

	if len(got) != 1 {
		t.Fatalf("expected immediate delivery, got %d calls", len(got))
	}
	if len(got[0].Sessions) == 0 {
		t.Fatal("delivered snapshot is empty")
	}

	unsubscribe()
	sim.Tick()
	if len(got) != 1 {
		t.Fatalf("unsubscribed callback still invoked (%d calls)", len(got))
	}
}

func TestTickPreservesInvariants(t *testing.T) {
	sim, _ := newTestSim(2)

	rank := map[models.SessionStatus]int{
		models.StatusUpcoming:  0,
		models.StatusActive:    1,
		models.StatusCompleted: 2,
	}
	previous := make(map[uuid.UUID]models.SessionStatus)
	for _, s := range sim.Sessions() {
		previous[s.ID] = s.Status
	}

	for tick := 0; tick < 50; tick++ {
		sim.Tick()
		snap := sim.Data()

		var active int
		for _, s := range snap.Sessions {
			if s.CurrentAttendance < 0 || s.CurrentAttendance > s.Capacity {
				t.Fatalf("tick %d: session %q attendance %d outside [0, %d]",
					tick, s.Title, s.CurrentAttendance, s.Capacity)
			}
			if s.Engagement < 0 || s.Engagement > 100 {
				t.Fatalf("tick %d: session %q engagement %d outside [0, 100]", tick, s.Title, s.Engagement)
			}
			if rank[s.Status] < rank[previous[s.ID]] {
				t.Fatalf("tick %d: session %q regressed %s -> %s", tick, s.Title, previous[s.ID], s.Status)
			}
			previous[s.ID] = s.Status
			if s.Status == models.StatusActive {
				active++
			}
		}
		if snap.Metrics.ActiveSessions != active {
			t.Fatalf("tick %d: metrics active %d, counted %d", tick, snap.Metrics.ActiveSessions, active)
		}
		if snap.UpdateCount != tick+1 {
			t.Fatalf("tick %d: update count %d", tick, snap.UpdateCount)
		}
	}
}

func TestSubscriberPanicDoesNotStopOthers(t *testing.T) {
	sim, _ := newTestSim(3)

	sim.Subscribe(func(models.Snapshot) { panic("broken subscriber") })
	var delivered int
	sim.Subscribe(func(models.Snapshot) { delivered++ })

	sim.Tick()
	sim.Tick()

	// 1 immediate delivery + 2 ticks
	if delivered != 3 {
		t.Fatalf("healthy subscriber received %d snapshots, want 3", delivered)
	}
}

func TestStartStopAreIdempotent(t *testing.T) {
	sim, _ := newTestSim(4)

	sim.Start(time.Hour)
	sim.Start(time.Hour) // warned no-op
	if !sim.Running() {
		t.Fatal("simulator should be running")
	}

	sim.Stop()
	sim.Stop() // warned no-op
	if sim.Running() {
		t.Fatal("simulator should be stopped")
	}
}

func TestStartTicksOnInterval(t *testing.T) {
	// real clock: LastUpdated must strictly increase tick over tick
	sim := New(rand.New(rand.NewSource(5)), time.Now, nil)

	var mu sync.Mutex
	var updates []models.Snapshot
	sim.Subscribe(func(snap models.Snapshot) {
		mu.Lock()
		updates = append(updates, snap)
		mu.Unlock()
	})

	sim.Start(10 * time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	sim.Stop()

	mu.Lock()
	defer mu.Unlock()
	// first entry is the subscribe-time delivery with UpdateCount 0
	if len(updates) < 10 {
		t.Fatalf("expected at least 10 deliveries, got %d", len(updates))
	}
	for i := 1; i < len(updates); i++ {
		if updates[i].UpdateCount != updates[i-1].UpdateCount+1 {
			t.Fatalf("update count not monotonic at %d: %d -> %d", i, updates[i-1].UpdateCount, updates[i].UpdateCount)
		}
		if i > 1 && !updates[i].LastUpdated.After(updates[i-1].LastUpdated) {
			t.Fatalf("last updated did not advance at %d", i)
		}
	}
}

func TestUpcomingSessionActivatesAtStartTime(t *testing.T) {
	sim, clock := newTestSim(6)

	before := sim.Sessions()
	var target *models.Session
	for i := range before {
		if before[i].Status == models.StatusUpcoming {
			target = &before[i]
			break
		}
	}
	if target == nil {
		t.Fatal("no upcoming session in initial data")
	}

	// jump past every start time; drift passes run before transitions, so the
	// seeded attendance is exact after one tick
	clock.Set(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC))
	sim.Tick()

	var after *models.Session
	for _, s := range sim.Sessions() {
		if s.ID == target.ID {
			after = &s
			break
		}
	}
	if after == nil {
		t.Fatal("target session disappeared")
	}
	if after.Status != models.StatusActive {
		t.Fatalf("expected active, got %s", after.Status)
	}
	want := int(float64(target.Capacity)*0.3 + 0.5)
	if after.CurrentAttendance != want {
		t.Fatalf("seeded attendance %d, want %d (30%% of %d)", after.CurrentAttendance, want, target.Capacity)
	}
}

func TestActiveSessionCompletesAfterAnHour(t *testing.T) {
	sim, clock := newTestSim(7)

	clock.Set(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC))
	sim.Tick() // upcoming -> active
	sim.Tick() // active -> completed (start+1h long past)

	for _, s := range sim.Sessions() {
		if s.Status != models.StatusCompleted {
			t.Fatalf("session %q still %s at end of day", s.Title, s.Status)
		}
	}
	m := sim.Metrics()
	if m.ActiveSessions != 0 || m.CompletedSessions != len(sim.Sessions()) {
		t.Fatalf("metrics out of sync: %+v", m)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	sim, _ := newTestSim(8)

	var notified int
	sim.Subscribe(func(models.Snapshot) { notified++ })

	sim.Start(time.Hour)
	for i := 0; i < 5; i++ {
		sim.Tick()
	}
	sim.Reset()

	if sim.Running() {
		t.Fatal("reset should stop the simulator")
	}
	snap := sim.Data()
	if snap.UpdateCount != 0 {
		t.Fatalf("update count %d after reset, want 0", snap.UpdateCount)
	}
	var completed, active, upcoming int
	for _, s := range snap.Sessions {
		switch s.Status {
		case models.StatusCompleted:
			completed++
		case models.StatusActive:
			active++
		case models.StatusUpcoming:
			upcoming++
		}
	}
	if completed != 4 || active != 4 || upcoming != 7 {
		t.Fatalf("status distribution %d/%d/%d after reset, want 4/4/7", completed, active, upcoming)
	}
	// 1 subscribe-time + 5 ticks + 1 reset push
	if notified != 7 {
		t.Fatalf("subscriber notified %d times, want 7", notified)
	}
}

func TestGettersReturnCopies(t *testing.T) {
	sim, _ := newTestSim(9)

	sessions := sim.Sessions()
	sessions[0].CurrentAttendance = -999

	fresh := sim.Sessions()
	if fresh[0].CurrentAttendance == -999 {
		t.Fatal("mutating a returned slice leaked into canonical state")
	}
}
