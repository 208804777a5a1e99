package generator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/confpulse/backend/internal/models"
)

func testGenerator(seed int64) *Generator {
	clock := func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return New(rand.New(rand.NewSource(seed)), clock)
}

func TestGenerateCounts(t *testing.T) {
	snap := testGenerator(1).Generate()

	if len(snap.Sessions) != SessionCount {
		t.Fatalf("expected %d sessions, got %d", SessionCount, len(snap.Sessions))
	}
	if len(snap.Speakers) != SpeakerCount {
		t.Fatalf("expected %d speakers, got %d", SpeakerCount, len(snap.Speakers))
	}
	if len(snap.Attendees) != AttendeeCount {
		t.Fatalf("expected %d attendees, got %d", AttendeeCount, len(snap.Attendees))
	}
}

func TestStatusDistributionByIndex(t *testing.T) {
	snap := testGenerator(2).Generate()

	var completed int
	for i, s := range snap.Sessions {
		want := models.StatusUpcoming
		switch {
		case i < completedBelow:
			want = models.StatusCompleted
		case i < activeBelow:
			want = models.StatusActive
		}
		if s.Status != want {
			t.Errorf("session %d: expected status %s, got %s", i, want, s.Status)
		}
		if s.Status == models.StatusCompleted {
			completed++
		}
	}
	if completed != completedBelow {
		t.Fatalf("expected %d completed sessions, got %d", completedBelow, completed)
	}
}

func TestTimeSlots(t *testing.T) {
	snap := testGenerator(3).Generate()
	for i, s := range snap.Sessions {
		if s.StartHour != 9+i/2 {
			t.Errorf("session %d: expected start hour %d, got %d", i, 9+i/2, s.StartHour)
		}
		if s.StartMinute != (i%2)*30 {
			t.Errorf("session %d: expected start minute %d, got %d", i, (i%2)*30, s.StartMinute)
		}
	}
}

func TestAttendanceWithinCapacity(t *testing.T) {
	snap := testGenerator(4).Generate()
	for i, s := range snap.Sessions {
		if s.CurrentAttendance < 0 || s.CurrentAttendance > s.Capacity {
			t.Errorf("session %d: attendance %d outside [0, %d]", i, s.CurrentAttendance, s.Capacity)
		}
		want := float64(s.CurrentAttendance) / float64(s.Capacity) * 100
		if s.AttendanceRate != want {
			t.Errorf("session %d: attendance rate %.2f, want %.2f", i, s.AttendanceRate, want)
		}
	}
}

func TestAttendedSubsetOfRegistered(t *testing.T) {
	snap := testGenerator(5).Generate()

	completed := make(map[uuid.UUID]bool)
	for _, s := range snap.Sessions {
		if s.Status == models.StatusCompleted {
			completed[s.ID] = true
		}
	}

	for i := range snap.Attendees {
		a := &snap.Attendees[i]
		if len(a.RegisteredSessions) < 2 || len(a.RegisteredSessions) > 5 {
			t.Errorf("attendee %d: %d registrations, want 2..5", i, len(a.RegisteredSessions))
		}
		for _, id := range a.AttendedSessions {
			if !a.HasRegistered(id) {
				t.Errorf("attendee %d attended session %s without registering", i, id)
			}
			if !completed[id] {
				t.Errorf("attendee %d attended session %s which is not completed", i, id)
			}
		}
	}
}

func TestRecentFeedbackBackfill(t *testing.T) {
	snap := testGenerator(6).Generate()

	if len(snap.Feedback) == 0 {
		t.Fatal("expected some feedback to be generated")
	}
	for i := range snap.Sessions {
		s := &snap.Sessions[i]
		if len(s.RecentFeedback) > models.MaxRecentFeedback {
			t.Errorf("session %d: recent feedback %d exceeds cap %d", i, len(s.RecentFeedback), models.MaxRecentFeedback)
		}
		for _, fb := range s.RecentFeedback {
			if fb.SessionID != s.ID {
				t.Errorf("session %d holds feedback for session %s", i, fb.SessionID)
			}
		}
	}
}

func TestMetricsConsistency(t *testing.T) {
	snap := testGenerator(7).Generate()

	var active int
	for _, s := range snap.Sessions {
		if s.Status == models.StatusActive {
			active++
		}
	}
	if snap.Metrics.ActiveSessions != active {
		t.Fatalf("metrics active %d, counted %d", snap.Metrics.ActiveSessions, active)
	}
	if snap.Metrics.TotalFeedback != len(snap.Feedback) {
		t.Fatalf("metrics feedback %d, list %d", snap.Metrics.TotalFeedback, len(snap.Feedback))
	}
	if snap.Metrics.TotalAttendees != len(snap.Attendees) {
		t.Fatalf("metrics attendees %d, list %d", snap.Metrics.TotalAttendees, len(snap.Attendees))
	}
}

func TestSeededGenerationIsDeterministic(t *testing.T) {
	a := testGenerator(42).Generate()
	b := testGenerator(42).Generate()

	for i := range a.Sessions {
		if a.Sessions[i].Capacity != b.Sessions[i].Capacity {
			t.Fatalf("session %d: capacities diverge (%d vs %d)", i, a.Sessions[i].Capacity, b.Sessions[i].Capacity)
		}
		if a.Sessions[i].CurrentAttendance != b.Sessions[i].CurrentAttendance {
			t.Fatalf("session %d: attendance diverges", i)
		}
	}
	if len(a.Feedback) != len(b.Feedback) {
		t.Fatalf("feedback counts diverge (%d vs %d)", len(a.Feedback), len(b.Feedback))
	}
}
