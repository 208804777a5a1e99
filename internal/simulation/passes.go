package simulation

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/confpulse/backend/internal/models"
)

// Tick runs one full mutation cycle over the canonical dataset and publishes
// the resulting snapshot. The pass order is significant: later passes read
// state already modified by earlier ones. Tick is directly callable; the
// interval timer started by Start simply calls it.
func (s *Simulator) Tick() {
	s.mu.Lock()
	s.driftAttendance()
	s.driftEngagement()
	s.injectFeedback()
	s.transitionStatuses()
	s.growAttendees()

	s.data.LastUpdated = s.now()
	s.data.UpdateCount++
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("tick", zap.Int("update", snap.UpdateCount))
	s.notify(subs, snap)
}

// driftAttendance nudges attendance of active sessions: 60% chance of gaining
// up to min(5, remaining capacity), 20% chance of losing up to min(3, current
// attendance), otherwise unchanged.
func (s *Simulator) driftAttendance() {
	for i := range s.data.Sessions {
		sess := &s.data.Sessions[i]
		if sess.Status != models.StatusActive {
			continue
		}
		switch r := s.rng.Float64(); {
		case r < 0.6:
			if room := min(5, sess.Capacity-sess.CurrentAttendance); room > 0 {
				sess.CurrentAttendance += 1 + s.rng.Intn(room)
			}
		case r < 0.8:
			if drop := min(3, sess.CurrentAttendance); drop > 0 {
				sess.CurrentAttendance -= 1 + s.rng.Intn(drop)
			}
		}
		sess.RecomputeAttendanceRate()
	}
}

// driftEngagement moves each active session's engagement by a uniform amount
// in [-5, +5], clamped to [0, 100], then refreshes the global average over
// active sessions (averaging over 1 when none are active).
func (s *Simulator) driftEngagement() {
	var sum, active int
	for i := range s.data.Sessions {
		sess := &s.data.Sessions[i]
		if sess.Status != models.StatusActive {
			continue
		}
		e := float64(sess.Engagement) + (s.rng.Float64()*10 - 5)
		sess.Engagement = clamp(int(math.Round(e)), 0, 100)
		sum += sess.Engagement
		active++
	}
	s.data.Metrics.AverageEngagement = float64(sum) / float64(max(active, 1))
}

// injectFeedback emits, with probability 0.3, one new feedback record for a
// random completed session: sub-ratings in [3,5], a templated comment,
// prepended to the session's capped recent list and appended to the global
// list.
func (s *Simulator) injectFeedback() {
	if s.rng.Float64() >= 0.3 {
		return
	}
	var completed []int
	for i := range s.data.Sessions {
		if s.data.Sessions[i].Status == models.StatusCompleted {
			completed = append(completed, i)
		}
	}
	if len(completed) == 0 {
		return
	}
	sess := &s.data.Sessions[completed[s.rng.Intn(len(completed))]]

	attendee := &s.data.Attendees[s.rng.Intn(len(s.data.Attendees))]
	fb := s.gen.NewFeedback(sess, attendee, s.now())
	fb.CreatedAt = s.now()
	fb.Ratings = models.FeedbackRatings{
		Content:      3 + s.rng.Intn(3),
		Presentation: 3 + s.rng.Intn(3),
		Relevance:    3 + s.rng.Intn(3),
		Overall:      3 + s.rng.Intn(3),
	}

	sess.RecentFeedback = append([]models.Feedback{fb}, sess.RecentFeedback...)
	if len(sess.RecentFeedback) > models.MaxRecentFeedback {
		sess.RecentFeedback = sess.RecentFeedback[:models.MaxRecentFeedback]
	}
	s.data.Feedback = append(s.data.Feedback, fb)

	var sum int
	for i := range s.data.Feedback {
		sum += s.data.Feedback[i].Ratings.Overall
	}
	s.data.Metrics.TotalFeedback = len(s.data.Feedback)
	s.data.Metrics.AverageRating = float64(sum) / float64(len(s.data.Feedback))
}

// transitionStatuses advances session status against the wall clock: upcoming
// sessions whose start time has arrived go active (seeded with ~30% capacity
// attendance), active sessions past start+1h complete. One step per tick;
// nothing ever moves backward.
func (s *Simulator) transitionStatuses() {
	now := s.now()
	for i := range s.data.Sessions {
		sess := &s.data.Sessions[i]
		start := sess.StartsAt(now)
		switch sess.Status {
		case models.StatusUpcoming:
			if !now.Before(start) {
				sess.Status = models.StatusActive
				sess.CurrentAttendance = int(math.Round(float64(sess.Capacity) * 0.3))
				sess.RecomputeAttendanceRate()
				s.logger.Info("session started", zap.String("title", sess.Title))
			}
		case models.StatusActive:
			if !now.Before(start.Add(time.Hour)) {
				sess.Status = models.StatusCompleted
				s.logger.Info("session completed", zap.String("title", sess.Title))
			}
		}
	}

	var active, completed, upcoming int
	for i := range s.data.Sessions {
		switch s.data.Sessions[i].Status {
		case models.StatusActive:
			active++
		case models.StatusCompleted:
			completed++
		case models.StatusUpcoming:
			upcoming++
		}
	}
	s.data.Metrics.ActiveSessions = active
	s.data.Metrics.CompletedSessions = completed
	s.data.Metrics.UpcomingSessions = upcoming
}

// growAttendees registers, with probability 0.1, one walk-in attendee,
// signing them up for a random upcoming session when one exists.
func (s *Simulator) growAttendees() {
	if s.rng.Float64() >= 0.1 {
		return
	}
	a := s.gen.NewAttendee(len(s.data.Attendees), s.now())

	var upcoming []int
	for i := range s.data.Sessions {
		if s.data.Sessions[i].Status == models.StatusUpcoming {
			upcoming = append(upcoming, i)
		}
	}
	if len(upcoming) > 0 {
		target := s.data.Sessions[upcoming[s.rng.Intn(len(upcoming))]]
		a.RegisteredSessions = append(a.RegisteredSessions, target.ID)
	}

	s.data.Attendees = append(s.data.Attendees, a)
	s.data.Metrics.TotalAttendees = len(s.data.Attendees)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
