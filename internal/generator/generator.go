// Package generator builds the initial consistent conference dataset:
// sessions, speakers, attendees and feedback, plus the derived metrics.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/confpulse/backend/internal/models"
)

const (
	// SessionCount and SpeakerCount are 1:1 with the fixed title/name lists.
	SessionCount = 15
	SpeakerCount = 15
	// AttendeeCount is the initial registration base.
	AttendeeCount = 847

	// Index thresholds for the initial status distribution: the first four
	// sessions have finished, the next four are live, the rest are upcoming.
	completedBelow = 4
	activeBelow    = 8
)

// Generator produces the initial dataset. All randomness flows through the
// injected source so tests can run deterministically.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New creates a Generator. A nil rng gets a time-seeded source; a nil clock
// defaults to time.Now.
func New(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// Generate builds a fresh, internally consistent object graph. It never fails:
// there are no inputs to validate.
func (g *Generator) Generate() *models.Snapshot {
	speakers := g.generateSpeakers()
	sessions := g.generateSessions(speakers)
	attendees, feedback := g.generateAttendees(sessions)

	backfillRecentFeedback(sessions, feedback)
	aggregateSpeakers(speakers, sessions)

	snap := &models.Snapshot{
		Sessions:    sessions,
		Speakers:    speakers,
		Attendees:   attendees,
		Feedback:    feedback,
		LastUpdated: g.now(),
	}
	snap.Metrics = ComputeMetrics(sessions, attendees, feedback)
	return snap
}

func (g *Generator) generateSpeakers() []models.Speaker {
	speakers := make([]models.Speaker, 0, SpeakerCount)
	for i, name := range speakerNames {
		handle := strings.ToLower(strings.ReplaceAll(name, " ", ""))
		speakers = append(speakers, models.Speaker{
			ID:      uuid.New(),
			Name:    name,
			Title:   speakerTitles[i%len(speakerTitles)],
			Company: companies[i%len(companies)],
			Bio:     fmt.Sprintf("%s is %s at %s.", name, speakerTitles[i%len(speakerTitles)], companies[i%len(companies)]),
			Avatar:  fmt.Sprintf("/avatars/%s.png", handle),
			Rating:  3.5 + g.rng.Float64()*1.5,
			Expertise: []string{
				sessionTags[g.rng.Intn(len(sessionTags))],
				sessionTags[g.rng.Intn(len(sessionTags))],
			},
			Social: models.SocialLinks{
				Twitter:  "@" + handle,
				LinkedIn: "linkedin.com/in/" + handle,
			},
		})
	}
	return speakers
}

func (g *Generator) generateSessions(speakers []models.Speaker) []models.Session {
	sessions := make([]models.Session, 0, SessionCount)
	for i := 0; i < SessionCount; i++ {
		speaker := speakers[i%len(speakers)]
		capacity := 50 + g.rng.Intn(150)
		attendance := int(float64(capacity) * (0.5 + g.rng.Float64()*0.5))

		status := models.StatusUpcoming
		switch {
		case i < completedBelow:
			status = models.StatusCompleted
		case i < activeBelow:
			status = models.StatusActive
		}

		s := models.Session{
			ID:                uuid.New(),
			Title:             sessionTitles[i%len(sessionTitles)],
			SpeakerID:         speaker.ID,
			SpeakerName:       speaker.Name,
			Room:              rooms[i%len(rooms)],
			Track:             tracks[i%len(tracks)],
			StartHour:         9 + i/2, // two sessions per half-hour slot group
			StartMinute:       (i % 2) * 30,
			Capacity:          capacity,
			CurrentAttendance: attendance,
			Engagement:        55 + g.rng.Intn(41),
			Status:            status,
			Tags: []string{
				sessionTags[g.rng.Intn(len(sessionTags))],
				sessionTags[g.rng.Intn(len(sessionTags))],
			},
			Rating: 3.0 + g.rng.Float64()*2.0,
		}
		s.RecomputeAttendanceRate()
		sessions = append(sessions, s)
	}
	return sessions
}

// generateAttendees registers each attendee for 2-5 distinct sessions. A
// registration for an already-completed session is attended with probability
// 0.8, and each attended one produces a feedback record with probability 0.4.
func (g *Generator) generateAttendees(sessions []models.Session) ([]models.Attendee, []models.Feedback) {
	attendees := make([]models.Attendee, 0, AttendeeCount)
	var feedback []models.Feedback
	now := g.now()

	for i := 0; i < AttendeeCount; i++ {
		a := g.NewAttendee(i, now)

		regCount := 2 + g.rng.Intn(4)
		seen := make(map[uuid.UUID]bool, regCount)
		for len(a.RegisteredSessions) < regCount {
			s := &sessions[g.rng.Intn(len(sessions))]
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			a.RegisteredSessions = append(a.RegisteredSessions, s.ID)

			if s.Status != models.StatusCompleted {
				continue
			}
			if g.rng.Float64() < 0.8 {
				a.AttendedSessions = append(a.AttendedSessions, s.ID)
				if g.rng.Float64() < 0.4 {
					feedback = append(feedback, g.NewFeedback(s, &a, now))
				}
			}
		}
		attendees = append(attendees, a)
	}
	return attendees, feedback
}

// NewAttendee synthesizes attendee number i. Also used by the simulator's
// growth pass for late registrations.
func (g *Generator) NewAttendee(i int, now time.Time) models.Attendee {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return models.Attendee{
		ID:              uuid.New(),
		Name:            first + " " + last,
		Email:           fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		Company:         companies[g.rng.Intn(len(companies))],
		Role:            attendeeRoles[g.rng.Intn(len(attendeeRoles))],
		EngagementScore: 40 + g.rng.Intn(61),
		JoinedAt:        now.Add(-time.Duration(g.rng.Intn(72)) * time.Hour),
	}
}

// NewFeedback synthesizes one feedback record for a session. Sub-ratings land
// in 3..5; the overall rating in 2..5 so sentiment is not uniformly positive.
func (g *Generator) NewFeedback(s *models.Session, a *models.Attendee, now time.Time) models.Feedback {
	return models.Feedback{
		ID:           uuid.New(),
		SessionID:    s.ID,
		AttendeeID:   a.ID,
		AttendeeName: a.Name,
		Ratings: models.FeedbackRatings{
			Content:      3 + g.rng.Intn(3),
			Presentation: 3 + g.rng.Intn(3),
			Relevance:    3 + g.rng.Intn(3),
			Overall:      2 + g.rng.Intn(4),
		},
		Comment:      feedbackComments[g.rng.Intn(len(feedbackComments))],
		CreatedAt:    now.Add(-time.Duration(g.rng.Intn(120)) * time.Minute),
		HelpfulCount: g.rng.Intn(20),
		Verified:     g.rng.Float64() < 0.7,
	}
}

// backfillRecentFeedback fills each session's capped recent-feedback view from
// the global list, most recent first.
func backfillRecentFeedback(sessions []models.Session, feedback []models.Feedback) {
	for i := range sessions {
		var recent []models.Feedback
		for j := len(feedback) - 1; j >= 0; j-- {
			if feedback[j].SessionID != sessions[i].ID {
				continue
			}
			recent = append(recent, feedback[j])
			if len(recent) == models.MaxRecentFeedback {
				break
			}
		}
		sessions[i].RecentFeedback = recent
	}
}

// aggregateSpeakers derives per-speaker session and attendance totals.
func aggregateSpeakers(speakers []models.Speaker, sessions []models.Session) {
	for i := range speakers {
		var count, attendees, engagement int
		for j := range sessions {
			if sessions[j].SpeakerID != speakers[i].ID {
				continue
			}
			count++
			attendees += sessions[j].CurrentAttendance
			engagement += sessions[j].Engagement
		}
		speakers[i].SessionCount = count
		speakers[i].TotalAttendees = attendees
		if count > 0 {
			speakers[i].AverageEngagement = float64(engagement) / float64(count)
		}
	}
}

// ComputeMetrics derives the aggregate metrics record from the full dataset.
// Average engagement covers active sessions only; every ratio is guarded
// against empty denominators.
func ComputeMetrics(sessions []models.Session, attendees []models.Attendee, feedback []models.Feedback) models.Metrics {
	m := models.Metrics{
		TotalSessions:  len(sessions),
		TotalAttendees: len(attendees),
		TotalFeedback:  len(feedback),
	}
	var engagementSum int
	for i := range sessions {
		switch sessions[i].Status {
		case models.StatusActive:
			m.ActiveSessions++
			engagementSum += sessions[i].Engagement
		case models.StatusCompleted:
			m.CompletedSessions++
		case models.StatusUpcoming:
			m.UpcomingSessions++
		}
	}
	if m.ActiveSessions > 0 {
		m.AverageEngagement = float64(engagementSum) / float64(m.ActiveSessions)
	}
	var ratingSum int
	for i := range feedback {
		ratingSum += feedback[i].Ratings.Overall
	}
	if len(feedback) > 0 {
		m.AverageRating = float64(ratingSum) / float64(len(feedback))
	}
	return m
}
