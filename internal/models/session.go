package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a session. Transitions only move
// forward: upcoming -> active -> completed.
type SessionStatus string

const (
	StatusUpcoming  SessionStatus = "upcoming"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// MaxRecentFeedback caps the per-session recent feedback list kept for display.
const MaxRecentFeedback = 5

// Session represents one conference session.
type Session struct {
	ID                uuid.UUID     `json:"id"`
	Title             string        `json:"title"`
	SpeakerID         uuid.UUID     `json:"speaker_id"`
	SpeakerName       string        `json:"speaker_name"` // refreshed from the speaker table at snapshot time
	Room              string        `json:"room"`
	Track             string        `json:"track"`
	StartHour         int           `json:"start_hour"`
	StartMinute       int           `json:"start_minute"`
	Capacity          int           `json:"capacity"`
	CurrentAttendance int           `json:"current_attendance"`
	AttendanceRate    float64       `json:"attendance_rate"` // percentage, derived from CurrentAttendance/Capacity
	Engagement        int           `json:"engagement"`      // 0..100
	Status            SessionStatus `json:"status"`
	Tags              []string      `json:"tags"`
	Rating            float64       `json:"rating"` // 0..5
	RecentFeedback    []Feedback    `json:"recent_feedback"`
}

// RecomputeAttendanceRate refreshes the derived attendance rate. A zero
// capacity yields 0 rather than a division by zero.
func (s *Session) RecomputeAttendanceRate() {
	if s.Capacity <= 0 {
		s.AttendanceRate = 0
		return
	}
	s.AttendanceRate = float64(s.CurrentAttendance) / float64(s.Capacity) * 100
}

// StartsAt resolves the stored start hour/minute against the given day.
func (s *Session) StartsAt(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.StartHour, s.StartMinute, 0, 0, day.Location())
}
