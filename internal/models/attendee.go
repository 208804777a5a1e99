package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendee represents one registered conference attendee.
// AttendedSessions is always a subset of RegisteredSessions and only ever
// references completed sessions.
type Attendee struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	Company            string      `json:"company"`
	Role               string      `json:"role"`
	RegisteredSessions []uuid.UUID `json:"registered_sessions"`
	AttendedSessions   []uuid.UUID `json:"attended_sessions"`
	EngagementScore    int         `json:"engagement_score"`
	JoinedAt           time.Time   `json:"joined_at"`
}

// HasRegistered reports whether the attendee registered for the session.
func (a *Attendee) HasRegistered(sessionID uuid.UUID) bool {
	for _, id := range a.RegisteredSessions {
		if id == sessionID {
			return true
		}
	}
	return false
}
