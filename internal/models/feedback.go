package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackRatings holds the four 1..5 sub-ratings of one feedback entry.
type FeedbackRatings struct {
	Content      int `json:"content"`
	Presentation int `json:"presentation"`
	Relevance    int `json:"relevance"`
	Overall      int `json:"overall"`
}

// Feedback is one attendee's feedback on one session.
type Feedback struct {
	ID           uuid.UUID       `json:"id"`
	SessionID    uuid.UUID       `json:"session_id"`
	AttendeeID   uuid.UUID       `json:"attendee_id"`
	AttendeeName string          `json:"attendee_name"`
	Ratings      FeedbackRatings `json:"ratings"`
	Comment      string          `json:"comment"`
	CreatedAt    time.Time       `json:"created_at"`
	HelpfulCount int             `json:"helpful_count"`
	Verified     bool            `json:"verified"`
}
