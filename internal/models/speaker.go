package models

import "github.com/google/uuid"

// SocialLinks holds a speaker's public handles.
type SocialLinks struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
}

// Speaker represents one conference speaker. Aggregate fields (SessionCount,
// TotalAttendees, AverageEngagement) are derived from the speaker's sessions.
type Speaker struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Title             string      `json:"title"`
	Company           string      `json:"company"`
	Bio               string      `json:"bio"`
	Avatar            string      `json:"avatar"`
	SessionCount      int         `json:"session_count"`
	TotalAttendees    int         `json:"total_attendees"`
	AverageEngagement float64     `json:"average_engagement"`
	Rating            float64     `json:"rating"`
	Expertise         []string    `json:"expertise"`
	Social            SocialLinks `json:"social"`
}
