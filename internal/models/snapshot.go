package models

import "time"

// Metrics is the aggregate view recomputed after every mutation pass. It is
// derived data, never a source of truth on its own.
type Metrics struct {
	TotalSessions     int     `json:"total_sessions"`
	ActiveSessions    int     `json:"active_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	UpcomingSessions  int     `json:"upcoming_sessions"`
	TotalAttendees    int     `json:"total_attendees"`
	AverageEngagement float64 `json:"average_engagement"`
	TotalFeedback     int     `json:"total_feedback"`
	AverageRating     float64 `json:"average_rating"`
}

// Snapshot is a shallow-copied, timestamped view of the simulator's canonical
// dataset, safe for external read-only use.
type Snapshot struct {
	Sessions    []Session  `json:"sessions"`
	Speakers    []Speaker  `json:"speakers"`
	Attendees   []Attendee `json:"attendees"`
	Feedback    []Feedback `json:"feedback"`
	Metrics     Metrics    `json:"metrics"`
	LastUpdated time.Time  `json:"last_updated"`
	UpdateCount int        `json:"update_count"`
}
