package analytics

import (
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confpulse/backend/internal/models"
)

// Ranking metrics accepted by TopSessions.
const (
	MetricAttendance = "attendance"
	MetricEngagement = "engagement"
	MetricCapacity   = "capacity"
	MetricRating     = "rating"
)

// Problem types surfaced by NeedingAttention.
const (
	ProblemLowAttendance = "low_attendance"
	ProblemLowEngagement = "low_engagement"
	ProblemLowRating     = "low_rating"
)

// Severity levels attached to problems.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// recommendedActions maps each problem type to templated remedial actions.
var recommendedActions = map[string][]string{
	ProblemLowAttendance: {
		"Send a reminder notification to registered attendees",
		"Promote the session on the event feed",
		"Consider moving the session to a smaller room",
	},
	ProblemLowEngagement: {
		"Prompt the speaker to run a live poll",
		"Open the Q&A queue to the audience",
		"Trade remaining slides for discussion time",
	},
	ProblemLowRating: {
		"Review recent feedback comments with the speaker",
		"Collect in-person feedback at the door",
		"Offer a follow-up office-hours slot",
	},
}

// SessionService computes statistics and rankings over session lists. All
// methods are pure over their inputs apart from the result cache.
type SessionService struct {
	cache    *Cache
	logger   *zap.Logger
	computes atomic.Int64
}

// NewSessionService creates the service with the given cache TTL (<=0 means
// DefaultTTL).
func NewSessionService(ttl time.Duration, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{cache: NewCache(ttl), logger: logger}
}

// ComputeCount reports how many computations ran without a cache hit.
func (s *SessionService) ComputeCount() int64 { return s.computes.Load() }

// ClearCache evicts all cached results, or a single computation's results
// when keys are given.
func (s *SessionService) ClearCache(keys ...string) {
	if len(keys) == 0 {
		s.cache.Clear()
		return
	}
	for _, k := range keys {
		s.cache.Delete(k)
	}
}

// SessionStats is the aggregate statistics record. An empty input yields the
// zero value, never an error.
type SessionStats struct {
	Total             int     `json:"total"`
	Active            int     `json:"active"`
	Upcoming          int     `json:"upcoming"`
	Completed         int     `json:"completed"`
	AverageAttendance float64 `json:"average_attendance"`
	AverageEngagement float64 `json:"average_engagement"`
	TotalCapacity     int     `json:"total_capacity"`
	TotalAttendees    int     `json:"total_attendees"`
}

// Stats aggregates counts, capacity and averages over the given sessions.
func (s *SessionService) Stats(sessions []models.Session) SessionStats {
	key := cacheKey("session_stats", sessions)
	if v, ok := s.cache.Get(key); ok {
		return v.(SessionStats)
	}
	s.computes.Add(1)

	var stats SessionStats
	if len(sessions) == 0 {
		s.cache.Set(key, stats)
		return stats
	}
	var attendance, engagement int
	for i := range sessions {
		sess := &sessions[i]
		stats.Total++
		switch sess.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusUpcoming:
			stats.Upcoming++
		case models.StatusCompleted:
			stats.Completed++
		}
		stats.TotalCapacity += sess.Capacity
		stats.TotalAttendees += sess.CurrentAttendance
		attendance += sess.CurrentAttendance
		engagement += sess.Engagement
	}
	stats.AverageAttendance = float64(attendance) / float64(stats.Total)
	stats.AverageEngagement = float64(engagement) / float64(stats.Total)

	s.cache.Set(key, stats)
	return stats
}

// RankedSession is a session annotated with its rank and percentile within
// the ranked set.
type RankedSession struct {
	models.Session
	Rank       int     `json:"rank"`
	Percentile float64 `json:"percentile"`
}

// TopSessions ranks sessions by the given metric (default attendance) and
// returns at most limit entries. Ties keep the original array order.
func (s *SessionService) TopSessions(sessions []models.Session, metric string, limit int) []RankedSession {
	key := cacheKey("top_sessions", sessions, metric, limit)
	if v, ok := s.cache.Get(key); ok {
		return v.([]RankedSession)
	}
	s.computes.Add(1)

	value := func(sess *models.Session) float64 {
		switch metric {
		case MetricEngagement:
			return float64(sess.Engagement)
		case MetricCapacity:
			return float64(sess.Capacity)
		case MetricRating:
			return sess.Rating
		default:
			return float64(sess.CurrentAttendance)
		}
	}

	sorted := append([]models.Session(nil), sessions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return value(&sorted[i]) > value(&sorted[j])
	})

	n := len(sorted)
	if limit <= 0 || limit > n {
		limit = n
	}
	ranked := make([]RankedSession, 0, limit)
	for i := 0; i < limit; i++ {
		ranked = append(ranked, RankedSession{
			Session:    sorted[i],
			Rank:       i + 1,
			Percentile: float64(n-i) / float64(n) * 100,
		})
	}

	s.cache.Set(key, ranked)
	return ranked
}

// HourBucket aggregates the sessions starting within one hour.
type HourBucket struct {
	Hour            int     `json:"hour"`
	SessionCount    int     `json:"session_count"`
	TotalAttendance int     `json:"total_attendance"`
	TotalCapacity   int     `json:"total_capacity"`
	FillRate        float64 `json:"fill_rate"`
}

// AttendanceTrends buckets sessions by start hour, ascending.
func (s *SessionService) AttendanceTrends(sessions []models.Session) []HourBucket {
	key := cacheKey("attendance_trends", sessions)
	if v, ok := s.cache.Get(key); ok {
		return v.([]HourBucket)
	}
	s.computes.Add(1)

	byHour := make(map[int]*HourBucket)
	for i := range sessions {
		sess := &sessions[i]
		b, ok := byHour[sess.StartHour]
		if !ok {
			b = &HourBucket{Hour: sess.StartHour}
			byHour[sess.StartHour] = b
		}
		b.SessionCount++
		b.TotalAttendance += sess.CurrentAttendance
		b.TotalCapacity += sess.Capacity
	}

	buckets := make([]HourBucket, 0, len(byHour))
	for _, b := range byHour {
		if b.TotalCapacity > 0 {
			b.FillRate = float64(b.TotalAttendance) / float64(b.TotalCapacity) * 100
		}
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })

	s.cache.Set(key, buckets)
	return buckets
}

// Category dimensions accepted by ByCategory.
const (
	CategoryTrack  = "track"
	CategoryRoom   = "room"
	CategoryStatus = "status"
)

// CategoryBreakdown aggregates the sessions sharing one category value.
type CategoryBreakdown struct {
	Category          string  `json:"category"`
	SessionCount      int     `json:"session_count"`
	TotalAttendance   int     `json:"total_attendance"`
	AverageEngagement float64 `json:"average_engagement"`
	AverageRating     float64 `json:"average_rating"`
	TopSession        string  `json:"top_session"` // highest attendance in the category
}

// ByCategory groups sessions along one dimension (default track) and returns
// per-category aggregates, sorted by category value.
func (s *SessionService) ByCategory(sessions []models.Session, category string) []CategoryBreakdown {
	if category == "" {
		category = CategoryTrack
	}
	key := cacheKey("by_category", sessions, category)
	if v, ok := s.cache.Get(key); ok {
		return v.([]CategoryBreakdown)
	}
	s.computes.Add(1)

	dimension := func(sess *models.Session) string {
		switch category {
		case CategoryRoom:
			return sess.Room
		case CategoryStatus:
			return string(sess.Status)
		default:
			return sess.Track
		}
	}

	type acc struct {
		breakdown CategoryBreakdown
		eng       int
		rating    float64
		topAtt    int
	}
	groups := make(map[string]*acc)
	for i := range sessions {
		sess := &sessions[i]
		k := dimension(sess)
		g, ok := groups[k]
		if !ok {
			g = &acc{breakdown: CategoryBreakdown{Category: k}, topAtt: -1}
			groups[k] = g
		}
		g.breakdown.SessionCount++
		g.breakdown.TotalAttendance += sess.CurrentAttendance
		g.eng += sess.Engagement
		g.rating += sess.Rating
		if sess.CurrentAttendance > g.topAtt {
			g.topAtt = sess.CurrentAttendance
			g.breakdown.TopSession = sess.Title
		}
	}

	out := make([]CategoryBreakdown, 0, len(groups))
	for _, g := range groups {
		g.breakdown.AverageEngagement = float64(g.eng) / float64(g.breakdown.SessionCount)
		g.breakdown.AverageRating = g.rating / float64(g.breakdown.SessionCount)
		out = append(out, g.breakdown)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })

	s.cache.Set(key, out)
	return out
}

// Problem is one flagged issue on a session.
type Problem struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Detail   string   `json:"detail"`
	Actions  []string `json:"actions"`
}

// AttentionItem is a session needing organizer attention with its problems.
type AttentionItem struct {
	SessionID       uuid.UUID `json:"session_id"`
	Title           string    `json:"title"`
	OverallSeverity string    `json:"overall_severity"`
	Problems        []Problem `json:"problems"`
}

// NeedingAttention flags sessions whose attendance rate is under 50%,
// engagement under 60 or rating under 3. High-severity items sort first.
func (s *SessionService) NeedingAttention(sessions []models.Session) []AttentionItem {
	key := cacheKey("needing_attention", sessions)
	if v, ok := s.cache.Get(key); ok {
		return v.([]AttentionItem)
	}
	s.computes.Add(1)

	var items []AttentionItem
	for i := range sessions {
		sess := &sessions[i]
		var problems []Problem

		if sess.AttendanceRate < 50 {
			severity := SeverityMedium
			if sess.AttendanceRate < 30 {
				severity = SeverityHigh
			}
			problems = append(problems, Problem{
				Type:     ProblemLowAttendance,
				Severity: severity,
				Detail:   fmt.Sprintf("attendance at %.0f%% of capacity", sess.AttendanceRate),
				Actions:  recommendedActions[ProblemLowAttendance],
			})
		}
		if sess.Engagement < 60 {
			severity := SeverityMedium
			if sess.Engagement < 40 {
				severity = SeverityHigh
			}
			problems = append(problems, Problem{
				Type:     ProblemLowEngagement,
				Severity: severity,
				Detail:   fmt.Sprintf("engagement at %d/100", sess.Engagement),
				Actions:  recommendedActions[ProblemLowEngagement],
			})
		}
		if sess.Rating < 3 {
			severity := SeverityMedium
			if sess.Rating <= 2 {
				severity = SeverityHigh
			}
			problems = append(problems, Problem{
				Type:     ProblemLowRating,
				Severity: severity,
				Detail:   fmt.Sprintf("rating at %.1f/5", sess.Rating),
				Actions:  recommendedActions[ProblemLowRating],
			})
		}
		if len(problems) == 0 {
			continue
		}

		overall := SeverityMedium
		for _, p := range problems {
			if p.Severity == SeverityHigh {
				overall = SeverityHigh
				break
			}
		}
		items = append(items, AttentionItem{
			SessionID:       sess.ID,
			Title:           sess.Title,
			OverallSeverity: overall,
			Problems:        problems,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OverallSeverity == SeverityHigh && items[j].OverallSeverity != SeverityHigh
	})

	s.cache.Set(key, items)
	return items
}

// PerformanceSummary bundles the overview, highlights and strategic
// recommendations for the organizer briefing view.
type PerformanceSummary struct {
	Overview        SessionStats    `json:"overview"`
	Highlights      []string        `json:"highlights"`
	Attention       []AttentionItem `json:"attention"`
	Recommendations []string        `json:"recommendations"`
}

// Summary composes stats, rankings and attention diagnostics into one bundle
// with heuristic strategic recommendations.
func (s *SessionService) Summary(sessions []models.Session, speakers []models.Speaker, attendees []models.Attendee) PerformanceSummary {
	key := cacheKey("performance_summary", sessions, speakers, attendees)
	if v, ok := s.cache.Get(key); ok {
		return v.(PerformanceSummary)
	}
	s.computes.Add(1)

	summary := PerformanceSummary{
		Overview:  s.Stats(sessions),
		Attention: s.NeedingAttention(sessions),
	}

	if top := s.TopSessions(sessions, MetricAttendance, 1); len(top) > 0 {
		summary.Highlights = append(summary.Highlights,
			fmt.Sprintf("%q leads attendance with %d attendees", top[0].Title, top[0].CurrentAttendance))
	}
	if top := s.TopSessions(sessions, MetricEngagement, 1); len(top) > 0 {
		summary.Highlights = append(summary.Highlights,
			fmt.Sprintf("%q has the most engaged audience (%d/100)", top[0].Title, top[0].Engagement))
	}
	summary.Highlights = append(summary.Highlights,
		fmt.Sprintf("%d speakers presenting to %d registered attendees", len(speakers), len(attendees)))

	summary.Recommendations = s.strategicRecommendations(sessions)

	s.cache.Set(key, summary)
	return summary
}

// strategicRecommendations applies the fixed heuristics: overall fill rate
// under 60%, more than 30% of sessions with low engagement, and the morning
// versus afternoon attendance split.
func (s *SessionService) strategicRecommendations(sessions []models.Session) []string {
	var recs []string
	if len(sessions) == 0 {
		return recs
	}

	var fillSum float64
	var lowEngagement int
	var morningSum, morningCount, afternoonSum, afternoonCount int
	for i := range sessions {
		sess := &sessions[i]
		fillSum += sess.AttendanceRate
		if sess.Engagement < 60 {
			lowEngagement++
		}
		if sess.StartHour < 12 {
			morningSum += sess.CurrentAttendance
			morningCount++
		} else {
			afternoonSum += sess.CurrentAttendance
			afternoonCount++
		}
	}

	if avgFill := fillSum / float64(len(sessions)); avgFill < 60 {
		recs = append(recs, fmt.Sprintf(
			"Average fill rate is %.0f%%; tighten room assignments or consolidate low-demand sessions", avgFill))
	}
	if share := float64(lowEngagement) / float64(len(sessions)); share > 0.3 {
		recs = append(recs, fmt.Sprintf(
			"%.0f%% of sessions show low engagement; brief speakers on interactive formats", share*100))
	}
	if morningCount > 0 && afternoonCount > 0 {
		morningAvg := float64(morningSum) / float64(morningCount)
		afternoonAvg := float64(afternoonSum) / float64(afternoonCount)
		if morningAvg > afternoonAvg {
			recs = append(recs, "Morning sessions outdraw afternoon ones; schedule headline content before noon")
		} else if afternoonAvg > morningAvg {
			recs = append(recs, "Afternoon sessions outdraw morning ones; consider a later start next time")
		}
	}
	return recs
}
