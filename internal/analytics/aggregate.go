package analytics

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/confpulse/backend/internal/models"
)

// AggregateService is the chart-facing analytics façade: chart-ready
// transforms, feedback sentiment, the ROI proxy score and the predictive
// attendance heuristic. It shares the cache implementation (and configured
// TTL) with SessionService.
type AggregateService struct {
	cache    *Cache
	logger   *zap.Logger
	computes atomic.Int64
}

// NewAggregateService creates the service with the given cache TTL (<=0
// means DefaultTTL).
func NewAggregateService(ttl time.Duration, logger *zap.Logger) *AggregateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AggregateService{cache: NewCache(ttl), logger: logger}
}

// ComputeCount reports how many computations ran without a cache hit.
func (a *AggregateService) ComputeCount() int64 { return a.computes.Load() }

// ClearCache evicts all cached results, or single keys when given.
func (a *AggregateService) ClearCache(keys ...string) {
	if len(keys) == 0 {
		a.cache.Clear()
		return
	}
	for _, k := range keys {
		a.cache.Delete(k)
	}
}

// ChartSeries is one labelled series ready for a chart component.
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// SessionCharts bundles the session-level chart, trend and distribution data.
type SessionCharts struct {
	Attendance         ChartSeries    `json:"attendance"`
	Engagement         ChartSeries    `json:"engagement"`
	StatusDistribution map[string]int `json:"status_distribution"`
}

// SessionAnalytics builds chart data over the session list.
func (a *AggregateService) SessionAnalytics(sessions []models.Session) SessionCharts {
	key := cacheKey("agg_sessions", sessions)
	if v, ok := a.cache.Get(key); ok {
		return v.(SessionCharts)
	}
	a.computes.Add(1)

	out := SessionCharts{StatusDistribution: make(map[string]int)}
	for i := range sessions {
		sess := &sessions[i]
		out.Attendance.Labels = append(out.Attendance.Labels, sess.Title)
		out.Attendance.Values = append(out.Attendance.Values, float64(sess.CurrentAttendance))
		out.Engagement.Labels = append(out.Engagement.Labels, sess.Title)
		out.Engagement.Values = append(out.Engagement.Values, float64(sess.Engagement))
		out.StatusDistribution[string(sess.Status)]++
	}

	a.cache.Set(key, out)
	return out
}

// SpeakerCharts bundles per-speaker reach and rating data.
type SpeakerCharts struct {
	Reach              ChartSeries `json:"reach"` // total attendees per speaker
	RatingDistribution ChartSeries `json:"rating_distribution"`
	TopSpeakers        []string    `json:"top_speakers"`
}

// SpeakerAnalytics builds chart data over the speaker list, ordered by reach.
func (a *AggregateService) SpeakerAnalytics(speakers []models.Speaker) SpeakerCharts {
	key := cacheKey("agg_speakers", speakers)
	if v, ok := a.cache.Get(key); ok {
		return v.(SpeakerCharts)
	}
	a.computes.Add(1)

	sorted := append([]models.Speaker(nil), speakers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalAttendees > sorted[j].TotalAttendees
	})

	var out SpeakerCharts
	for i := range sorted {
		sp := &sorted[i]
		out.Reach.Labels = append(out.Reach.Labels, sp.Name)
		out.Reach.Values = append(out.Reach.Values, float64(sp.TotalAttendees))
		out.RatingDistribution.Labels = append(out.RatingDistribution.Labels, sp.Name)
		out.RatingDistribution.Values = append(out.RatingDistribution.Values, sp.Rating)
		if i < 3 {
			out.TopSpeakers = append(out.TopSpeakers, sp.Name)
		}
	}

	a.cache.Set(key, out)
	return out
}

// FeedbackCharts bundles the feedback histogram, sub-rating averages and
// sentiment split.
type FeedbackCharts struct {
	OverallHistogram  [5]int    `json:"overall_histogram"` // index i = count of overall rating i+1
	AverageSubRatings SubRating `json:"average_sub_ratings"`
	Sentiment         Sentiment `json:"sentiment"`
	Total             int       `json:"total"`
}

// SubRating holds the averaged four sub-ratings.
type SubRating struct {
	Content      float64 `json:"content"`
	Presentation float64 `json:"presentation"`
	Relevance    float64 `json:"relevance"`
	Overall      float64 `json:"overall"`
}

// FeedbackAnalytics aggregates a feedback list into chart-ready form.
func (a *AggregateService) FeedbackAnalytics(feedback []models.Feedback) FeedbackCharts {
	key := cacheKey("agg_feedback", feedback)
	if v, ok := a.cache.Get(key); ok {
		return v.(FeedbackCharts)
	}
	a.computes.Add(1)

	out := FeedbackCharts{Total: len(feedback), Sentiment: a.Sentiment(feedback)}
	if len(feedback) == 0 {
		a.cache.Set(key, out)
		return out
	}

	var content, presentation, relevance, overall int
	for i := range feedback {
		r := feedback[i].Ratings
		if r.Overall >= 1 && r.Overall <= 5 {
			out.OverallHistogram[r.Overall-1]++
		}
		content += r.Content
		presentation += r.Presentation
		relevance += r.Relevance
		overall += r.Overall
	}
	n := float64(len(feedback))
	out.AverageSubRatings = SubRating{
		Content:      float64(content) / n,
		Presentation: float64(presentation) / n,
		Relevance:    float64(relevance) / n,
		Overall:      float64(overall) / n,
	}

	a.cache.Set(key, out)
	return out
}

// Sentiment is the percentage split of feedback by overall rating: >=4
// positive, ==3 neutral, <=2 negative.
type Sentiment struct {
	PositivePct float64 `json:"positive_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
	NegativePct float64 `json:"negative_pct"`
}

// Sentiment classifies feedback by overall-rating thresholds. Empty input
// yields the zero split.
func (a *AggregateService) Sentiment(feedback []models.Feedback) Sentiment {
	if len(feedback) == 0 {
		return Sentiment{}
	}
	var positive, neutral, negative int
	for i := range feedback {
		switch overall := feedback[i].Ratings.Overall; {
		case overall >= 4:
			positive++
		case overall == 3:
			neutral++
		default:
			negative++
		}
	}
	n := float64(len(feedback))
	return Sentiment{
		PositivePct: float64(positive) / n * 100,
		NeutralPct:  float64(neutral) / n * 100,
		NegativePct: float64(negative) / n * 100,
	}
}

// ROI computes the proxy value score: total attendance weighted by average
// satisfaction and average engagement. It is a comparison number, not a
// financial figure.
func (a *AggregateService) ROI(sessions []models.Session, feedback []models.Feedback) float64 {
	key := cacheKey("agg_roi", sessions, feedback)
	if v, ok := a.cache.Get(key); ok {
		return v.(float64)
	}
	a.computes.Add(1)

	var attendance, engagement int
	for i := range sessions {
		attendance += sessions[i].CurrentAttendance
		engagement += sessions[i].Engagement
	}
	var satisfaction float64
	if len(feedback) > 0 {
		var sum int
		for i := range feedback {
			sum += feedback[i].Ratings.Overall
		}
		satisfaction = float64(sum) / float64(len(feedback)) / 5
	}
	var avgEngagement float64
	if len(sessions) > 0 {
		avgEngagement = float64(engagement) / float64(len(sessions)) / 100
	}

	score := float64(attendance) * satisfaction * avgEngagement
	score = math.Round(score*10) / 10

	a.cache.Set(key, score)
	return score
}

// Prediction is the estimated attendance for a not-yet-started session.
type Prediction struct {
	ExpectedAttendance int     `json:"expected_attendance"`
	ExpectedFillRate   float64 `json:"expected_fill_rate"` // percentage
	SimilarSessions    int     `json:"similar_sessions"`
}

// defaultFillRate is the flat estimate used when no similar session exists.
const defaultFillRate = 0.7

// PredictAttendance estimates attendance for a session from the historical
// fill rates of sessions sharing its speaker or a tag. With no similar
// sessions it falls back to a flat 70% of capacity.
func (a *AggregateService) PredictAttendance(session models.Session, historical []models.Session) Prediction {
	key := cacheKey("agg_predict", session, historical)
	if v, ok := a.cache.Get(key); ok {
		return v.(Prediction)
	}
	a.computes.Add(1)

	tags := make(map[string]bool, len(session.Tags))
	for _, t := range session.Tags {
		tags[t] = true
	}
	similar := func(other *models.Session) bool {
		if other.ID == session.ID {
			return false
		}
		if other.SpeakerID == session.SpeakerID {
			return true
		}
		for _, t := range other.Tags {
			if tags[t] {
				return true
			}
		}
		return false
	}

	var fillSum float64
	var count int
	for i := range historical {
		if !similar(&historical[i]) {
			continue
		}
		fillSum += historical[i].AttendanceRate / 100
		count++
	}

	rate := defaultFillRate
	if count > 0 {
		rate = fillSum / float64(count)
	}
	p := Prediction{
		ExpectedAttendance: int(math.Round(float64(session.Capacity) * rate)),
		ExpectedFillRate:   rate * 100,
		SimilarSessions:    count,
	}

	a.cache.Set(key, p)
	return p
}

// Insight priorities, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Insight is one rule-derived, human-readable observation.
type Insight struct {
	Priority string `json:"priority"`
	Type     string `json:"type"`
	Message  string `json:"message"`
}

// Insights applies fixed thresholds over the snapshot and returns prioritized
// observations, highest priority first.
func (a *AggregateService) Insights(snap models.Snapshot) []Insight {
	key := cacheKey("agg_insights", snap.Sessions, snap.Metrics)
	if v, ok := a.cache.Get(key); ok {
		return v.([]Insight)
	}
	a.computes.Add(1)

	var insights []Insight
	if snap.Metrics.ActiveSessions > 0 && snap.Metrics.AverageEngagement < 50 {
		insights = append(insights, Insight{
			Priority: PriorityHigh,
			Type:     "engagement",
			Message: fmt.Sprintf("Average engagement across live sessions is %.0f/100; audiences are drifting",
				snap.Metrics.AverageEngagement),
		})
	}
	for i := range snap.Sessions {
		sess := &snap.Sessions[i]
		if sess.Status == models.StatusActive && sess.AttendanceRate < 40 {
			insights = append(insights, Insight{
				Priority: PriorityMedium,
				Type:     "attendance",
				Message:  fmt.Sprintf("%q is running at %.0f%% of capacity", sess.Title, sess.AttendanceRate),
			})
		}
	}
	if snap.Metrics.CompletedSessions > 0 {
		perSession := float64(snap.Metrics.TotalFeedback) / float64(snap.Metrics.CompletedSessions)
		if perSession < 3 {
			insights = append(insights, Insight{
				Priority: PriorityLow,
				Type:     "feedback",
				Message:  fmt.Sprintf("Only %.1f feedback entries per completed session; prompt attendees to rate", perSession),
			})
		}
	}
	if snap.Metrics.AverageRating >= 4 && snap.Metrics.TotalFeedback > 0 {
		insights = append(insights, Insight{
			Priority: PriorityLow,
			Type:     "rating",
			Message:  fmt.Sprintf("Overall satisfaction is strong at %.1f/5", snap.Metrics.AverageRating),
		})
	}

	rank := map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}
	sort.SliceStable(insights, func(i, j int) bool {
		return rank[insights[i].Priority] < rank[insights[j].Priority]
	})

	a.cache.Set(key, insights)
	return insights
}
