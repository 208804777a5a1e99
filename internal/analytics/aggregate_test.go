package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/confpulse/backend/internal/models"
)

func feedbackWithOverall(ratings ...int) []models.Feedback {
	out := make([]models.Feedback, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, models.Feedback{
			ID:      uuid.New(),
			Ratings: models.FeedbackRatings{Content: r, Presentation: r, Relevance: r, Overall: r},
		})
	}
	return out
}

func TestSentimentThresholds(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)

	s := svc.Sentiment(feedbackWithOverall(5, 4, 3, 2))
	if s.PositivePct != 50 {
		t.Fatalf("positive %.1f, want 50", s.PositivePct)
	}
	if s.NeutralPct != 25 {
		t.Fatalf("neutral %.1f, want 25", s.NeutralPct)
	}
	if s.NegativePct != 25 {
		t.Fatalf("negative %.1f, want 25", s.NegativePct)
	}
}

func TestSentimentEmpty(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	if s := svc.Sentiment(nil); s != (Sentiment{}) {
		t.Fatalf("expected zero sentiment, got %+v", s)
	}
}

func TestROIZeroGuards(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	if score := svc.ROI(nil, nil); score != 0 {
		t.Fatalf("ROI on empty input %.1f, want 0", score)
	}
}

func TestROIScore(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	sessions := []models.Session{
		testSession("a", 100, 100, 80, 4.0, models.StatusActive),
	}
	// satisfaction 4/5=0.8, engagement 80/100=0.8, attendance 100
	score := svc.ROI(sessions, feedbackWithOverall(4))
	if score != 64 {
		t.Fatalf("ROI %.1f, want 64", score)
	}
}

func TestPredictAttendanceFallback(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	target := testSession("solo", 200, 0, 0, 0, models.StatusUpcoming)
	target.Tags = []string{"niche"}

	p := svc.PredictAttendance(target, []models.Session{target})
	if p.SimilarSessions != 0 {
		t.Fatalf("expected no similar sessions, got %d", p.SimilarSessions)
	}
	if p.ExpectedAttendance != 140 {
		t.Fatalf("expected flat 70%% of 200 = 140, got %d", p.ExpectedAttendance)
	}
}

func TestPredictAttendanceFromSimilar(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	speaker := uuid.New()

	target := testSession("upcoming", 100, 0, 0, 0, models.StatusUpcoming)
	target.SpeakerID = speaker

	past := testSession("earlier", 200, 100, 80, 4.0, models.StatusCompleted) // 50% fill
	past.SpeakerID = speaker

	p := svc.PredictAttendance(target, []models.Session{past, target})
	if p.SimilarSessions != 1 {
		t.Fatalf("similar sessions %d, want 1", p.SimilarSessions)
	}
	if p.ExpectedAttendance != 50 {
		t.Fatalf("expected 50%% of 100 = 50, got %d", p.ExpectedAttendance)
	}
}

func TestFeedbackAnalytics(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)

	out := svc.FeedbackAnalytics(feedbackWithOverall(5, 5, 3))
	if out.Total != 3 {
		t.Fatalf("total %d", out.Total)
	}
	if out.OverallHistogram[4] != 2 || out.OverallHistogram[2] != 1 {
		t.Fatalf("wrong histogram: %v", out.OverallHistogram)
	}
	want := (5.0 + 5.0 + 3.0) / 3.0
	if out.AverageSubRatings.Overall != want {
		t.Fatalf("average overall %.2f, want %.2f", out.AverageSubRatings.Overall, want)
	}
}

func TestFeedbackAnalyticsEmpty(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	out := svc.FeedbackAnalytics(nil)
	if out.Total != 0 || out.Sentiment != (Sentiment{}) {
		t.Fatalf("unexpected result for empty feedback: %+v", out)
	}
}

func TestSpeakerAnalyticsOrderedByReach(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)
	speakers := []models.Speaker{
		{ID: uuid.New(), Name: "Small", TotalAttendees: 50, Rating: 4},
		{ID: uuid.New(), Name: "Big", TotalAttendees: 500, Rating: 4.5},
	}

	out := svc.SpeakerAnalytics(speakers)
	if out.Reach.Labels[0] != "Big" {
		t.Fatalf("expected Big first, got %s", out.Reach.Labels[0])
	}
	if len(out.TopSpeakers) != 2 {
		t.Fatalf("top speakers %v", out.TopSpeakers)
	}
}

func TestInsightsPrioritized(t *testing.T) {
	svc := NewAggregateService(time.Second, nil)

	low := testSession("low fill", 100, 20, 30, 3.0, models.StatusActive)
	snap := models.Snapshot{
		Sessions: []models.Session{low},
		Metrics: models.Metrics{
			ActiveSessions:    1,
			AverageEngagement: 30,
			CompletedSessions: 2,
			TotalFeedback:     1,
		},
	}

	insights := svc.Insights(snap)
	if len(insights) < 3 {
		t.Fatalf("expected at least 3 insights, got %d", len(insights))
	}
	if insights[0].Priority != PriorityHigh {
		t.Fatalf("first insight priority %s, want high", insights[0].Priority)
	}
	rank := map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}
	for i := 1; i < len(insights); i++ {
		if rank[insights[i].Priority] < rank[insights[i-1].Priority] {
			t.Fatalf("insights not ordered by priority: %v then %v", insights[i-1].Priority, insights[i].Priority)
		}
	}
}

func TestAggregateCaches(t *testing.T) {
	svc := NewAggregateService(time.Minute, nil)
	sessions := []models.Session{testSession("a", 100, 80, 70, 4.0, models.StatusActive)}

	svc.SessionAnalytics(sessions)
	svc.SessionAnalytics(sessions)
	if svc.ComputeCount() != 1 {
		t.Fatalf("expected 1 computation, got %d", svc.ComputeCount())
	}
}
