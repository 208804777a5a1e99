// Package dashboard exposes the simulator's read interfaces and the analytics
// services over HTTP for the browser dashboard.
package dashboard

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/confpulse/backend/internal/analytics"
	"github.com/confpulse/backend/internal/simulation"
	"github.com/confpulse/backend/pkg/response"
)

// Handler serves snapshot reads, analytics and simulation control.
type Handler struct {
	sim       *simulation.Simulator
	sessions  *analytics.SessionService
	aggregate *analytics.AggregateService
	logger    *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(sim *simulation.Simulator, sessions *analytics.SessionService, aggregate *analytics.AggregateService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sim: sim, sessions: sessions, aggregate: aggregate, logger: logger}
}

// Snapshot handles GET /snapshot.
func (h *Handler) Snapshot(c *gin.Context) { response.OK(c, h.sim.Data()) }

// Metrics handles GET /metrics.
func (h *Handler) Metrics(c *gin.Context) { response.OK(c, h.sim.Metrics()) }

// Sessions handles GET /sessions.
func (h *Handler) Sessions(c *gin.Context) { response.OK(c, h.sim.Sessions()) }

// Speakers handles GET /speakers.
func (h *Handler) Speakers(c *gin.Context) { response.OK(c, h.sim.Speakers()) }

// Attendees handles GET /attendees.
func (h *Handler) Attendees(c *gin.Context) { response.OK(c, h.sim.Attendees()) }

// Feedback handles GET /feedback.
func (h *Handler) Feedback(c *gin.Context) { response.OK(c, h.sim.Feedback()) }

// SessionStats handles GET /analytics/sessions/stats.
func (h *Handler) SessionStats(c *gin.Context) {
	response.OK(c, h.sessions.Stats(h.sim.Sessions()))
}

// TopSessions handles GET /analytics/sessions/top?metric=&limit=.
func (h *Handler) TopSessions(c *gin.Context) {
	metric := c.DefaultQuery("metric", analytics.MetricAttendance)
	switch metric {
	case analytics.MetricAttendance, analytics.MetricEngagement, analytics.MetricCapacity, analytics.MetricRating:
	default:
		response.BadRequest(c, "unknown metric: "+metric)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		response.BadRequest(c, "invalid limit")
		return
	}
	response.OK(c, h.sessions.TopSessions(h.sim.Sessions(), metric, limit))
}

// AttendanceTrends handles GET /analytics/sessions/trends.
func (h *Handler) AttendanceTrends(c *gin.Context) {
	response.OK(c, h.sessions.AttendanceTrends(h.sim.Sessions()))
}

// ByCategory handles GET /analytics/sessions/categories?category=.
func (h *Handler) ByCategory(c *gin.Context) {
	category := c.DefaultQuery("category", analytics.CategoryTrack)
	switch category {
	case analytics.CategoryTrack, analytics.CategoryRoom, analytics.CategoryStatus:
	default:
		response.BadRequest(c, "unknown category: "+category)
		return
	}
	response.OK(c, h.sessions.ByCategory(h.sim.Sessions(), category))
}

// NeedingAttention handles GET /analytics/sessions/attention.
func (h *Handler) NeedingAttention(c *gin.Context) {
	response.OK(c, h.sessions.NeedingAttention(h.sim.Sessions()))
}

// Summary handles GET /analytics/summary.
func (h *Handler) Summary(c *gin.Context) {
	snap := h.sim.Data()
	response.OK(c, h.sessions.Summary(snap.Sessions, snap.Speakers, snap.Attendees))
}

// SessionCharts handles GET /analytics/charts/sessions.
func (h *Handler) SessionCharts(c *gin.Context) {
	response.OK(c, h.aggregate.SessionAnalytics(h.sim.Sessions()))
}

// SpeakerCharts handles GET /analytics/charts/speakers.
func (h *Handler) SpeakerCharts(c *gin.Context) {
	response.OK(c, h.aggregate.SpeakerAnalytics(h.sim.Speakers()))
}

// FeedbackCharts handles GET /analytics/charts/feedback.
func (h *Handler) FeedbackCharts(c *gin.Context) {
	response.OK(c, h.aggregate.FeedbackAnalytics(h.sim.Feedback()))
}

// Sentiment handles GET /analytics/sentiment.
func (h *Handler) Sentiment(c *gin.Context) {
	response.OK(c, h.aggregate.Sentiment(h.sim.Feedback()))
}

// ROI handles GET /analytics/roi.
func (h *Handler) ROI(c *gin.Context) {
	response.OK(c, gin.H{"score": h.aggregate.ROI(h.sim.Sessions(), h.sim.Feedback())})
}

// Insights handles GET /analytics/insights.
func (h *Handler) Insights(c *gin.Context) {
	response.OK(c, h.aggregate.Insights(h.sim.Data()))
}

// PredictAttendance handles GET /analytics/sessions/:id/prediction.
func (h *Handler) PredictAttendance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	sessions := h.sim.Sessions()
	for i := range sessions {
		if sessions[i].ID == id {
			response.OK(c, h.aggregate.PredictAttendance(sessions[i], sessions))
			return
		}
	}
	response.NotFound(c, "session not found")
}

// StartRequest is the body for POST /simulation/start.
type StartRequest struct {
	IntervalMs int `json:"interval_ms"`
}

// Start handles POST /simulation/start (organizer only).
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	_ = c.ShouldBindJSON(&req) // empty body means default interval
	h.sim.Start(time.Duration(req.IntervalMs) * time.Millisecond)
	response.Accepted(c, gin.H{"running": h.sim.Running()})
}

// Stop handles POST /simulation/stop (organizer only).
func (h *Handler) Stop(c *gin.Context) {
	h.sim.Stop()
	response.Accepted(c, gin.H{"running": h.sim.Running()})
}

// Reset handles POST /simulation/reset (organizer only). Caches are cleared
// since the entire underlying dataset changed.
func (h *Handler) Reset(c *gin.Context) {
	h.sim.Reset()
	h.sessions.ClearCache()
	h.aggregate.ClearCache()
	response.Accepted(c, gin.H{"running": h.sim.Running()})
}
