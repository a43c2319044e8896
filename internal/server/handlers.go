package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/tutor"
)

// learnerFields identify the learner a generation is adapted to: either a
// stored learner by id or the profile fields sent inline. Without an
// explicit hasQuizData, any nonzero score counts as quiz history.
type learnerFields struct {
	LearnerID string `json:"learnerId"`
	capability.Snapshot
	HasQuizData *bool `json:"hasQuizData"`
}

func (s *Server) snapshot(ctx context.Context, f learnerFields) (capability.Snapshot, error) {
	if f.LearnerID != "" {
		return s.tutor.Snapshot(ctx, f.LearnerID)
	}
	snap := f.Snapshot
	if f.HasQuizData != nil {
		snap.HasQuizData = *f.HasQuizData
	} else {
		snap.HasQuizData = snap.HasScores()
	}
	return snap, nil
}

type roadmapRequest struct {
	Topic string `json:"topic"`
	learnerFields
}

func (s *Server) handleRoadmap(c *gin.Context) {
	var req roadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	snap, err := s.snapshot(ctx, req.learnerFields)
	if err != nil {
		s.fail(c, err)
		return
	}
	rm, err := s.tutor.GetRoadmap(ctx, req.Topic, snap)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, rm)
}

type contentRequest struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	learnerFields
}

func (s *Server) handleContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	snap, err := s.snapshot(ctx, req.learnerFields)
	if err != nil {
		s.fail(c, err)
		return
	}
	blocks, err := s.tutor.GetContent(ctx, req.Topic, req.Subtopic, snap)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, blocks)
}

type quizRequest struct {
	Topic     string `json:"topic"`
	Subtopic  string `json:"subtopic"`
	LearnerID string `json:"learnerId"`
}

func (s *Server) handleQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	qs, err := s.tutor.GetQuiz(c.Request.Context(), req.Topic, req.Subtopic, req.LearnerID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, qs)
}

type feedbackRequest struct {
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	Text     string `json:"text"`
}

func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	ans, err := s.tutor.Clarify(c.Request.Context(), req.Topic, req.Subtopic, req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ans)
}

// capabilityRequest is one completed quiz. questionCount is optional; the
// average time and confidence fill it in and are checked against the
// totals.
type capabilityRequest struct {
	LearnerID string `json:"learnerId"`
	capability.Telemetry
	AvgTimeQuestions float64 `json:"avgTimeQuestions"`
	ConfidenceScore  float64 `json:"confidenceScore"`
}

func (s *Server) handleCapability(c *gin.Context) {
	var req capabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	tel, err := capability.ReconcileAggregates(req.Telemetry, req.AvgTimeQuestions, req.ConfidenceScore)
	if err != nil {
		s.fail(c, err)
		return
	}
	p, err := s.tutor.SubmitQuiz(c.Request.Context(), req.LearnerID, tel)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondProfile(c, p)
}

type topicsRequest struct {
	LearnerID    string   `json:"learnerId"`
	WeakTopics   []string `json:"weakTopics"`
	StrongTopics []string `json:"strongTopics"`
}

func (s *Server) handleTopics(c *gin.Context) {
	var req topicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	p, err := s.tutor.UpdateTopics(c.Request.Context(), req.LearnerID, req.WeakTopics, req.StrongTopics)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondProfile(c, p)
}

func (s *Server) handleCreateLearner(c *gin.Context) {
	var req capability.NewLearner
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	p, err := s.tutor.CreateLearner(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, p)
}

func (s *Server) handleGetLearner(c *gin.Context) {
	p, err := s.tutor.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

func (s *Server) handleListLearners(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.abort(c, tutor.KindInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	ps, err := s.tutor.ListLearners(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	if ps == nil {
		ps = []capability.Profile{}
	}
	respond(c, http.StatusOK, ps)
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
