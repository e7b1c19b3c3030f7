package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"examprep-service/internal/service"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// StartSession creates a new adaptive quiz session.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req struct {
		CategoryID string `json:"category_id" binding:"required"`
		SubjectID  string `json:"subject_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	session, err := h.Service.StartSession(c.Request.Context(), c.GetHeader("X-User-ID"), req.CategoryID, req.SubjectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":   session,
		"next_step": "Call /next to get the first question",
	})
}

// NextQuestion serves the next question, a level-up signal or the completed
// session.
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	outcome, err := h.Service.NextQuestion(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}

	switch {
	case outcome.LevelUp:
		c.JSON(http.StatusOK, gin.H{
			"level_up":  true,
			"new_level": outcome.Tier,
			"message":   outcome.Message,
		})
	case outcome.Completed:
		c.JSON(http.StatusOK, gin.H{
			"quiz_completed": true,
			"session":        outcome.Session,
			"result":         outcome.Result,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"question":      outcome.Question,
			"current_level": outcome.Tier,
		})
	}
}

// SubmitAnswer records one answer and reveals its correctness.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		QuestionID       string `json:"question_id" binding:"required"`
		UserAnswer       string `json:"user_answer" binding:"required"`
		TimeSpentSeconds int    `json:"time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer format", "details": err.Error()})
		return
	}

	feedback, err := h.Service.SubmitAnswer(
		c.Request.Context(),
		c.Param("id"),
		c.GetHeader("X-User-ID"),
		req.QuestionID,
		req.UserAnswer,
		req.TimeSpentSeconds,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// SampleQuestions returns the fixed-size random question set for batch mode.
func (h *SessionHandler) SampleQuestions(c *gin.Context) {
	questions, err := h.Service.SampleQuestions(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitBatch scores a complete answer sheet in one call.
func (h *SessionHandler) SubmitBatch(c *gin.Context) {
	var req struct {
		Answers         map[string]string `json:"answers" binding:"required"`
		TimeLeftSeconds int               `json:"time_left_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission format", "details": err.Error()})
		return
	}

	result, err := h.Service.SubmitBatch(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-ID"), req.Answers, req.TimeLeftSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":           result.Score,
		"total_questions": result.TotalQuestions,
		"accuracy":        result.Accuracy,
		"result":          result,
	})
}

// ActiveSessions lists the caller's unfinished sessions for resume.
func (h *SessionHandler) ActiveSessions(c *gin.Context) {
	sessions, err := h.Service.ActiveSessions(c.Request.Context(), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// Complete finalizes a session whose client-side clock ran out.
func (h *SessionHandler) Complete(c *gin.Context) {
	result, err := h.Service.Complete(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quiz_completed": true, "result": result})
}

// GetSession returns the session joined with served question texts for the
// results/review screen.
func (h *SessionHandler) GetSession(c *gin.Context) {
	review, err := h.Service.GetSession(c.Request.Context(), c.Param("id"), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
