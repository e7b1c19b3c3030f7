package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"examprep-service/internal/service"
)

type ResultHandler struct {
	Service *service.ResultService
}

func NewResultHandler(s *service.ResultService) *ResultHandler {
	return &ResultHandler{Service: s}
}

func (h *ResultHandler) GetResultBySession(c *gin.Context) {
	result, err := h.Service.GetBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ResultHandler) GetResultsByUser(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	results, err := h.Service.GetByUser(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Dashboard returns the calling user's quiz totals.
func (h *ResultHandler) Dashboard(c *gin.Context) {
	stats, err := h.Service.Dashboard(c.Request.Context(), c.GetHeader("X-User-ID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecentActivity returns the user's latest completed quizzes.
func (h *ResultHandler) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = 10
	}
	activity, err := h.Service.RecentActivity(c.Request.Context(), c.GetHeader("X-User-ID"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_activity": activity})
}
