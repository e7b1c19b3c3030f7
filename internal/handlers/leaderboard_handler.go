package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"examprep-service/internal/service"
)

type LeaderboardHandler struct {
	Service *service.LeaderboardService
}

func NewLeaderboardHandler(s *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{Service: s}
}

// Standings returns the full aggregated leaderboard, optionally filtered by
// category and timeframe (week/month).
func (h *LeaderboardHandler) Standings(c *gin.Context) {
	entries, err := h.Service.Standings(c.Request.Context(), c.Query("category"), c.Query("timeframe"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// Top returns the cached top-N cumulative scores.
func (h *LeaderboardHandler) Top(c *gin.Context) {
	n, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.Service.Top(c.Request.Context(), c.Query("category"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"top": entries})
}
