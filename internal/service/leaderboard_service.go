package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"examprep-service/internal/models"
)

// LeaderboardSource is the authoritative aggregation over completed
// sessions, used to build full standings and to rebuild the cache.
type LeaderboardSource interface {
	AggregateLeaderboard(ctx context.Context, categoryID string, since time.Time, limit int) ([]models.LeaderboardEntry, error)
}

// LeaderboardService keeps a per-category sorted set of cumulative scores in
// Redis for cheap top-N reads, and falls back to the session aggregation for
// the detailed standings view.
type LeaderboardService struct {
	rdb    *redis.Client
	source LeaderboardSource
	limit  int
}

func NewLeaderboardService(rdb *redis.Client, source LeaderboardSource) *LeaderboardService {
	return &LeaderboardService{rdb: rdb, source: source, limit: 50}
}

func leaderboardKey(categoryID string) string {
	if categoryID == "" {
		return "leaderboard:all"
	}
	return "leaderboard:" + categoryID
}

// Record adds points to the user's cumulative score, in both the category
// board and the global one.
func (s *LeaderboardService) Record(ctx context.Context, categoryID, userID string, points int) error {
	if s.rdb == nil {
		return nil
	}
	pipe := s.rdb.Pipeline()
	pipe.ZIncrBy(ctx, leaderboardKey(categoryID), float64(points), userID)
	if categoryID != "" {
		pipe.ZIncrBy(ctx, leaderboardKey(""), float64(points), userID)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// TopEntry is a redis-backed scoreboard row.
type TopEntry struct {
	UserID string `json:"user_id"`
	Score  int    `json:"score"`
}

// Top reads the highest cumulative scores for a category. An empty board is
// rebuilt from the session store before reading again.
func (s *LeaderboardService) Top(ctx context.Context, categoryID string, n int) ([]TopEntry, error) {
	if s.rdb == nil {
		return nil, fmt.Errorf("leaderboard cache not configured")
	}
	if n <= 0 || n > s.limit {
		n = s.limit
	}

	key := leaderboardKey(categoryID)
	members, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 && s.source != nil {
		if err := s.rebuild(ctx, categoryID); err != nil {
			return nil, err
		}
		members, err = s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
		if err != nil {
			return nil, err
		}
	}

	entries := make([]TopEntry, 0, len(members))
	for _, m := range members {
		userID, _ := m.Member.(string)
		entries = append(entries, TopEntry{UserID: userID, Score: int(m.Score)})
	}
	return entries, nil
}

// Standings returns the full aggregated leaderboard. timeframe is "week",
// "month" or anything else for all-time, matching the dashboard filter.
func (s *LeaderboardService) Standings(ctx context.Context, categoryID, timeframe string) ([]models.LeaderboardEntry, error) {
	if s.source == nil {
		return nil, fmt.Errorf("leaderboard source not configured")
	}
	var since time.Time
	switch timeframe {
	case "week":
		since = time.Now().AddDate(0, 0, -7)
	case "month":
		since = time.Now().AddDate(0, -1, 0)
	}
	return s.source.AggregateLeaderboard(ctx, categoryID, since, s.limit)
}

func (s *LeaderboardService) rebuild(ctx context.Context, categoryID string) error {
	entries, err := s.source.AggregateLeaderboard(ctx, categoryID, time.Time{}, s.limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, redis.Z{Score: float64(e.TotalScore), Member: e.UserID})
	}
	return s.rdb.ZAdd(ctx, leaderboardKey(categoryID), members...).Err()
}
