package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"examprep-service/internal/models"
)

type memLeaderboardSource struct {
	entries []models.LeaderboardEntry
	since   time.Time
}

func (m *memLeaderboardSource) AggregateLeaderboard(ctx context.Context, categoryID string, since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	m.since = since
	return m.entries, nil
}

func newTestLeaderboard(t *testing.T, source LeaderboardSource) (*LeaderboardService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLeaderboardService(rdb, source), mr
}

func TestLeaderboardRecordAndTop(t *testing.T) {
	svc, _ := newTestLeaderboard(t, nil)
	ctx := context.Background()

	if err := svc.Record(ctx, "cat1", "alice", 7); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(ctx, "cat1", "bob", 12); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(ctx, "cat1", "alice", 3); err != nil {
		t.Fatalf("Record: %v", err)
	}

	top, err := svc.Top(ctx, "cat1", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []TopEntry{{UserID: "bob", Score: 12}, {UserID: "alice", Score: 10}}
	if len(top) != len(want) {
		t.Fatalf("top = %v, want %v", top, want)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %v, want %v", i, top[i], want[i])
		}
	}
}

func TestLeaderboardRecordUpdatesGlobalBoard(t *testing.T) {
	svc, _ := newTestLeaderboard(t, nil)
	ctx := context.Background()

	if err := svc.Record(ctx, "cat1", "alice", 5); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(ctx, "cat2", "alice", 4); err != nil {
		t.Fatalf("Record: %v", err)
	}

	top, err := svc.Top(ctx, "", 10)
	if err != nil {
		t.Fatalf("Top global: %v", err)
	}
	if len(top) != 1 || top[0].Score != 9 {
		t.Errorf("global top = %v, want alice with 9", top)
	}
}

func TestLeaderboardTopLimit(t *testing.T) {
	svc, _ := newTestLeaderboard(t, nil)
	ctx := context.Background()

	users := []string{"a", "b", "c", "d"}
	for i, u := range users {
		if err := svc.Record(ctx, "cat1", u, i+1); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	top, err := svc.Top(ctx, "cat1", 2)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top length = %d, want 2", len(top))
	}
	if top[0].UserID != "d" || top[1].UserID != "c" {
		t.Errorf("top = %v, want d then c", top)
	}
}

func TestLeaderboardTopRebuildsEmptyBoard(t *testing.T) {
	source := &memLeaderboardSource{entries: []models.LeaderboardEntry{
		{UserID: "alice", TotalScore: 40},
		{UserID: "bob", TotalScore: 25},
	}}
	svc, mr := newTestLeaderboard(t, source)
	ctx := context.Background()

	top, err := svc.Top(ctx, "cat1", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "alice" || top[0].Score != 40 {
		t.Errorf("rebuilt top = %v", top)
	}
	if !mr.Exists("leaderboard:cat1") {
		t.Error("rebuild did not populate the cache key")
	}
}

func TestLeaderboardStandingsTimeframe(t *testing.T) {
	source := &memLeaderboardSource{entries: []models.LeaderboardEntry{
		{UserID: "alice", TotalScore: 40, TotalQuizzes: 4},
	}}
	svc, _ := newTestLeaderboard(t, source)
	ctx := context.Background()

	entries, err := svc.Standings(ctx, "cat1", "week")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	if source.since.IsZero() {
		t.Error("week timeframe should pass a lower bound")
	}

	if _, err := svc.Standings(ctx, "cat1", "all"); err != nil {
		t.Fatalf("Standings all-time: %v", err)
	}
	if !source.since.IsZero() {
		t.Error("all-time standings should not bound the aggregation")
	}
}

func TestLeaderboardRecordWithoutRedis(t *testing.T) {
	svc := NewLeaderboardService(nil, nil)
	if err := svc.Record(context.Background(), "cat1", "alice", 5); err != nil {
		t.Fatalf("Record without redis: %v", err)
	}
}
