package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Leaderboard accumulates cross-round scores per user in a per-room
// sorted set, separate from the per-round ScoresByUser. It only moves
// when a round transitions from active to ended.
type Leaderboard struct {
	rdb *redis.Client
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb}
}

type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Score  int64  `json:"score"`
}

// AddScores folds one finished round's per-user points into the running
// totals. Zero deltas are skipped.
func (l *Leaderboard) AddScores(ctx context.Context, roomID uuid.UUID, deltas map[string]int) error {
	for userID, points := range deltas {
		if points == 0 {
			continue
		}
		err := l.rdb.ZIncrBy(ctx, leaderboardKey(roomID), float64(points), userID).Err()
		if err != nil {
			return fmt.Errorf("adding %d points for %s: %w", points, userID, err)
		}
	}
	return nil
}

// Top returns the n highest cumulative scorers, best first.
func (l *Leaderboard) Top(ctx context.Context, roomID uuid.UUID, n int64) ([]LeaderboardEntry, error) {
	zs, err := l.rdb.ZRevRangeWithScores(ctx, leaderboardKey(roomID), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard for %s: %w", roomID, err)
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		userID, _ := z.Member.(string)
		entries = append(entries, LeaderboardEntry{UserID: userID, Score: int64(z.Score)})
	}
	return entries, nil
}
