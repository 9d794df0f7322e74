package room

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	statsFieldGames        = "gamesPlayed"
	statsFieldGuesses      = "guessesTotal"
	statsFieldLastActivity = "lastActivityUtc"
)

// StatsStore keeps per-room activity counters in a hash. Counters only
// ever go up, except on explicit reset.
type StatsStore struct {
	rdb *redis.Client
}

func NewStatsStore(rdb *redis.Client) *StatsStore {
	return &StatsStore{rdb: rdb}
}

func (s *StatsStore) IncrGamesPlayed(ctx context.Context, roomID uuid.UUID) error {
	if err := s.rdb.HIncrBy(ctx, statsKey(roomID), statsFieldGames, 1).Err(); err != nil {
		return fmt.Errorf("counting game for %s: %w", roomID, err)
	}
	return nil
}

func (s *StatsStore) IncrGuesses(ctx context.Context, roomID uuid.UUID, n int64) error {
	if n == 0 {
		return nil
	}
	if err := s.rdb.HIncrBy(ctx, statsKey(roomID), statsFieldGuesses, n).Err(); err != nil {
		return fmt.Errorf("counting guesses for %s: %w", roomID, err)
	}
	return nil
}

func (s *StatsStore) Touch(ctx context.Context, roomID uuid.UUID, at time.Time) error {
	err := s.rdb.HSet(ctx, statsKey(roomID), statsFieldLastActivity,
		strconv.FormatInt(at.UTC().Unix(), 10)).Err()
	if err != nil {
		return fmt.Errorf("touching stats for %s: %w", roomID, err)
	}
	return nil
}

// Get reads the counters; a room with no recorded activity yields zeros.
func (s *StatsStore) Get(ctx context.Context, roomID uuid.UUID) (Stats, error) {
	vals, err := s.rdb.HGetAll(ctx, statsKey(roomID)).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("reading stats for %s: %w", roomID, err)
	}

	stats := Stats{RoomID: roomID}
	stats.GamesPlayed, _ = strconv.ParseInt(vals[statsFieldGames], 10, 64)
	stats.GuessesTotal, _ = strconv.ParseInt(vals[statsFieldGuesses], 10, 64)
	if raw, ok := vals[statsFieldLastActivity]; ok {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t := time.Unix(unix, 0).UTC()
			stats.LastActivity = &t
		}
	}
	return stats, nil
}

func (s *StatsStore) Reset(ctx context.Context, roomID uuid.UUID) error {
	if err := s.rdb.Del(ctx, statsKey(roomID)).Err(); err != nil {
		return fmt.Errorf("resetting stats for %s: %w", roomID, err)
	}
	return nil
}
