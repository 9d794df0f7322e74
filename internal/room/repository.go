package room

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cleanupCeiling bounds a single retention sweep no matter what the
// caller asked for.
const cleanupCeiling = 2000

// Repository persists Room and RoomState records. Saves replace the whole
// record: concurrent writers race and the last writer wins in full, which
// is the accepted tradeoff for the MVP scoring model.
type Repository struct {
	rdb *redis.Client
	dir *Directory
}

func NewRepository(rdb *redis.Client, dir *Directory) *Repository {
	return &Repository{rdb: rdb, dir: dir}
}

// SaveRoom writes the room record and indexes it by creation time so
// retention sweeps can range-query by age.
func (r *Repository) SaveRoom(ctx context.Context, room Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encoding room: %w", err)
	}
	if err := r.rdb.Set(ctx, roomKey(room.RoomID), data, 0).Err(); err != nil {
		return fmt.Errorf("saving room %s: %w", room.RoomID, err)
	}
	err = r.rdb.ZAdd(ctx, roomsIndexKey, redis.Z{
		Score:  float64(room.CreatedAt.Unix()),
		Member: room.RoomID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("indexing room %s: %w", room.RoomID, err)
	}
	return nil
}

// GetRoom loads a room record; a missing room is ErrNotFound, not a store
// failure.
func (r *Repository) GetRoom(ctx context.Context, id uuid.UUID) (Room, error) {
	data, err := r.rdb.Get(ctx, roomKey(id)).Bytes()
	if err == redis.Nil {
		return Room{}, ErrNotFound
	}
	if err != nil {
		return Room{}, fmt.Errorf("loading room %s: %w", id, err)
	}

	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return Room{}, fmt.Errorf("decoding room %s: %w", id, err)
	}
	return room, nil
}

// ListRooms returns every live room, oldest first. Index entries whose
// room record has already been deleted are skipped.
func (r *Repository) ListRooms(ctx context.Context) ([]Room, error) {
	ids, err := r.rdb.ZRange(ctx, roomsIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("scanning room index: %w", err)
	}
	return r.loadRooms(ctx, ids)
}

// ListRoomsOlderThan returns up to max rooms created strictly before
// cutoff, oldest first.
func (r *Repository) ListRoomsOlderThan(ctx context.Context, cutoff time.Time, max int) ([]Room, error) {
	if max < 1 {
		max = 1
	}
	ids, err := r.rdb.ZRangeByScore(ctx, roomsIndexKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   "(" + strconv.FormatInt(cutoff.Unix(), 10),
		Count: int64(max),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("scanning room index by age: %w", err)
	}
	return r.loadRooms(ctx, ids)
}

func (r *Repository) loadRooms(ctx context.Context, ids []string) ([]Room, error) {
	rooms := make([]Room, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		room, err := r.GetRoom(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// GetState loads the canonical RoomState; missing state is ErrNotFound.
func (r *Repository) GetState(ctx context.Context, id uuid.UUID) (RoomState, error) {
	data, err := r.rdb.Get(ctx, stateKey(id)).Bytes()
	if err == redis.Nil {
		return RoomState{}, ErrNotFound
	}
	if err != nil {
		return RoomState{}, fmt.Errorf("loading state %s: %w", id, err)
	}

	var state RoomState
	if err := json.Unmarshal(data, &state); err != nil {
		return RoomState{}, fmt.Errorf("decoding state %s: %w", id, err)
	}
	return state, nil
}

// SaveState replaces the whole state record (last writer wins).
func (r *Repository) SaveState(ctx context.Context, state RoomState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := r.rdb.Set(ctx, stateKey(state.RoomID), data, 0).Err(); err != nil {
		return fmt.Errorf("saving state %s: %w", state.RoomID, err)
	}
	return nil
}

// DeleteRoom removes a room and everything keyed to it, releasing the
// code reservation found on the stored room record — never one supplied
// by the caller. Reports whether a room record actually existed.
func (r *Repository) DeleteRoom(ctx context.Context, id uuid.UUID) (bool, error) {
	room, err := r.GetRoom(ctx, id)
	existed := err == nil
	if err != nil && err != ErrNotFound {
		return false, err
	}

	if err := r.rdb.ZRem(ctx, roomsIndexKey, id.String()).Err(); err != nil {
		return false, fmt.Errorf("unindexing room %s: %w", id, err)
	}
	err = r.rdb.Del(ctx, roomKey(id), stateKey(id), statsKey(id), leaderboardKey(id)).Err()
	if err != nil {
		return false, fmt.Errorf("deleting room %s: %w", id, err)
	}

	if existed && room.RoomCode != "" {
		if err := r.dir.Release(ctx, room.RoomCode); err != nil {
			return false, err
		}
	}
	return existed, nil
}

// DeleteRoomsOlderThan sweeps rooms created before cutoff, at most
// min(max, 2000) of them. On a store failure mid-sweep it returns the
// count deleted so far along with the error, so progress is never lost.
func (r *Repository) DeleteRoomsOlderThan(ctx context.Context, cutoff time.Time, max int) (int, error) {
	if max < 1 {
		max = 1
	}
	if max > cleanupCeiling {
		max = cleanupCeiling
	}

	victims, err := r.ListRoomsOlderThan(ctx, cutoff, max)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, room := range victims {
		removed, err := r.DeleteRoom(ctx, room.RoomID)
		if err != nil {
			return deleted, err
		}
		if removed {
			deleted++
		}
	}
	return deleted, nil
}
