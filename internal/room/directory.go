package room

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	codeMinLen = 4
	codeMaxLen = 12

	// Attempt budget for auto-generated codes. 8-digit codes give a
	// 100M space, so collisions exhausting this are a store problem,
	// not bad luck.
	generateAttempts = 25
)

// Directory owns room identity: it is the only component that touches the
// code -> room id mapping. Reservation is a single atomic SETNX so two
// concurrent creations with the same code cannot both succeed.
type Directory struct {
	rdb *redis.Client
}

func NewDirectory(rdb *redis.Client) *Directory {
	return &Directory{rdb: rdb}
}

// NormalizeCode uppercases and trims a caller-supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validCode(code string) bool {
	if len(code) < codeMinLen || len(code) > codeMaxLen {
		return false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Reserve claims a custom code for roomID. The code must already be
// normalized by the caller or it is normalized here; invalid codes fail
// with ErrInvalidCode, taken codes with ErrCodeInUse.
func (d *Directory) Reserve(ctx context.Context, code string, roomID uuid.UUID) (string, error) {
	code = NormalizeCode(code)
	if !validCode(code) {
		return "", ErrInvalidCode
	}

	ok, err := d.rdb.SetNX(ctx, codeKey(code), roomID.String(), 0).Result()
	if err != nil {
		return "", fmt.Errorf("reserving code %q: %w", code, err)
	}
	if !ok {
		return "", ErrCodeInUse
	}
	return code, nil
}

// ReserveGenerated allocates a random 8-digit code, retrying on collision
// up to the attempt budget.
func (d *Directory) ReserveGenerated(ctx context.Context, roomID uuid.UUID) (string, error) {
	for i := 0; i < generateAttempts; i++ {
		code := fmt.Sprintf("%08d", rand.IntN(100_000_000))

		ok, err := d.rdb.SetNX(ctx, codeKey(code), roomID.String(), 0).Result()
		if err != nil {
			return "", fmt.Errorf("reserving generated code: %w", err)
		}
		if ok {
			return code, nil
		}
	}
	return "", ErrCodeAllocation
}

// Resolve turns a room reference (UUID or join code) into a room id. A
// parseable UUID is returned as-is; existence is checked at load time,
// not here. Codes are looked up in the store.
func (d *Directory) Resolve(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	val, err := d.rdb.Get(ctx, codeKey(NormalizeCode(ref))).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving code %q: %w", ref, err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt code mapping %q: %w", ref, err)
	}
	return id, nil
}

// Release drops a code mapping. Deleting an absent key is not an error,
// so compensation after a failed room save can always call this.
func (d *Directory) Release(ctx context.Context, code string) error {
	code = NormalizeCode(code)
	if code == "" {
		return nil
	}
	if err := d.rdb.Del(ctx, codeKey(code)).Err(); err != nil {
		return fmt.Errorf("releasing code %q: %w", code, err)
	}
	return nil
}
