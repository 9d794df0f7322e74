// Package room owns room identity, room state persistence, and the
// per-room leaderboard and stats, all backed by a shared Redis store.
// Concurrency correctness comes from the store's atomic primitives, not
// in-process locks: multiple server instances may share one store.
package room

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/misfitz/partygames/internal/contexto"
)

// GameType tags the active-game variant carried by RoomState.
type GameType string

const (
	GameNone     GameType = "none"
	GameContexto GameType = "contexto"
	GameDeal     GameType = "deal"
)

// Room is the immutable identity record for a session. The code is
// reserved atomically at creation and released when the room dies.
type Room struct {
	RoomID    uuid.UUID `json:"roomId"`
	RoomCode  string    `json:"roomCode"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAtUtc"`
}

// RoomState is the whole-record unit of last-writer-wins mutation: every
// change reads the full state, computes a new value, and writes it back.
// Contexto is non-nil only while ActiveGame == GameContexto.
type RoomState struct {
	RoomID     uuid.UUID
	RoomName   string
	ActiveGame GameType
	Contexto   *contexto.State
	UpdatedAt  time.Time
}

// stateWire is the stored/transported shape of RoomState: an open variant
// payload tagged by activeGame.
type stateWire struct {
	RoomID     uuid.UUID       `json:"roomId"`
	RoomName   string          `json:"roomName"`
	ActiveGame GameType        `json:"activeGame"`
	GameState  json.RawMessage `json:"gameState"`
	UpdatedAt  time.Time       `json:"updatedAtUtc"`
}

func (s RoomState) MarshalJSON() ([]byte, error) {
	w := stateWire{
		RoomID:     s.RoomID,
		RoomName:   s.RoomName,
		ActiveGame: s.ActiveGame,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.ActiveGame == GameContexto && s.Contexto != nil {
		data, err := json.Marshal(s.Contexto)
		if err != nil {
			return nil, err
		}
		w.GameState = data
	}
	return json.Marshal(w)
}

func (s *RoomState) UnmarshalJSON(data []byte) error {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	s.RoomID = w.RoomID
	s.RoomName = w.RoomName
	s.ActiveGame = w.ActiveGame
	s.UpdatedAt = w.UpdatedAt
	s.Contexto = nil

	switch w.ActiveGame {
	case GameContexto:
		if len(w.GameState) == 0 || string(w.GameState) == "null" {
			return nil
		}
		var cs contexto.State
		if err := json.Unmarshal(w.GameState, &cs); err != nil {
			return fmt.Errorf("decoding contexto state: %w", err)
		}
		s.Contexto = &cs
	case GameNone, GameDeal:
		// No state payload for these variants yet.
	default:
		return fmt.Errorf("unknown game type %q", w.ActiveGame)
	}
	return nil
}

// PublicState is the projection of RoomState safe to hand to every room
// subscriber: the active game's state is swapped for its public form, so
// the secret word never leaves the server while a round runs.
type PublicState struct {
	RoomID     uuid.UUID `json:"roomId"`
	RoomName   string    `json:"roomName"`
	ActiveGame GameType  `json:"activeGame"`
	GameState  any       `json:"gameState"`
	UpdatedAt  time.Time `json:"updatedAtUtc"`
}

func (s RoomState) Public() PublicState {
	p := PublicState{
		RoomID:     s.RoomID,
		RoomName:   s.RoomName,
		ActiveGame: s.ActiveGame,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.ActiveGame == GameContexto && s.Contexto != nil {
		p.GameState = s.Contexto.Public()
	}
	return p
}

// Stats are per-room counters maintained independently of round state.
type Stats struct {
	RoomID       uuid.UUID  `json:"roomId"`
	GamesPlayed  int64      `json:"gamesPlayed"`
	GuessesTotal int64      `json:"guessesTotal"`
	LastActivity *time.Time `json:"lastActivityUtc"`
}
