// Package contexto implements the Contexto word-guessing round as pure
// state-transition logic. Nothing here touches the store or the network;
// callers feed in a State and get a new one back.
package contexto

import (
	"strings"
	"time"
)

// maxRecentGuesses bounds the guess history kept in room state. Older
// entries are discarded first.
const maxRecentGuesses = 30

const guessPrefix = "!guess "

// State is one round of Contexto. EndedAt is set exactly once, the moment
// a winning guess is accepted; after that the round is frozen.
type State struct {
	SecretWord    string         `json:"secretWord"`
	IsActive      bool           `json:"isActive"`
	StartedAt     time.Time      `json:"startedAtUtc"`
	EndedAt       *time.Time     `json:"endedAtUtc"`
	RecentGuesses []Guess        `json:"recentGuesses"`
	ScoresByUser  map[string]int `json:"scoresByUserId"`
}

// Guess is immutable once created and prepended to RecentGuesses.
type Guess struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Guess       string    `json:"guess"`
	RankOrScore int       `json:"rankOrScore"`
	IsWinner    bool      `json:"isWinner"`
	Ts          time.Time `json:"tsUtc"`
}

// PublicState is the projection of a round that is safe to broadcast to
// room subscribers. It never carries the secret word.
type PublicState struct {
	IsActive      bool           `json:"isActive"`
	StartedAt     time.Time      `json:"startedAtUtc"`
	EndedAt       *time.Time     `json:"endedAtUtc"`
	RecentGuesses []Guess        `json:"recentGuesses"`
	ScoresByUser  map[string]int `json:"scoresByUserId"`
}

// Public strips the secret word from the round state.
func (s *State) Public() PublicState {
	return PublicState{
		IsActive:      s.IsActive,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		RecentGuesses: s.RecentGuesses,
		ScoresByUser:  s.ScoresByUser,
	}
}

// NewRound starts a fresh round around the given secret word.
func NewRound(secretWord string) *State {
	return &State{
		SecretWord:    strings.TrimSpace(secretWord),
		IsActive:      true,
		StartedAt:     time.Now().UTC(),
		RecentGuesses: []Guess{},
		ScoresByUser:  map[string]int{},
	}
}

// TryExtractGuess parses a chat message into a guess. A "!guess word"
// prefix always wins; otherwise any single whitespace-free token that is
// not a command (no leading '!') counts as a bare-word guess. Everything
// else is ignored to keep chatter out of the round.
func TryExtractGuess(message string) (string, bool) {
	m := strings.TrimSpace(message)
	if m == "" {
		return "", false
	}

	if len(m) >= len(guessPrefix) && strings.EqualFold(m[:len(guessPrefix)], guessPrefix) {
		g := strings.TrimSpace(m[len(guessPrefix):])
		return g, g != ""
	}

	if !strings.ContainsAny(m, " \t") && !strings.HasPrefix(m, "!") {
		return m, true
	}

	return "", false
}

// ApplyGuess scores a guess against the current round and returns the next
// state. The input state is never mutated. changed reports whether anything
// happened; ended reports that this guess closed the round.
//
// Scoring is binary for now: an exact case-insensitive match wins the round
// and earns one point, everything else records a zero-score guess. The
// comparison step is the single place a similarity-based scorer would slot
// in later.
func ApplyGuess(s *State, userID, username, guess string) (next *State, changed, ended bool) {
	if s == nil || !s.IsActive {
		return s, false, false
	}

	g := strings.TrimSpace(guess)
	if g == "" {
		return s, false, false
	}

	isWinner := strings.EqualFold(g, s.SecretWord)

	scores := make(map[string]int, len(s.ScoresByUser)+1)
	for k, v := range s.ScoresByUser {
		scores[k] = v
	}
	if isWinner {
		scores[userID]++
	}

	now := time.Now().UTC()
	entry := Guess{
		UserID:   userID,
		Username: username,
		Guess:    g,
		IsWinner: isWinner,
		Ts:       now,
	}
	if isWinner {
		entry.RankOrScore = 1
	}

	guesses := make([]Guess, 0, len(s.RecentGuesses)+1)
	guesses = append(guesses, entry)
	guesses = append(guesses, s.RecentGuesses...)
	if len(guesses) > maxRecentGuesses {
		guesses = guesses[:maxRecentGuesses]
	}

	out := &State{
		SecretWord:    s.SecretWord,
		IsActive:      s.IsActive,
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		RecentGuesses: guesses,
		ScoresByUser:  scores,
	}
	if isWinner {
		out.IsActive = false
		out.EndedAt = &now
	}

	return out, true, isWinner
}
