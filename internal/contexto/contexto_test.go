package contexto

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestTryExtractGuess(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"!guess ocean", "ocean", true},
		{"!GUESS ocean", "ocean", true},
		{"  !guess   banana  ", "banana", true},
		{"!guess ", "", false},
		{"!guess", "", false},
		{"ocean", "ocean", true},
		{"  ocean  ", "ocean", true},
		{"two words", "", false},
		{"!somecommand", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		got, ok := TryExtractGuess(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("TryExtractGuess(%q) = (%q, %v), want (%q, %v)",
				tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestApplyGuessWinner(t *testing.T) {
	s := NewRound("Ocean")

	next, changed, ended := ApplyGuess(s, "u1", "alice", "ocean")
	if !changed || !ended {
		t.Fatalf("expected changed and ended, got changed=%v ended=%v", changed, ended)
	}
	if next.IsActive {
		t.Error("round should not be active after a winning guess")
	}
	if next.EndedAt == nil {
		t.Error("endedAt should be set after a winning guess")
	}
	if next.ScoresByUser["u1"] != 1 {
		t.Errorf("winner score = %d, want 1", next.ScoresByUser["u1"])
	}
	if len(next.RecentGuesses) != 1 || !next.RecentGuesses[0].IsWinner {
		t.Errorf("expected one winning guess at the front, got %+v", next.RecentGuesses)
	}

	// Input state must be untouched.
	if !s.IsActive || s.EndedAt != nil || len(s.RecentGuesses) != 0 {
		t.Error("ApplyGuess mutated its input state")
	}
}

func TestApplyGuessNonWinner(t *testing.T) {
	s := NewRound("ocean")

	next, changed, ended := ApplyGuess(s, "u2", "bob", "banana")
	if !changed || ended {
		t.Fatalf("expected changed and not ended, got changed=%v ended=%v", changed, ended)
	}
	if !next.IsActive || next.EndedAt != nil {
		t.Error("round should remain active after a non-winning guess")
	}
	if next.RecentGuesses[0].Guess != "banana" || next.RecentGuesses[0].IsWinner {
		t.Errorf("front guess = %+v, want non-winning banana", next.RecentGuesses[0])
	}
	if _, ok := next.ScoresByUser["u2"]; ok {
		t.Error("non-winning guess should not award points")
	}
}

func TestApplyGuessNoopCases(t *testing.T) {
	if next, changed, _ := ApplyGuess(nil, "u", "n", "x"); next != nil || changed {
		t.Error("nil state should be a no-op")
	}

	s := NewRound("ocean")
	if _, changed, _ := ApplyGuess(s, "u", "n", "   "); changed {
		t.Error("blank guess should be a no-op")
	}

	ended, _, _ := ApplyGuess(s, "u1", "alice", "ocean")
	if _, changed, _ := ApplyGuess(ended, "u2", "bob", "ocean"); changed {
		t.Error("ended round should ignore further guesses")
	}
}

func TestEndedRoundIsFrozen(t *testing.T) {
	s := NewRound("ocean")
	won, _, _ := ApplyGuess(s, "u1", "alice", "ocean")
	endedAt := *won.EndedAt

	for i := 0; i < 5; i++ {
		next, changed, ended := ApplyGuess(won, "u2", "bob", "ocean")
		if changed || ended {
			t.Fatal("guesses after round end must not change anything")
		}
		if next != won {
			t.Fatal("ended round should be returned unchanged")
		}
	}

	if *won.EndedAt != endedAt || won.ScoresByUser["u1"] != 1 || len(won.RecentGuesses) != 1 {
		t.Error("ended round state drifted")
	}
}

func TestRecentGuessCap(t *testing.T) {
	s := NewRound("ocean")

	for i := 0; i < 40; i++ {
		s, _, _ = ApplyGuess(s, "u1", "alice", fmt.Sprintf("wrong%d", i))
	}

	if len(s.RecentGuesses) != 30 {
		t.Fatalf("guess history = %d entries, want 30", len(s.RecentGuesses))
	}
	// Newest first, oldest dropped.
	if s.RecentGuesses[0].Guess != "wrong39" {
		t.Errorf("front = %q, want wrong39", s.RecentGuesses[0].Guess)
	}
	if s.RecentGuesses[29].Guess != "wrong10" {
		t.Errorf("back = %q, want wrong10", s.RecentGuesses[29].Guess)
	}
}

func TestPublicProjectionHidesSecret(t *testing.T) {
	s := NewRound("supersecret")
	s, _, _ = ApplyGuess(s, "u1", "alice", "banana")

	data, err := json.Marshal(s.Public())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "supersecret") {
		t.Errorf("public projection leaks the secret word: %s", data)
	}
	if !strings.Contains(string(data), "banana") {
		t.Errorf("public projection should keep recent guesses: %s", data)
	}
}
