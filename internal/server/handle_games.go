package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/misfitz/partygames/internal/contexto"
	"github.com/misfitz/partygames/internal/room"
)

type ContextoStartRequest struct {
	SecretWord string `json:"secretWord"`
}

// startRound loads the room state, swaps in a fresh Contexto round, and
// broadcasts the result.
func startRound(w http.ResponseWriter, r *http.Request, g gameDeps, secret string) {
	id, ok := resolveRoomRef(w, r, g.dir)
	if !ok {
		return
	}

	state, err := g.repo.GetState(r.Context(), id)
	if errors.Is(err, room.ErrNotFound) {
		writeError(w, http.StatusNotFound, "room state not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	state.ActiveGame = room.GameContexto
	state.Contexto = contexto.NewRound(secret)
	state.UpdatedAt = time.Now().UTC()

	if err := g.repo.SaveState(r.Context(), state); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Counters are best-effort; a failed increment never fails the round.
	if err := g.stats.IncrGamesPlayed(r.Context(), id); err != nil {
		g.logger.Error("stats increment failed", "room_id", id, "error", err)
	}

	g.broker.PublishState(id, state.Public())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type gameDeps struct {
	logger *slog.Logger
	dir    *room.Directory
	repo   *room.Repository
	stats  *room.StatsStore
	lb     *room.Leaderboard
	broker *Broker
	words  WordSource
}

func handleStartContexto(g gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContextoStartRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.SecretWord) == "" {
			writeError(w, http.StatusBadRequest, "secretWord is required")
			return
		}
		startRound(w, r, g, req.SecretWord)
	}
}

// handleNextContexto starts a round with a word from the injected source.
func handleNextContexto(g gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startRound(w, r, g, g.words.NextSecret())
	}
}

func handleStopGame(g gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, g.dir)
		if !ok {
			return
		}

		state, err := g.repo.GetState(r.Context(), id)
		if errors.Is(err, room.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room state not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		state.ActiveGame = room.GameNone
		state.Contexto = nil
		state.UpdatedAt = time.Now().UTC()

		if err := g.repo.SaveState(r.Context(), state); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		g.broker.PublishState(id, state.Public())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func handleLeaderboard(g gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, g.dir)
		if !ok {
			return
		}

		if _, err := g.repo.GetRoom(r.Context(), id); err != nil {
			if errors.Is(err, room.ErrNotFound) {
				writeError(w, http.StatusNotFound, "room not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		top, err := g.lb.Top(r.Context(), id, 20)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":     true,
			"roomId": id,
			"top":    top,
		})
	}
}
