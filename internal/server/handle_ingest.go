package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/misfitz/partygames/internal/contexto"
	"github.com/misfitz/partygames/internal/room"
)

// IngestEvent is one inbound chat/platform event from a connector.
type IngestEvent struct {
	RoomIDOrCode string    `json:"roomIdOrCode"`
	Platform     string    `json:"platform"`
	ChannelID    string    `json:"channelId"`
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Ts           time.Time `json:"tsUtc"`
}

const connectorKeyHeader = "X-Connector-Key"

// handleIngest routes one external event through the game engine:
// authenticate, resolve the room, apply any guess, fold finished-round
// scores into the leaderboard, persist, and broadcast the public state.
// The broadcast happens even when nothing changed so passive activity
// signals still reach subscribers.
func handleIngest(g gameDeps, connectorKey, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Auth short-circuits before any store access. Admins always
		// pass; otherwise the shared connector key must match when one
		// is configured.
		if connectorKey != "" {
			isAdmin := adminFromRequest(r, jwtSecret) == nil
			if !isAdmin && !validConnectorKey(r.Header.Get(connectorKeyHeader), connectorKey) {
				writeError(w, http.StatusUnauthorized, "invalid connector key")
				return
			}
		}

		var evt IngestEvent
		if err := readJSON(r, &evt); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if evt.RoomIDOrCode == "" {
			writeError(w, http.StatusBadRequest, "roomIdOrCode is required")
			return
		}

		roomID, err := g.dir.Resolve(r.Context(), evt.RoomIDOrCode)
		if errors.Is(err, room.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		state, err := g.repo.GetState(r.Context(), roomID)
		if errors.Is(err, room.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room state not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		changed := false
		roundEnded := false

		if state.ActiveGame == room.GameContexto && state.Contexto != nil {
			if guess, ok := contexto.TryExtractGuess(evt.Message); ok {
				next, applied, ended := contexto.ApplyGuess(state.Contexto, evt.UserID, evt.Username, guess)
				if applied {
					state.Contexto = next
					state.UpdatedAt = time.Now().UTC()
					changed = true
					roundEnded = ended
				}
			}
		}

		// A round that just ended moves its per-user points into the
		// persistent leaderboard — the per-round scores stay behind in
		// the frozen state.
		if roundEnded {
			if err := g.lb.AddScores(r.Context(), roomID, state.Contexto.ScoresByUser); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		if changed {
			if err := g.repo.SaveState(r.Context(), state); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		// Best-effort counters after the state is durable.
		if changed {
			if err := g.stats.IncrGuesses(r.Context(), roomID, 1); err != nil {
				g.logger.Error("stats increment failed", "room_id", roomID, "error", err)
			}
		}
		at := evt.Ts
		if at.IsZero() {
			at = time.Now()
		}
		if err := g.stats.Touch(r.Context(), roomID, at); err != nil {
			g.logger.Error("stats touch failed", "room_id", roomID, "error", err)
		}

		g.broker.PublishState(roomID, state.Public())
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
