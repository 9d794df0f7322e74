package server

import (
	"errors"
	"net/http"

	"github.com/misfitz/partygames/internal/room"
)

func handleGetStats(dir *room.Directory, repo *room.Repository, stats *room.StatsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		if _, err := repo.GetRoom(r.Context(), id); err != nil {
			if errors.Is(err, room.ErrNotFound) {
				writeError(w, http.StatusNotFound, "room not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		got, err := stats.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": got})
	}
}

func handleResetStats(dir *room.Directory, stats *room.StatsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		if err := stats.Reset(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
