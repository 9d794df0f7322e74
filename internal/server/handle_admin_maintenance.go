package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/misfitz/partygames/internal/room"
)

// handleCleanupRooms sweeps rooms older than the requested age. Both
// knobs are clamped so a single admin call has a bounded blast radius.
func handleCleanupRooms(repo *room.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		olderThanHours := queryInt(r, "olderThanHours", 24)
		max := queryInt(r, "max", 200)

		if olderThanHours < 1 {
			olderThanHours = 1
		}
		if max < 1 {
			max = 1
		}
		if max > 2000 {
			max = 2000 // safety cap
		}

		cutoff := time.Now().UTC().Add(-time.Duration(olderThanHours) * time.Hour)

		deleted, err := repo.DeleteRoomsOlderThan(r.Context(), cutoff, max)
		if err != nil {
			// The sweep aborted early; report how far it got.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"ok":      false,
				"error":   "cleanup aborted",
				"deleted": deleted,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":             true,
			"olderThanHours": olderThanHours,
			"max":            max,
			"cutoffUtc":      cutoff,
			"deleted":        deleted,
		})
	}
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
