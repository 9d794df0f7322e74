package server

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/misfitz/partygames/internal/room"
)

func handleDebugRedis(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"connected": false,
				"error":     err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"connected": true,
			"pingMs":    time.Since(start).Milliseconds(),
		})
	}
}

func handleDebugWhoami(jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"isAdmin": adminFromRequest(r, jwtSecret) == nil,
		})
	}
}

// handleTestBroadcast lets operators verify the socket path end to end.
func handleTestBroadcast(dir *room.Directory, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		broker.PublishToast(id, "Hello from server!")
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
