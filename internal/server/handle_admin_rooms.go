package server

import (
	"net/http"

	"github.com/misfitz/partygames/internal/room"
)

// handleCloseRoom broadcasts a final "closed" notice so clients can go
// back to the lobby, then removes the room and its code reservation.
func handleCloseRoom(dir *room.Directory, repo *room.Repository, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		broker.PublishRoomClosed(id)

		removed, err := repo.DeleteRoom(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"roomId":  id,
			"removed": removed,
		})
	}
}
