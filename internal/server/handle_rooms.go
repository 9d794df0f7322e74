package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/misfitz/partygames/internal/room"
)

type RoomCreateRequest struct {
	Name     string `json:"name"`
	RoomCode string `json:"roomCode,omitempty"`
}

func handleCreateRoom(dir *room.Directory, repo *room.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RoomCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		id := uuid.New()

		var code string
		var err error
		if strings.TrimSpace(req.RoomCode) != "" {
			code, err = dir.Reserve(r.Context(), req.RoomCode, id)
		} else {
			code, err = dir.ReserveGenerated(r.Context(), id)
		}
		switch {
		case errors.Is(err, room.ErrInvalidCode):
			writeError(w, http.StatusBadRequest, "room code must be 4-12 characters A-Z or 0-9")
			return
		case errors.Is(err, room.ErrCodeInUse):
			writeError(w, http.StatusConflict, "room code already in use")
			return
		case errors.Is(err, room.ErrCodeAllocation):
			writeError(w, http.StatusServiceUnavailable, "could not allocate a room code, try again")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		now := time.Now().UTC()
		newRoom := room.Room{
			RoomID:    id,
			RoomCode:  code,
			Name:      req.Name,
			CreatedAt: now,
		}

		// The reservation is already durable; everything after it must
		// release the code on failure so it is never stranded.
		if err := repo.SaveRoom(r.Context(), newRoom); err != nil {
			dir.Release(r.Context(), code)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		state := room.RoomState{
			RoomID:     id,
			RoomName:   newRoom.Name,
			ActiveGame: room.GameNone,
			UpdatedAt:  now,
		}
		if err := repo.SaveState(r.Context(), state); err != nil {
			dir.Release(r.Context(), code)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, newRoom)
	}
}

func handleListRooms(repo *room.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := repo.ListRooms(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

// resolveRoomRef turns the {roomRef} URL param (UUID or join code) into a
// room id, writing the 404 itself when the ref is unresolvable.
func resolveRoomRef(w http.ResponseWriter, r *http.Request, dir *room.Directory) (uuid.UUID, bool) {
	id, err := dir.Resolve(r.Context(), chi.URLParam(r, "roomRef"))
	if errors.Is(err, room.ErrNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return uuid.Nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return uuid.Nil, false
	}
	return id, true
}

func handleGetRoom(dir *room.Directory, repo *room.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		got, err := repo.GetRoom(r.Context(), id)
		if errors.Is(err, room.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, got)
	}
}

// handleGetRoomState returns the public projection: reconnecting clients
// re-fetch here, so it must not leak the secret either.
func handleGetRoomState(dir *room.Directory, repo *room.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoomRef(w, r, dir)
		if !ok {
			return
		}

		state, err := repo.GetState(r.Context(), id)
		if errors.Is(err, room.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room state not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, state.Public())
	}
}
