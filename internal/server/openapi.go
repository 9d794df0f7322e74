package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/misfitz/partygames/internal/room"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// OKResponse is the bare success acknowledgement.
type OKResponse struct {
	OK bool `json:"ok"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Partygames API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Room, game, and ingestion API for the party-game backend.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/room
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/room")
	getWS.SetSummary("Room channel socket")
	getWS.SetDescription("Upgrades to a WebSocket. Send {action:\"join\"|\"leave\", roomId} to manage room subscriptions; receives stateUpdated, roomClosed, and toast messages.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /rooms
	postRooms, _ := r.NewOperationContext(http.MethodPost, "/rooms")
	postRooms.SetSummary("Create room")
	postRooms.SetDescription("Creates a room with an atomically reserved join code. Omit roomCode to auto-generate an 8-digit one.")
	postRooms.AddReqStructure(RoomCreateRequest{})
	postRooms.AddRespStructure(room.Room{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postRooms)

	// GET /rooms
	getRooms, _ := r.NewOperationContext(http.MethodGet, "/rooms")
	getRooms.SetSummary("List rooms")
	getRooms.SetDescription("Returns all live rooms, oldest first.")
	getRooms.AddRespStructure([]room.Room{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRooms)

	// GET /rooms/{roomRef}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomRef}")
	getRoom.SetSummary("Get room")
	getRoom.SetDescription("Looks up a room by id or join code.")
	getRoom.AddRespStructure(room.Room{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// GET /rooms/{roomRef}/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomRef}/state")
	getState.SetSummary("Get room state")
	getState.SetDescription("Returns the public projection of the room's state. Never includes the secret word.")
	getState.AddRespStructure(room.PublicState{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// POST /rooms/{roomRef}/games/contexto/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomRef}/games/contexto/start")
	postStart.SetSummary("Start Contexto round")
	postStart.SetDescription("Starts a round with an explicit secret word and broadcasts the new state.")
	postStart.AddReqStructure(ContextoStartRequest{})
	postStart.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postStart)

	// POST /rooms/{roomRef}/games/contexto/next
	postNext, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomRef}/games/contexto/next")
	postNext.SetSummary("Next Contexto round")
	postNext.SetDescription("Starts a round with a random secret from the word source.")
	postNext.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postNext.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postNext)

	// POST /rooms/{roomRef}/games/stop
	postStop, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomRef}/games/stop")
	postStop.SetSummary("Stop active game")
	postStop.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStop.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postStop)

	// GET /rooms/{roomRef}/leaderboard
	getLB, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomRef}/leaderboard")
	getLB.SetSummary("Room leaderboard")
	getLB.SetDescription("Top 20 cumulative cross-round scorers for the room.")
	getLB.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getLB.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLB)

	// GET /rooms/{roomRef}/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/rooms/{roomRef}/stats")
	getStats.SetSummary("Room stats")
	getStats.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getStats.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getStats)

	// POST /ingest/event
	postIngest, _ := r.NewOperationContext(http.MethodPost, "/ingest/event")
	postIngest.SetSummary("Ingest connector event")
	postIngest.SetDescription("Feeds one chat event through the active game. Requires the X-Connector-Key header when a key is configured.")
	postIngest.AddReqStructure(IngestEvent{})
	postIngest.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postIngest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postIngest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postIngest)

	// POST /admin/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/admin/login")
	postLogin.SetSummary("Admin login")
	postLogin.SetDescription("Authenticate with the admin password. Sets the mf_admin cookie.")
	postLogin.AddReqStructure(AdminLoginRequest{})
	postLogin.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /admin/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/admin/logout")
	postLogout.SetSummary("Admin logout")
	postLogout.AddRespStructure(OKResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// POST /rooms/{roomRef}/close
	postClose, _ := r.NewOperationContext(http.MethodPost, "/rooms/{roomRef}/close")
	postClose.SetSummary("Close room")
	postClose.SetDescription("Broadcasts roomClosed and deletes the room. Requires the mf_admin cookie.")
	postClose.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postClose.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postClose)

	// POST /admin/rooms/cleanup
	postCleanup, _ := r.NewOperationContext(http.MethodPost, "/admin/rooms/cleanup")
	postCleanup.SetSummary("Retention sweep")
	postCleanup.SetDescription("Deletes rooms older than olderThanHours, at most max (capped at 2000). Requires the mf_admin cookie.")
	postCleanup.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postCleanup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postCleanup)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
