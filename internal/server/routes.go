package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/misfitz/partygames/internal/room"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, broker *Broker) {
	dir := room.NewDirectory(deps.RDB)
	repo := room.NewRepository(deps.RDB, dir)
	stats := room.NewStatsStore(deps.RDB)
	lb := room.NewLeaderboard(deps.RDB)

	g := gameDeps{
		logger: logger,
		dir:    dir,
		repo:   repo,
		stats:  stats,
		lb:     lb,
		broker: broker,
		words:  deps.Words,
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Partygames API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.RDB))
	r.Get("/livez", handleLive())
	r.Get("/ws/room", handleRoomSocket(logger, broker))

	// Rooms and games.
	r.Post("/rooms", handleCreateRoom(dir, repo))
	r.Get("/rooms", handleListRooms(repo))
	r.Get("/rooms/{roomRef}", handleGetRoom(dir, repo))
	r.Get("/rooms/{roomRef}/state", handleGetRoomState(dir, repo))
	r.Get("/rooms/{roomRef}/leaderboard", handleLeaderboard(g))
	r.Get("/rooms/{roomRef}/stats", handleGetStats(dir, repo, stats))
	r.Post("/rooms/{roomRef}/games/contexto/start", handleStartContexto(g))
	r.Post("/rooms/{roomRef}/games/contexto/next", handleNextContexto(g))
	r.Post("/rooms/{roomRef}/games/stop", handleStopGame(g))
	r.Post("/rooms/{roomRef}/test/broadcast", handleTestBroadcast(dir, broker))

	// Connector ingestion.
	r.Post("/ingest/event", handleIngest(g, deps.Config.ConnectorIngestKey, deps.Config.JWTSecret))

	// Admin surface.
	r.Post("/admin/login", handleAdminLogin(deps.Config))
	r.Post("/admin/logout", handleAdminLogout())
	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.Config.JWTSecret))
		r.Get("/admin/me", handleAdminMe())
		r.Post("/admin/rooms/cleanup", handleCleanupRooms(repo))
		r.Post("/rooms/{roomRef}/close", handleCloseRoom(dir, repo, broker))
		r.Post("/rooms/{roomRef}/stats/reset", handleResetStats(dir, stats))
	})

	// Debug surface.
	r.Get("/debug/redis", handleDebugRedis(deps.RDB))
	r.Get("/debug/whoami", handleDebugWhoami(deps.Config.JWTSecret))

	if deps.Config.StaticDir != "" {
		if info, err := os.Stat(deps.Config.StaticDir); err == nil && info.IsDir() {
			logger.Info("serving static files", "dir", deps.Config.StaticDir)
			r.NotFound(handleStatic(deps.Config.StaticDir))
		}
	}
}
