package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/misfitz/partygames/internal/config"
	"github.com/misfitz/partygames/internal/room"
)

const (
	testAdminPassword = "changeme"
	testConnectorKey  = "connector-secret"
	testJWTSecret     = "test-jwt-secret"
)

// fixedWords always deals the same secret so tests are deterministic.
type fixedWords struct{ word string }

func (f fixedWords) NextSecret() string { return f.word }

type testEnv struct {
	router *chi.Mux
	broker *Broker
	rdb    *redis.Client
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	cfg := &config.Config{
		AdminPasswordHash:  string(hash),
		JWTSecret:          testJWTSecret,
		ConnectorIngestKey: testConnectorKey,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := NewBroker()

	r := chi.NewRouter()
	addRoutes(r, logger, Deps{
		Config: cfg,
		RDB:    rdb,
		Words:  fixedWords{word: "rocket"},
	}, broker)

	return &testEnv{router: r, broker: broker, rdb: rdb}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createRoom makes a room through the API and returns it.
func (e *testEnv) createRoom(t *testing.T, name, code string) room.Room {
	t.Helper()

	w := e.do(t, http.MethodPost, "/rooms", RoomCreateRequest{Name: name, RoomCode: code})
	if w.Code != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created room.Room
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode room: %v", err)
	}
	return created
}

// adminLogin authenticates and returns the session cookies.
func (e *testEnv) adminLogin(t *testing.T) []*http.Cookie {
	t.Helper()

	w := e.do(t, http.MethodPost, "/admin/login", AdminLoginRequest{Password: testAdminPassword})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}
