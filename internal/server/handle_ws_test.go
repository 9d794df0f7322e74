package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func dialRoomSocket(t *testing.T, env *testEnv) (*websocket.Conn, context.Context) {
	t.Helper()

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := "ws" + srv.URL[len("http"):] + "/ws/room"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.CloseNow() })

	return conn, ctx
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) ChannelMessage {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ChannelMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return msg
}

func TestRoomSocketJoinLeave(t *testing.T) {
	env := setupEnv(t)
	created := env.createRoom(t, "Socketed", "SOCK1")
	ref := created.RoomID.String()

	conn, ctx := dialRoomSocket(t, env)

	if err := wsjson.Write(ctx, conn, wsCommand{Action: "join", RoomID: ref}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	msg := readMessage(t, ctx, conn)
	if msg.Type != msgJoinedRoom || msg.RoomID != ref {
		t.Fatalf("expected joinedRoom ack for %s, got %+v", ref, msg)
	}

	// A broker publish for the joined room reaches the socket.
	env.broker.PublishToast(created.RoomID, "round starting")
	msg = readMessage(t, ctx, conn)
	if msg.Type != msgToast || msg.Message != "round starting" {
		t.Fatalf("expected toast, got %+v", msg)
	}

	if err := wsjson.Write(ctx, conn, wsCommand{Action: "leave", RoomID: ref}); err != nil {
		t.Fatalf("write leave: %v", err)
	}
	msg = readMessage(t, ctx, conn)
	if msg.Type != msgLeftRoom {
		t.Fatalf("expected leftRoom ack, got %+v", msg)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}

func TestRoomSocketRejectsBadInput(t *testing.T) {
	env := setupEnv(t)
	conn, ctx := dialRoomSocket(t, env)

	// Not JSON.
	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != msgToast {
		t.Errorf("bad payload: expected toast, got %+v", msg)
	}

	// Bad room id.
	if err := wsjson.Write(ctx, conn, wsCommand{Action: "join", RoomID: "nope"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != msgToast {
		t.Errorf("bad roomId: expected toast, got %+v", msg)
	}

	// Unknown action.
	if err := wsjson.Write(ctx, conn, wsCommand{Action: "dance", RoomID: uuid.NewString()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := readMessage(t, ctx, conn); msg.Type != msgToast {
		t.Errorf("unknown action: expected toast, got %+v", msg)
	}

	conn.Close(websocket.StatusNormalClosure, "done")
}
