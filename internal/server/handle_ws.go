package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

// wsCommand is what clients send over the room socket.
type wsCommand struct {
	Action string `json:"action"`
	RoomID string `json:"roomId"`
}

// handleRoomSocket upgrades to a websocket and lets the client subscribe
// to any number of room channels. One writer goroutine serializes all
// outbound frames; per-room forwarder goroutines bridge broker channels
// into it.
func handleRoomSocket(logger *slog.Logger, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, 32)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-out:
					if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		send := func(m ChannelMessage) {
			select {
			case out <- marshalMessage(m):
			case <-ctx.Done():
			}
		}

		// roomID -> stop func; touched only by this read loop.
		subs := make(map[string]func())
		defer func() {
			for _, stop := range subs {
				stop()
			}
		}()

		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				return
			}

			var cmd wsCommand
			if err := json.Unmarshal(data, &cmd); err != nil {
				send(ChannelMessage{Type: msgToast, Message: "invalid message"})
				continue
			}

			roomID, err := uuid.Parse(cmd.RoomID)
			if err != nil {
				send(ChannelMessage{Type: msgToast, Message: "invalid roomId"})
				continue
			}
			key := roomID.String()

			switch strings.ToLower(cmd.Action) {
			case "join":
				if _, ok := subs[key]; !ok {
					ch := broker.Subscribe(key)
					done := make(chan struct{})
					subs[key] = func() {
						broker.Unsubscribe(key, ch)
						close(done)
					}
					go func() {
						for {
							select {
							case <-ctx.Done():
								return
							case <-done:
								return
							case msg := <-ch:
								select {
								case out <- msg:
								default:
									// Drop if the socket can't keep up.
								}
							}
						}
					}()
				}
				send(ChannelMessage{Type: msgJoinedRoom, RoomID: key})

			case "leave":
				if stop, ok := subs[key]; ok {
					stop()
					delete(subs, key)
				}
				send(ChannelMessage{Type: msgLeftRoom, RoomID: key})

			default:
				send(ChannelMessage{Type: msgToast, Message: "unknown action"})
			}
		}
	}
}
