package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/misfitz/partygames/internal/room"
)

// Channel message types pushed to room subscribers.
const (
	msgStateUpdated = "stateUpdated"
	msgRoomClosed   = "roomClosed"
	msgJoinedRoom   = "joinedRoom"
	msgLeftRoom     = "leftRoom"
	msgToast        = "toast"
)

// ChannelMessage is the envelope for everything sent over a room channel.
type ChannelMessage struct {
	Type    string            `json:"type"`
	RoomID  string            `json:"roomId,omitempty"`
	State   *room.PublicState `json:"state,omitempty"`
	Message string            `json:"message,omitempty"`
	Ts      time.Time         `json:"utc"`
}

func marshalMessage(m ChannelMessage) []byte {
	if m.Ts.IsZero() {
		m.Ts = time.Now().UTC()
	}
	data, _ := json.Marshal(m)
	return data
}

// Broker is an in-process pub/sub fanning room channel messages out to
// socket subscribers. Delivery is fire-and-forget: a slow or disconnected
// subscriber just misses the update and re-fetches state on reconnect.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded messages for the room.
func (b *Broker) Subscribe(roomID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[roomID] == nil {
		b.subs[roomID] = make(map[chan []byte]struct{})
	}
	b.subs[roomID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Broker) Unsubscribe(roomID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[roomID], ch)
	if len(b.subs[roomID]) == 0 {
		delete(b.subs, roomID)
	}
	b.mu.Unlock()
}

func (b *Broker) publish(roomID string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[roomID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// PublishState pushes the public projection of a room's state to every
// current subscriber, whether or not anything changed.
func (b *Broker) PublishState(roomID uuid.UUID, state room.PublicState) {
	b.publish(roomID.String(), marshalMessage(ChannelMessage{
		Type:   msgStateUpdated,
		RoomID: roomID.String(),
		State:  &state,
	}))
}

// PublishRoomClosed tells subscribers to leave gracefully before the room
// disappears.
func (b *Broker) PublishRoomClosed(roomID uuid.UUID) {
	b.publish(roomID.String(), marshalMessage(ChannelMessage{
		Type:   msgRoomClosed,
		RoomID: roomID.String(),
	}))
}

func (b *Broker) PublishToast(roomID uuid.UUID, message string) {
	b.publish(roomID.String(), marshalMessage(ChannelMessage{
		Type:    msgToast,
		RoomID:  roomID.String(),
		Message: message,
	}))
}
