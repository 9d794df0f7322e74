package server

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/misfitz/partygames/internal/room"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	roomID := uuid.New()

	a := b.Subscribe(roomID.String())
	c := b.Subscribe(roomID.String())
	other := b.Subscribe(uuid.NewString())

	b.PublishState(roomID, room.PublicState{RoomID: roomID, ActiveGame: room.GameContexto})

	for name, ch := range map[string]chan []byte{"a": a, "c": c} {
		select {
		case data := <-ch:
			var msg ChannelMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("%s: decode: %v", name, err)
			}
			if msg.Type != msgStateUpdated || msg.RoomID != roomID.String() {
				t.Errorf("%s: unexpected message %+v", name, msg)
			}
			if msg.Ts.IsZero() {
				t.Errorf("%s: expected a timestamp", name)
			}
		default:
			t.Fatalf("%s: expected a delivery", name)
		}
	}

	select {
	case <-other:
		t.Fatal("subscriber of another room received the message")
	default:
	}
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()
	roomID := uuid.New()

	ch := b.Subscribe(roomID.String())
	b.Unsubscribe(roomID.String(), ch)

	b.PublishRoomClosed(roomID)

	select {
	case <-ch:
		t.Fatal("unsubscribed channel received a message")
	default:
	}
}

func TestBrokerDropsWhenSubscriberIsFull(t *testing.T) {
	b := NewBroker()
	roomID := uuid.New()

	ch := b.Subscribe(roomID.String())

	// Overrun the buffer; publish must never block.
	for i := 0; i < 100; i++ {
		b.PublishToast(roomID, "spam")
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("expected a full buffer of %d, got %d", cap(ch), got)
	}
}
