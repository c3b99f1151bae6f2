package ws

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/armandomtz/fraccionet/internal/model"
)

// newTestClient builds a client without a real socket. The hub never touches
// the connection itself, only the send channel.
func newTestClient(h *Hub) *Client {
	c := &Client{
		hub:    h,
		send:   make(chan []byte, 8),
		UserID: uuid.New(),
	}
	h.addClient(c)
	return c
}

func recvEvent(t *testing.T, c *Client) *model.WSEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var evt model.WSEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("unmarshal delivered event: %v", err)
		}
		return &evt
	default:
		t.Fatal("expected a delivered event, channel is empty")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("expected no delivery, got: %s", data)
	default:
	}
}

func TestHub_BroadcastToRoom_OnlyReachesMembers(t *testing.T) {
	h := NewHub(nil)
	member1 := newTestClient(h)
	member2 := newTestClient(h)
	outsider := newTestClient(h)

	room := model.RoomName(uuid.New())
	h.Join(member1, room)
	h.Join(member2, room)

	h.BroadcastToRoom(room, &model.WSEvent{Type: model.WSEventNewMessage})

	if evt := recvEvent(t, member1); evt.Type != model.WSEventNewMessage {
		t.Errorf("member1 got %q, want %q", evt.Type, model.WSEventNewMessage)
	}
	recvEvent(t, member2)
	assertNoEvent(t, outsider)
}

func TestHub_BroadcastToRoom_IncludesEveryMemberSession(t *testing.T) {
	h := NewHub(nil)
	// Two connections for the same user, as when a resident has the chat
	// open on two devices. Both must receive the broadcast.
	userID := uuid.New()
	session1 := newTestClient(h)
	session2 := newTestClient(h)
	session1.UserID = userID
	session2.UserID = userID

	room := model.RoomName(uuid.New())
	h.Join(session1, room)
	h.Join(session2, room)

	h.BroadcastToRoom(room, &model.WSEvent{Type: model.WSEventNewMessage})

	recvEvent(t, session1)
	recvEvent(t, session2)
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)
	room := model.RoomName(uuid.New())

	h.Join(client, room)
	h.Join(client, room)

	if size := h.RoomSize(room); size != 1 {
		t.Errorf("RoomSize = %d after double join, want 1", size)
	}

	h.BroadcastToRoom(room, &model.WSEvent{Type: model.WSEventNewMessage})
	recvEvent(t, client)
	assertNoEvent(t, client)
}

func TestHub_Leave(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)
	room := model.RoomName(uuid.New())

	h.Join(client, room)
	h.Leave(client, room)

	if size := h.RoomSize(room); size != 0 {
		t.Errorf("RoomSize = %d after leave, want 0", size)
	}

	h.BroadcastToRoom(room, &model.WSEvent{Type: model.WSEventNewMessage})
	assertNoEvent(t, client)

	// Leaving a room the client never joined is a no-op.
	h.Leave(client, "chat:unknown")
}

func TestHub_DisconnectClearsAllRooms(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)
	roomA := model.RoomName(uuid.New())
	roomB := model.RoomName(uuid.New())

	h.Join(client, roomA)
	h.Join(client, roomB)
	h.removeClient(client)

	if h.RoomSize(roomA) != 0 || h.RoomSize(roomB) != 0 {
		t.Error("disconnect must remove the client from every room")
	}

	// The send channel is closed so WritePump terminates.
	if _, ok := <-client.send; ok {
		t.Error("expected send channel to be closed")
	}
}

func TestHub_DisconnectTwiceIsSafe(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)
	h.Join(client, model.RoomName(uuid.New()))

	h.removeClient(client)
	h.removeClient(client) // must not close the channel again
}

func TestHub_JoinAfterDisconnectIsIgnored(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)
	h.removeClient(client)

	room := model.RoomName(uuid.New())
	h.Join(client, room)

	if size := h.RoomSize(room); size != 0 {
		t.Errorf("RoomSize = %d after post-disconnect join, want 0", size)
	}
}

func TestHub_BroadcastAll(t *testing.T) {
	h := NewHub(nil)
	inRoom := newTestClient(h)
	noRoom := newTestClient(h)
	h.Join(inRoom, model.RoomName(uuid.New()))

	h.BroadcastAll(&model.WSEvent{Type: model.WSEventChatCreated})

	recvEvent(t, inRoom)
	if evt := recvEvent(t, noRoom); evt.Type != model.WSEventChatCreated {
		t.Errorf("got %q, want %q", evt.Type, model.WSEventChatCreated)
	}
}

func TestHub_DeliversInSendOrderToEachJoinedClient(t *testing.T) {
	h := NewHub(nil)
	early := newTestClient(h)
	late := newTestClient(h)

	room := model.RoomName(uuid.New())
	h.Join(early, room)

	send := func(n int) {
		h.BroadcastToRoom(room, &model.WSEvent{
			Type:    model.WSEventNewMessage,
			Payload: map[string]int{"n": n},
		})
	}

	send(1)
	send(2)
	h.Join(late, room)
	send(3)

	// The client joined from the start sees all three, in order.
	for want := 1; want <= 3; want++ {
		evt := recvEvent(t, early)
		payload := evt.Payload.(map[string]interface{})
		if got := int(payload["n"].(float64)); got != want {
			t.Fatalf("early client got message %d, want %d", got, want)
		}
	}

	// The late joiner sees only what was sent after it joined.
	evt := recvEvent(t, late)
	payload := evt.Payload.(map[string]interface{})
	if got := int(payload["n"].(float64)); got != 3 {
		t.Errorf("late client got message %d, want 3", got)
	}
	assertNoEvent(t, late)
}

func TestHub_SendToClient(t *testing.T) {
	h := NewHub(nil)
	client := newTestClient(h)

	h.SendToClient(client, &model.WSEvent{
		Type:    model.WSEventAck,
		Payload: model.AckPayload{OK: true},
	})

	evt := recvEvent(t, client)
	if evt.Type != model.WSEventAck {
		t.Errorf("got %q, want %q", evt.Type, model.WSEventAck)
	}
}

func TestHub_SlowConsumerDoesNotBlock(t *testing.T) {
	h := NewHub(nil)
	client := &Client{
		hub:    h,
		send:   make(chan []byte), // unbuffered, nobody reading
		UserID: uuid.New(),
	}
	h.addClient(client)
	room := model.RoomName(uuid.New())
	h.Join(client, room)

	// Must return instead of blocking on the full channel.
	h.BroadcastToRoom(room, &model.WSEvent{Type: model.WSEventNewMessage})
}
