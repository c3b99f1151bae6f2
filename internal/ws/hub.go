package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/armandomtz/fraccionet/internal/model"
)

const redisChannel = "fraccionet:rooms"

// BroadcastAllRoom is the pseudo-room addressing every live connection,
// used for chat-created events that each client filters locally.
const BroadcastAllRoom = "*"

// Hub multiplexes socket connections into named broadcast groups (rooms).
// A connection may sit in any number of rooms; dropping the connection
// removes it from all of them. Redis Pub/Sub carries events across
// instances; with a nil Redis client the hub runs in single-process mode
// and delivers locally.
type Hub struct {
	mu sync.RWMutex

	// room name -> member connections
	rooms map[string]map[*Client]bool
	// reverse index so disconnect cleanup doesn't scan every room
	memberships map[*Client]map[string]bool

	register   chan *Client
	unregister chan *Client

	rdb *redis.Client
}

// roomEvent is the wire form published to Redis.
type roomEvent struct {
	Room  string         `json:"room"`
	Event *model.WSEvent `json:"event"`
}

// NewHub creates a hub. rdb may be nil for single-process deployments.
func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		memberships: make(map[*Client]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		rdb:         rdb,
	}
}

// Run starts the hub's event loop
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// Register queues a client for registration with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.memberships[client]; !ok {
		h.memberships[client] = make(map[string]bool)
	}
	log.Printf("✅ Client connected: %s", client.UserID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.closed {
		return
	}
	client.closed = true

	rooms := h.memberships[client]
	for room := range rooms {
		delete(h.rooms[room], client)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.memberships, client)
	close(client.send)
	log.Printf("❌ Client disconnected: %s", client.UserID)
}

// Join subscribes a connection to a room. Joining twice is a no-op.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.closed {
		// Connection raced its own disconnect; nothing to subscribe.
		return
	}
	if _, ok := h.memberships[client]; !ok {
		h.memberships[client] = make(map[string]bool)
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	h.memberships[client][room] = true
}

// Leave unsubscribes a connection from a room. Safe when not a member.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.memberships[client]; ok {
		delete(rooms, room)
	}
}

// RoomSize returns how many local connections sit in a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom delivers an event to every connection in the room,
// across all instances. Room members that originated the event receive it
// too; the broadcast is the single source of truth for rendering.
func (h *Hub) BroadcastToRoom(room string, event *model.WSEvent) {
	if h.rdb != nil {
		h.publishToRedis(&roomEvent{Room: room, Event: event})
		return
	}
	h.deliverLocal(room, event)
}

// BroadcastAll delivers an event to every live connection on every instance
func (h *Hub) BroadcastAll(event *model.WSEvent) {
	h.BroadcastToRoom(BroadcastAllRoom, event)
}

// SendToClient delivers an event to one local connection (socket acks)
func (h *Hub) SendToClient(client *Client, event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling ack event: %v", err)
		return
	}
	select {
	case client.send <- data:
	default:
		// Slow consumer: drop the event rather than block the hub.
	}
}

// deliverLocal fans an event out to this instance's connections
func (h *Hub) deliverLocal(room string, event *model.WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room == BroadcastAllRoom {
		for client := range h.memberships {
			select {
			case client.send <- data:
			default:
			}
		}
		return
	}

	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
		}
	}
}

// publishToRedis publishes an event for cross-instance delivery
func (h *Hub) publishToRedis(evt *roomEvent) {
	jsonData, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Error marshaling for Redis: %v", err)
		return
	}
	if err := h.rdb.Publish(context.Background(), redisChannel, jsonData).Err(); err != nil {
		log.Printf("Error publishing to Redis: %v", err)
	}
}

// subscribeRedis delivers published events to this instance's connections
func (h *Hub) subscribeRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("📡 Redis Pub/Sub subscriber started")

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			var evt roomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("Error unmarshaling Redis message: %v", err)
				continue
			}
			if evt.Event == nil {
				continue
			}
			h.deliverLocal(evt.Room, evt.Event)
		}
	}
}
