package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans complete collection snapshots out to websocket subscribers.
// Topics name subscribed collections ("markers", "markers:{id}:comments").
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

// envelope wraps a payload on the Redis channel so a node can recognize
// its own publishes and not deliver them to local subscribers twice.
type envelope struct {
	Origin  string `json:"origin"`
	Payload []byte `json:"payload"`
}

type Client struct {
	Topic string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

// Unregister tears a subscriber down; no further snapshot reaches the
// client's Send channel afterwards. Must be called exactly once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	close(client.Send)
}

// Broadcast pushes a snapshot to every local subscriber of the topic and
// mirrors it through Redis for other nodes. Slow consumers are skipped,
// not waited on: the next snapshot supersedes anything they missed.
// Sends happen under the read lock so an unregistered client can never
// receive after its channel is closed.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.RLock()
	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		msg, err := json.Marshal(envelope{Origin: h.id, Payload: payload})
		if err != nil {
			log.Printf("redis envelope encode error: %v", err)
			return
		}
		if err := h.redis.Publish(context.Background(), redisChannel(topic), msg).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "map:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("redis envelope decode error: %v", err)
			continue
		}
		// local subscribers already got this payload in Broadcast
		if env.Origin == h.id {
			continue
		}

		topic := topicFromChannel(msg.Channel)
		h.mu.RLock()
		for client := range h.clients[topic] {
			select {
			case client.Send <- env.Payload:
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(topic string) string {
	return "map:" + topic + ":broadcast"
}

func topicFromChannel(ch string) string {
	// map:{topic}:broadcast
	const prefix = "map:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
