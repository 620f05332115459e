package realtime

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/observability/metrics"
)

type broadcastItem struct {
	event   string
	payload []byte
}

// Hub owns the set of connected websocket clients and fans every published
// event out to all of them. It holds no entity state: payloads are transient
// copies, gone once delivered or dropped. Clients connecting after a publish
// never see it.
type Hub struct {
	clients     map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	broadcast   chan broadcastItem
	clientCount atomic.Int64
	log         *logger.Logger
	done        chan struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastItem, 256),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run is the single writer of the client set; connect, disconnect and
// publish all funnel through here, so the set needs no lock.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			total := h.clientCount.Add(1)
			metrics.ActiveWebSocketConnections.Inc()
			h.log.WithFields(client.ctx, logger.Fields{
				"user_id": client.userID,
				"total":   total,
				"action":  "ws_register",
			}).Info("websocket client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			delete(h.clients, client)
			close(client.send)
			total := h.clientCount.Add(-1)
			metrics.ActiveWebSocketConnections.Dec()
			h.log.WithFields(client.ctx, logger.Fields{
				"user_id": client.userID,
				"total":   total,
				"action":  "ws_unregister",
			}).Info("websocket client disconnected")

		case item := <-h.broadcast:
			h.fanOut(item)
		}
	}
}

// Publish hands an event to every currently connected client. It is
// fire-and-forget: no subscribers, a full hub queue or a slow client are
// never errors, the payload is simply dropped.
func (h *Hub) Publish(event string, payload any) {
	data, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		h.log.Errorf("realtime marshal failed event=%s: %v", event, err)
		return
	}

	select {
	case h.broadcast <- broadcastItem{event: event, payload: data}:
		metrics.EventsPublished.WithLabelValues(event).Inc()
	case <-h.done:
	default:
		metrics.EventsDropped.WithLabelValues(event).Inc()
		h.log.Warnf("realtime broadcast queue full, dropping event=%s", event)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int64 {
	return h.clientCount.Load()
}

func (h *Hub) fanOut(item broadcastItem) {
	for client := range h.clients {
		select {
		case client.send <- item.payload:
		default:
			metrics.EventsDropped.WithLabelValues(item.event).Inc()
			h.log.Warnf("realtime send buffer full, dropping event=%s user_id=%s", item.event, client.userID)
		}
	}
}

func (h *Hub) shutdown() {
	for client := range h.clients {
		client.Stop()
		close(client.send)
		delete(h.clients, client)
		metrics.ActiveWebSocketConnections.Dec()
	}
	h.clientCount.Store(0)
	h.log.Info("realtime hub shutdown completed")
}

// Shutdown is used as a server shutdown hook; Run handles the actual
// teardown once its context is cancelled.
func (h *Hub) Shutdown(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return context.DeadlineExceeded
	}
}
