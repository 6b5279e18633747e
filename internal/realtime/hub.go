// Package realtime streams record-change events to connected SSE clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/consultancy-backend/internal/events"
	"github.com/yungbote/consultancy-backend/internal/platform/logger"
)

// AllEntities subscribes a client to every entity.
const AllEntities = "*"

const (
	outboundBuffer    = 32
	heartbeatInterval = 15 * time.Second
)

type Client struct {
	ID       uuid.UUID
	Channels map[string]bool
	Outbound chan events.Event
	done     chan struct{}
	once     sync.Once
}

// Hub fans events out to clients keyed by entity name.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "EventHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Subscribe registers a client for the given entities; none means all.
func (hub *Hub) Subscribe(entities []string) *Client {
	client := &Client{
		ID:       uuid.New(),
		Channels: make(map[string]bool),
		Outbound: make(chan events.Event, outboundBuffer),
		done:     make(chan struct{}),
	}
	channels := make([]string, 0, len(entities))
	for _, e := range entities {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			channels = append(channels, e)
		}
	}
	if len(channels) == 0 {
		channels = []string{AllEntities}
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for _, ch := range channels {
		client.Channels[ch] = true
		clients, ok := hub.subscriptions[ch]
		if !ok {
			clients = make(map[*Client]bool)
			hub.subscriptions[ch] = clients
		}
		clients[client] = true
	}
	hub.log.Debug("event client subscribed", "client_id", client.ID, "channels", channels)
	return client
}

// Broadcast never blocks; a client whose buffer is full misses the event.
func (hub *Hub) Broadcast(ev events.Event) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	seen := map[*Client]bool{}
	for _, ch := range []string{string(ev.Entity), AllEntities} {
		for c := range hub.subscriptions[ch] {
			if seen[c] {
				continue
			}
			seen[c] = true
			select {
			case c.Outbound <- ev:
			default:
				hub.log.Warn("dropping event; outbound buffer full", "client_id", c.ID, "entity", ev.Entity)
			}
		}
	}
}

// Publish lets the hub stand in as the event publisher when no broker is
// configured.
func (hub *Hub) Publish(_ context.Context, ev events.Event) error {
	hub.Broadcast(ev)
	return nil
}

func (hub *Hub) Close() error { return nil }

func (hub *Hub) Clients() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	seen := map[*Client]bool{}
	for _, clients := range hub.subscriptions {
		for c := range clients {
			seen[c] = true
		}
	}
	return len(seen)
}

// CloseClient unsubscribes the client and closes its outbound channel.
func (hub *Hub) CloseClient(client *Client) {
	client.once.Do(func() {
		hub.mu.Lock()
		for ch := range client.Channels {
			if subs, ok := hub.subscriptions[ch]; ok {
				delete(subs, client)
				if len(subs) == 0 {
					delete(hub.subscriptions, ch)
				}
			}
		}
		hub.mu.Unlock()
		close(client.done)
		close(client.Outbound)
	})
}

// ServeHTTP streams the client's events until the request ends.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-client.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(ev)
			if err != nil {
				hub.log.Warn("failed to marshal event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s.%s\nid: %s\ndata: %s\n\n", ev.Entity, ev.Action, ev.ID, raw)
			flusher.Flush()
		}
	}
}
