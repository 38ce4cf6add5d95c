package api

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/showcue-core/internal/infrastructure/logging"
)

// Hub fans show events out to WebSocket clients.
//
// Channels marked with Retain keep their most recent frame. A client that
// subscribes to a retained channel mid-show receives that frame straight
// away, so a control surface opened after a take still sees what is on
// program. Every event frame carries a hub-wide sequence number; replayed
// frames keep their original one.
type Hub struct {
	logger *logging.Logger

	mu       sync.RWMutex
	clients  map[*WSClient]struct{}
	retained map[string]frame // key present means the channel is retained

	seq     atomic.Uint64
	dropped atomic.Uint64
}

// NewHub creates a hub with no retained channels.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:   logger,
		clients:  make(map[*WSClient]struct{}),
		retained: make(map[string]frame),
	}
}

// Retain marks channels whose last frame is replayed to new subscribers.
func (h *Hub) Retain(channels ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		if _, ok := h.retained[ch]; !ok {
			h.retained[ch] = frame{}
		}
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "clients", n)
}

// Unregister removes a client. Only the call that actually removes it
// closes the send channel.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	n := len(h.clients)
	h.mu.Unlock()

	if existed {
		close(client.send)
		h.logger.Debug("websocket client disconnected", "clients", n)
	}
}

// Broadcast sends an event to every client subscribed to channel.
func (h *Hub) Broadcast(channel string, payload any) {
	seq := h.seq.Add(1)
	data, err := json.Marshal(WSMessage{
		Type:      WSTypeEvent,
		Seq:       seq,
		EventType: channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", "channel", channel, "error", err)
		return
	}

	h.mu.Lock()
	if _, ok := h.retained[channel]; ok {
		h.retained[channel] = frame{seq: seq, data: data}
	}
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	// Client locks are taken only after the hub lock is released.
	sent := 0
	for _, client := range clients {
		if !client.isSubscribed(channel) {
			continue
		}
		if client.trySend(data) {
			sent++
		} else {
			h.dropped.Add(1)
		}
	}
	if sent > 0 {
		h.logger.Debug("broadcast sent", "channel", channel, "recipients", sent)
	}
}

// replay returns the retained frames matching channels, oldest first.
func (h *Hub) replay(channels []string) [][]byte {
	h.mu.RLock()
	defer h.mu.RUnlock()

	want := make(map[string]bool, len(channels))
	all := false
	for _, ch := range channels {
		if ch == WSChannelAll {
			all = true
		}
		want[ch] = true
	}

	var frames []frame
	for ch, f := range h.retained {
		if f.data == nil || (!all && !want[ch]) {
			continue
		}
		frames = append(frames, f)
	}
	slices.SortFunc(frames, func(a, b frame) int { return cmp.Compare(a.seq, b.seq) })

	out := make([][]byte, len(frames))
	for i, f := range frames {
		out[i] = f.data
	}
	return out
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many frames were discarded because a client's
// buffer was full.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

type frame struct {
	seq  uint64
	data []byte
}
