package preview

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fluxpress/theme-classic/internal/metrics"
)

const heartbeatInterval = 30 * time.Second

// Hub fans output fingerprints out to browsers over server-sent events. A
// browser reloads when the fingerprint it receives differs from the first one.
type Hub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*hubClient
	recorder metrics.Recorder
	closed   bool
	last     string
}

type hubClient struct {
	ch   chan string
	done chan struct{}
}

// NewHub creates a hub reporting its client count to recorder (may be nil).
func NewHub(recorder metrics.Recorder) *Hub {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Hub{clients: map[int]*hubClient{}, recorder: recorder}
}

// ServeHTTP is the SSE endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "live reload shutting down", http.StatusServiceUnavailable)
		return
	}
	id := h.nextID
	h.nextID++
	client := &hubClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.clients[id] = client
	current := h.last
	n := len(h.clients)
	h.mu.Unlock()
	h.recorder.SetLiveReloadClients(n)
	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			slog.Debug("Live reload write failed", "error", err)
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") {
		return
	}
	if current != "" && !send(event(current)) {
		return
	}

	hb := time.NewTicker(heartbeatInterval)
	defer hb.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}
		case hash := <-client.ch:
			if !send(event(hash)) {
				return
			}
		}
	}
}

func event(hash string) string { return fmt.Sprintf("data: {\"hash\":%q}\n\n", hash) }

func (h *Hub) remove(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		close(c.done)
		h.recorder.SetLiveReloadClients(n)
	}
}

// Broadcast sends hash to every client. Empty and repeated hashes are ignored;
// clients whose buffers are full are dropped.
func (h *Hub) Broadcast(hash string) {
	h.mu.Lock()
	if h.closed || hash == "" || hash == h.last {
		h.mu.Unlock()
		return
	}
	h.last = hash
	clients := make(map[int]*hubClient, len(h.clients))
	for id, c := range h.clients {
		clients[id] = c
	}
	h.mu.Unlock()

	for id, c := range clients {
		select {
		case c.ch <- hash:
		default:
			slog.Debug("Dropping slow live reload client", "client", id)
			h.remove(id)
		}
	}
}

// Last returns the most recently broadcast hash.
func (h *Hub) Last() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// Clients returns the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = map[int]*hubClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetLiveReloadClients(0)
}
