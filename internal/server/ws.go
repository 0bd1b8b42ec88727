package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// PointerHandler broadcasts the live pointer state via WebSocket, for
// the tuning UI and external clients.
type PointerHandler struct {
	pipeline  Pipeline
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPointerHandler creates a new PointerHandler over the pipeline.
func NewPointerHandler(p Pipeline) *PointerHandler {
	h := &PointerHandler{
		pipeline: p,
		clients:  make(map[*websocket.Conn]bool),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// Close stops the broadcast goroutine and waits for it to exit. Safe
// to call more than once.
func (h *PointerHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *PointerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes the latest snapshot to all connected clients. Only
// fresh snapshots go out; a stalled detection loop goes quiet rather
// than repeating itself.
func (h *PointerHandler) broadcast() {
	defer close(h.stopped)

	ticker := time.NewTicker(33 * time.Millisecond) // ~30 FPS
	defer ticker.Stop()

	var lastSeq uint64

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		state := h.pipeline.LatestState()
		if state.Seq == lastSeq {
			continue
		}
		lastSeq = state.Seq

		msg, err := json.Marshal(map[string]any{
			"pointer": state,
			"perf":    h.pipeline.PerfStats(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
