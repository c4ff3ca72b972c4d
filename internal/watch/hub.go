package watch

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"jump61/internal/game"
)

// Hub fans game updates out to connected spectators. It implements
// game.Observer and never blocks the game: updates that do not fit in the
// broadcast buffer are dropped, and spectators that fall behind are cut off.
type Hub struct {
	mu        sync.Mutex
	peers     map[*peer]struct{}
	last      []byte
	latest    *game.Snapshot
	broadcast chan []byte
	log       logrus.FieldLogger
}

type peer struct {
	send chan []byte
}

var _ game.Observer = (*Hub)(nil)

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		peers:     make(map[*peer]struct{}),
		broadcast: make(chan []byte, 64),
		log:       log,
	}
}

// Run delivers broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for p := range h.peers {
				delete(h.peers, p)
				close(p.send)
			}
			h.mu.Unlock()
			return
		case data := <-h.broadcast:
			h.mu.Lock()
			for p := range h.peers {
				h.sendLocked(p, data)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) MoveMade(s game.Snapshot) {
	data := mustMarshal(Message{Type: TypeState, GameID: s.GameID, State: &s})
	h.mu.Lock()
	h.last = data
	h.latest = &s
	h.mu.Unlock()
	h.publish(data)
}

func (h *Hub) GameOver(r game.Result) {
	h.publish(mustMarshal(Message{
		Type:        TypeGameEnd,
		GameID:      r.GameID.String(),
		Winner:      r.Winner,
		Termination: r.Termination,
	}))
}

// Latest returns the most recent position seen, if any.
func (h *Hub) Latest() (game.Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return game.Snapshot{}, false
	}
	return *h.latest, true
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

func (h *Hub) publish(data []byte) {
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("spectator broadcast buffer full, dropping update")
	}
}

// register adds p and replays the latest position to it.
func (h *Hub) register(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = struct{}{}
	if h.last != nil {
		h.sendLocked(p, h.last)
	}
}

func (h *Hub) unregister(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		delete(h.peers, p)
		close(p.send)
	}
}

func (h *Hub) replayLatest(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok && h.last != nil {
		h.sendLocked(p, h.last)
	}
}

func (h *Hub) sendLocked(p *peer, data []byte) {
	select {
	case p.send <- data:
	default:
		delete(h.peers, p)
		close(p.send)
		h.log.Warn("spectator too slow, disconnecting")
	}
}
