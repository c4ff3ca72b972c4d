package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"jump61/internal/archive"
	"jump61/internal/game"
)

const idlePingInterval = 30 * time.Second

// Games is the archive view served over HTTP. *archive.Store satisfies it.
type Games interface {
	List(ctx context.Context) ([]game.Result, error)
	Get(ctx context.Context, id uuid.UUID) (game.Result, error)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// NewRouter serves the spectator feed on /ws, the current position on
// /state and, when games is not nil, the archive on /games.
func NewRouter(hub *Hub, games Games, log logrus.FieldLogger) http.Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(noCacheMiddleware)

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWS(hub, w, req, log)
	})
	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		snap, ok := hub.Latest()
		if !ok {
			http.Error(w, "no game in progress", http.StatusNotFound)
			return
		}
		writeJSON(w, snap)
	})

	if games != nil {
		r.Get("/games", func(w http.ResponseWriter, req *http.Request) {
			list, err := games.List(req.Context())
			if err != nil {
				log.WithError(err).Error("list games")
				http.Error(w, "archive unavailable", http.StatusInternalServerError)
				return
			}
			out := make([]GameSummary, 0, len(list))
			for _, g := range list {
				out = append(out, summarize(g, false))
			}
			writeJSON(w, out)
		})
		r.Get("/games/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, err := uuid.Parse(chi.URLParam(req, "id"))
			if err != nil {
				http.Error(w, "bad game id", http.StatusBadRequest)
				return
			}
			g, err := games.Get(req.Context(), id)
			switch {
			case errors.Is(err, archive.ErrNotFound):
				http.Error(w, "game not found", http.StatusNotFound)
				return
			case err != nil:
				log.WithError(err).Error("get game")
				http.Error(w, "archive unavailable", http.StatusInternalServerError)
				return
			}
			writeJSON(w, summarize(g, true))
		})
	}
	return r
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request, log logrus.FieldLogger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	p := &peer{send: make(chan []byte, 16)}
	hub.register(p)

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, p.send, log); err != nil {
			log.WithError(err).Debug("spectator write")
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			hub.unregister(p)
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "request_state" {
			hub.replayLatest(p)
		}
	}
}

func writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte, log logrus.FieldLogger) error {
	ticker := time.NewTicker(idlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(Message{Type: TypePing})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				if err := conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					log.WithError(err).Debug("spectator close")
				}
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < idlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

// noCacheMiddleware keeps browsers from showing stale positions.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start),
				"request_id": middleware.GetReqID(r.Context()),
			}).Debug("http request")
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
