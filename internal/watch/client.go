package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"jump61/internal/game"
)

// Client follows a spectator feed, reconnecting when the connection drops.
type Client struct {
	URL       string
	OnState   func(game.Snapshot)
	OnGameEnd func(Message)
	// Backoff is the delay before reconnecting. Zero means one second.
	Backoff time.Duration

	log logrus.FieldLogger
}

func NewClient(url string, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{URL: url, log: log}
}

// Run reads the feed until ctx is done. It returns ctx.Err() on shutdown.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	for {
		err := c.follow(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.WithError(err).WithField("url", c.URL).Warn("spectator feed lost, reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func (c *Client) follow(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.URL, err)
	}
	defer conn.Close()
	c.log.WithField("url", c.URL).Info("connected to spectator feed")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.WithError(err).Warn("bad spectator message")
			continue
		}
		switch msg.Type {
		case TypePing:
		case TypeState:
			if msg.State == nil {
				continue
			}
			if _, err := msg.State.Board(); err != nil {
				c.log.WithError(err).Warn("dropping malformed position")
				continue
			}
			if c.OnState != nil {
				c.OnState(*msg.State)
			}
		case TypeGameEnd:
			if c.OnGameEnd != nil {
				c.OnGameEnd(msg)
			}
		default:
			c.log.WithField("type", msg.Type).Debug("unknown spectator message")
		}
	}
}
