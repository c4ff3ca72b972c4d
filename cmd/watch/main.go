// Command watch follows a running jump61 game from another terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"jump61/internal/board"
	"jump61/internal/game"
	"jump61/internal/watch"
)

func main() {
	url := flag.String("url", "ws://localhost:8061/ws", "spectator feed URL")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logrus.New()
	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		log.WithError(err).Fatal("bad -log-level")
	}
	log.SetLevel(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := watch.NewClient(*url, log)
	c.OnState = func(s game.Snapshot) {
		fmt.Printf("Game %s, move %d, %s to play\n", s.GameID, s.Moves, s.Turn)
		if s.Last != nil {
			fmt.Printf("%s played %d %d\n", s.Last.Color, s.Last.Row, s.Last.Col)
		}
		b, err := s.Board()
		if err != nil {
			log.WithError(err).Warn("bad position from feed")
			return
		}
		fmt.Println(board.Dump(b))
	}
	c.OnGameEnd = func(m watch.Message) {
		if m.Winner == board.None {
			fmt.Printf("Game %s ended: %s\n", m.GameID, m.Termination)
			return
		}
		fmt.Printf("Game %s ended: %s wins\n", m.GameID, m.Winner)
	}

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("watch stopped")
	}
}
