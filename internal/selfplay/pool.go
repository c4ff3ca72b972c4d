// Package selfplay runs many AI-versus-AI games side by side.
package selfplay

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"jump61/internal/board"
	"jump61/internal/game"
)

// NewGameFunc builds the i-th game of a run. Each call must return a game
// with its own board and random source.
type NewGameFunc func(i int) (*game.Game, error)

type Stats struct {
	Games    int
	RedWins  int
	BlueWins int
	Moves    int
}

// Wins returns the number of games won by c.
func (s Stats) Wins(c board.Color) int {
	switch c {
	case board.PlayerA:
		return s.RedWins
	case board.PlayerB:
		return s.BlueWins
	}
	return 0
}

type Pool struct {
	log logrus.FieldLogger

	mu    sync.Mutex
	stats Stats
}

func NewPool(log logrus.FieldLogger) *Pool {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pool{log: log}
}

// Run plays games games with at most workers in flight. The first game to
// fail cancels the rest; the stats of games finished so far are returned
// with the error.
func (p *Pool) Run(ctx context.Context, games, workers int, newGame NewGameFunc) (Stats, error) {
	if games < 1 {
		return Stats{}, nil
	}
	if workers < 1 {
		workers = 1
	}
	p.log.WithFields(logrus.Fields{"games": games, "workers": workers}).Info("starting self-play")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			return p.play(ctx, i, newGame)
		})
	}
	err := g.Wait()

	p.mu.Lock()
	stats := p.stats
	p.stats = Stats{}
	p.mu.Unlock()

	p.log.WithFields(logrus.Fields{
		"games": stats.Games,
		"red":   stats.RedWins,
		"blue":  stats.BlueWins,
		"moves": stats.Moves,
	}).Info("self-play finished")
	return stats, err
}

func (p *Pool) play(ctx context.Context, i int, newGame NewGameFunc) error {
	gm, err := newGame(i)
	if err != nil {
		return fmt.Errorf("game %d: %w", i+1, err)
	}
	winner, err := gm.Play(ctx)
	if err != nil {
		return fmt.Errorf("game %d: %w", i+1, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Games++
	p.stats.Moves += gm.Board().NumMoves()
	switch winner {
	case board.PlayerA:
		p.stats.RedWins++
	case board.PlayerB:
		p.stats.BlueWins++
	}
	return nil
}
