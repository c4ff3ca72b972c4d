package selfplay

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"jump61/internal/board"
	"jump61/internal/game"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingObserver struct {
	mu    sync.Mutex
	ended int
}

func (o *countingObserver) MoveMade(game.Snapshot) {}

func (o *countingObserver) GameOver(game.Result) {
	o.mu.Lock()
	o.ended++
	o.mu.Unlock()
}

func aiGames(size int, obs game.Observer) NewGameFunc {
	return func(i int) (*game.Game, error) {
		opts := game.Options{
			Size: size,
			Seed: int64(i + 1),
			Red:  game.AI,
			Blue: game.AI,
			Log:  quietLogger(),
		}
		if obs != nil {
			opts.Observers = []game.Observer{obs}
		}
		return game.New(opts)
	}
}

func TestRunPlaysEveryGame(t *testing.T) {
	tests := []struct {
		name    string
		games   int
		workers int
	}{
		{"serial", 5, 1},
		{"parallel", 12, 4},
		{"more workers than games", 2, 8},
		{"zero workers", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &countingObserver{}
			stats, err := NewPool(quietLogger()).Run(context.Background(), tt.games, tt.workers, aiGames(4, obs))
			if err != nil {
				t.Fatal(err)
			}
			if stats.Games != tt.games {
				t.Errorf("Games = %d, want %d", stats.Games, tt.games)
			}
			if stats.RedWins+stats.BlueWins != tt.games {
				t.Errorf("wins %d+%d, want %d", stats.RedWins, stats.BlueWins, tt.games)
			}
			if stats.Moves < tt.games*2 {
				t.Errorf("Moves = %d, too few for %d games", stats.Moves, tt.games)
			}
			if obs.ended != tt.games {
				t.Errorf("observer saw %d endings, want %d", obs.ended, tt.games)
			}
		})
	}
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	a, err := NewPool(quietLogger()).Run(context.Background(), 6, 3, aiGames(5, nil))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewPool(quietLogger()).Run(context.Background(), 6, 1, aiGames(5, nil))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("parallel %+v != serial %+v", a, b)
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	newGame := func(i int) (*game.Game, error) {
		if i == 0 {
			return nil, boom
		}
		return aiGames(3, nil)(i)
	}
	_, err := NewPool(quietLogger()).Run(context.Background(), 4, 1, newGame)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want boom", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := NewPool(quietLogger()).Run(ctx, 3, 1, aiGames(4, nil))
	if err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if stats.Games != 0 {
		t.Errorf("Games = %d after cancel, want 0", stats.Games)
	}
}

func TestStatsWins(t *testing.T) {
	s := Stats{RedWins: 2, BlueWins: 5}
	if s.Wins(board.PlayerA) != 2 || s.Wins(board.PlayerB) != 5 || s.Wins(board.None) != 0 {
		t.Errorf("Wins() wrong for %+v", s)
	}
}
