package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"jump61/internal/board"
)

// MoveRecord is one applied move.
type MoveRecord struct {
	Number   int           `json:"turn"`
	Color    board.Color   `json:"player"`
	Row      int           `json:"row"`
	Col      int           `json:"col"`
	Duration time.Duration `json:"-"`
	// DurationCS is the thinking time in centiseconds.
	DurationCS int64 `json:"duration_cs"`
}

// Snapshot is an immutable copy of a position, handed to observers.
type Snapshot struct {
	GameID string        `json:"gameId"`
	Size   int           `json:"size"`
	Spots  []int         `json:"spots"`
	Colors []board.Color `json:"colors"`
	Moves  int           `json:"moves"`
	Turn   board.Color   `json:"turn"`
	Winner board.Color   `json:"winner"`
	Last   *MoveRecord   `json:"last,omitempty"`
}

// Result summarizes a finished or abandoned game.
type Result struct {
	GameID      uuid.UUID
	StartedAt   time.Time
	EndedAt     time.Time
	Size        int
	RedName     string
	BlueName    string
	Winner      board.Color
	Termination string
	Moves       []MoveRecord
}

// Observer is notified after every applied move and once when the game
// ends. Implementations must not block for long; Play waits for them.
type Observer interface {
	MoveMade(s Snapshot)
	GameOver(r Result)
}

const (
	TerminationWin     = "win"
	TerminationAborted = "aborted"
	TerminationError   = "error"
)

// SnapshotOf copies b into a Snapshot.
func SnapshotOf(id uuid.UUID, b board.Board) Snapshot {
	n := b.Size() * b.Size()
	s := Snapshot{
		GameID: id.String(),
		Size:   b.Size(),
		Spots:  make([]int, n),
		Colors: make([]board.Color, n),
		Moves:  b.NumMoves(),
		Turn:   turnOf(b),
	}
	for i := 0; i < n; i++ {
		s.Spots[i] = b.Spots(i + 1)
		s.Colors[i] = b.Color(i + 1)
	}
	if w, won := b.Winner(); won {
		s.Winner = w
	}
	return s
}

// Board rebuilds the position, move count included. Snapshots received from
// the network may be malformed, so sizes and cell counts are checked.
func (s Snapshot) Board() (*board.MutableBoard, error) {
	if s.Size < board.MinSize || s.Size > MaxSize {
		return nil, fmt.Errorf("%w: snapshot size %d", ErrBadSize, s.Size)
	}
	cells := s.Size * s.Size
	if len(s.Spots) != cells || len(s.Colors) != cells {
		return nil, fmt.Errorf("snapshot has %d spots and %d colors for %d squares",
			len(s.Spots), len(s.Colors), cells)
	}
	b := board.NewMutableBoard(s.Size)
	for i := range s.Spots {
		b.Set(i+1, s.Spots[i], s.Colors[i])
	}
	b.SetMoves(s.Moves)
	return b, nil
}

func turnOf(b board.Board) board.Color {
	if b.NumMoves()%2 == 0 {
		return board.PlayerA
	}
	return board.PlayerB
}
