// Package player holds the move producers: a human reading moves from the
// game's input and an automated player.
package player

import (
	"errors"

	"jump61/internal/board"
)

var (
	// ErrNoMove means the human input source was exhausted.
	ErrNoMove = errors.New("no move available from input")
	// ErrNoLegalMove means the automated player found no legal square on a
	// board that has no winner. It indicates a bug upstream.
	ErrNoLegalMove = errors.New("no legal move on unfinished board")
)

// Game is the part of the running game a player talks to.
type Game interface {
	// Board returns the authoritative position. Players must not mutate it.
	Board() board.Board
	Message(format string, args ...any)
	MakeMove(n int) error
	MakeMoveAt(r, c int) error
	// GetMove reads the next (row, col) from the game's input source.
	GetMove() (r, c int, ok bool)
}

// Rand is the randomness an automated player consumes. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

// Player produces the next move for one color.
type Player interface {
	Color() board.Color
	MakeMove() error
}

type base struct {
	game  Game
	color board.Color
}

func (p *base) Color() board.Color { return p.color }
