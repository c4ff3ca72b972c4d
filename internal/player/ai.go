package player

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"jump61/internal/board"
)

// AI is an automated player. It prefers free corners, then safe border
// squares, and otherwise falls back to a one-ply search for the move that
// leaves it owning the most squares. All evaluation happens on a private
// copy of the game's board.
type AI struct {
	base
	rng Rand
	log logrus.FieldLogger
}

func NewAI(game Game, color board.Color, rng Rand, log logrus.FieldLogger) *AI {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AI{
		base: base{game: game, color: color},
		rng:  rng,
		log:  log.WithField("color", color.String()),
	}
}

// MakeMove picks a square, announces it and submits it to the game.
func (ai *AI) MakeMove() error {
	b := ai.game.Board()
	n, err := ai.ChooseMove(b)
	if err != nil {
		return err
	}
	ai.game.Message("%s moves %d %d.", ai.color, b.Row(n), b.Col(n))
	return ai.game.MakeMove(n)
}

// ChooseMove returns the square the AI would play on b without touching b.
func (ai *AI) ChooseMove(b board.Board) (int, error) {
	scratch := board.NewMutableBoardFrom(b, false)
	if moves := ai.generateMoves(scratch); len(moves) > 0 {
		n := moves[ai.rng.Intn(len(moves))]
		ai.log.WithFields(logrus.Fields{
			"candidates": len(moves),
			"square":     n,
		}).Debug("picked heuristic move")
		return n, nil
	}
	return ai.lastResort(scratch)
}

// generateMoves returns the free corners if there are any, otherwise the
// border squares that pass checkNeighbors.
func (ai *AI) generateMoves(b *board.MutableBoard) []int {
	n := b.Size()
	var moves []int
	for _, corner := range []int{1, n, n*n - n + 1, n * n} {
		if b.Spots(corner) == 0 {
			moves = append(moves, corner)
		}
	}
	if len(moves) > 0 {
		return moves
	}

	opp := ai.color.Opposite()
	for r := 1; r <= n; r++ {
		if r == 1 || r == n {
			for c := 2; c < n; c++ {
				s := b.SqNum(r, c)
				if b.Spots(s) == 0 && ai.checkNeighbors(b, s) {
					moves = append(moves, s)
				}
			}
			continue
		}
		for _, c := range []int{1, n} {
			s := b.SqNum(r, c)
			if b.Color(s) != opp && ai.checkNeighbors(b, s) {
				moves = append(moves, s)
			}
		}
	}
	return moves
}

// checkNeighbors accepts an empty square s when no neighbor belongs to the
// opponent. A square we already own is accepted only when it is at least as
// close to overflowing as some opponent neighbor.
func (ai *AI) checkNeighbors(b *board.MutableBoard, s int) bool {
	opp := ai.color.Opposite()
	adj := board.Adjacent(b, s)
	if b.Color(s) == ai.color {
		x := b.Neighbors(s) - b.Spots(s)
		for _, e := range adj {
			if b.Color(e) == opp && b.Neighbors(e)-b.Spots(e) >= x {
				return true
			}
		}
		return false
	}
	for _, e := range adj {
		if b.Color(e) == opp {
			return false
		}
	}
	return true
}

// lastResort tries every legal square on b, keeping the first one that
// maximizes our square count. If nothing beats the current count it plays a
// random legal square.
func (ai *AI) lastResort(b *board.MutableBoard) (int, error) {
	total := b.Size() * b.Size()
	best := b.NumOfColor(ai.color)
	move, legal := 0, 0
	for n := 1; n <= total; n++ {
		if !b.IsLegal(ai.color, n) {
			continue
		}
		legal++
		if err := b.AddSpot(ai.color, n); err != nil {
			return 0, fmt.Errorf("simulating %d: %w", n, err)
		}
		if cur := b.NumOfColor(ai.color); cur > best {
			best, move = cur, n
		}
		b.Undo()
	}
	if legal == 0 {
		return 0, fmt.Errorf("%s after %d moves: %w", ai.color, b.NumMoves(), ErrNoLegalMove)
	}
	if move > 0 {
		ai.log.WithFields(logrus.Fields{"square": move, "owned": best}).Debug("picked searched move")
		return move, nil
	}
	for {
		n := ai.rng.Intn(total) + 1
		if b.IsLegal(ai.color, n) {
			ai.log.WithField("square", n).Debug("picked random move")
			return n, nil
		}
	}
}
