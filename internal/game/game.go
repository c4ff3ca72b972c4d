// Package game drives a match: it owns the authoritative board, asks the
// player to move for whichever color is on turn, and reports moves to
// observers such as the archive and the spectator feed.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jump61/internal/board"
	"jump61/internal/player"
)

var (
	ErrGameOver = errors.New("game is over")
	ErrBadSize  = errors.New("bad board size")
	ErrAborted  = errors.New("game aborted")
)

// MaxSize bounds the board edge accepted by New.
const MaxSize = 32

// Kind selects how a color's moves are produced.
type Kind int

const (
	Human Kind = iota
	AI
)

func (k Kind) String() string {
	if k == AI {
		return "ai"
	}
	return "human"
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "manual":
		return Human, nil
	case "ai", "auto":
		return AI, nil
	}
	return Human, fmt.Errorf("unknown player kind %q", s)
}

type Options struct {
	Size int
	Seed int64
	Red  Kind
	Blue Kind
	// RedName and BlueName default to "Human" or a generated AI name.
	RedName  string
	BlueName string
	// Input feeds human players; nil means they never get a move.
	Input MoveSource
	// Output receives move announcements; nil discards them.
	Output    io.Writer
	Log       logrus.FieldLogger
	Observers []Observer
}

// Game is the referee of a single match. It implements player.Game.
type Game struct {
	id        uuid.UUID
	board     *board.MutableBoard
	players   map[board.Color]player.Player
	names     map[board.Color]string
	rng       *rand.Rand
	input     MoveSource
	out       io.Writer
	log       logrus.FieldLogger
	observers []Observer
	moves     []MoveRecord
	started   time.Time
	turnStart time.Time
}

var _ player.Game = (*Game)(nil)

func New(opts Options) (*Game, error) {
	if opts.Size < board.MinSize || opts.Size > MaxSize {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrBadSize, opts.Size, board.MinSize, MaxSize)
	}
	id := uuid.New()
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	g := &Game{
		id:        id,
		board:     board.NewMutableBoard(opts.Size),
		players:   make(map[board.Color]player.Player, 2),
		names:     make(map[board.Color]string, 2),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		input:     opts.Input,
		out:       out,
		log:       log.WithField("game", id.String()),
		observers: opts.Observers,
	}
	g.setPlayer(board.PlayerA, opts.Red, opts.RedName)
	g.setPlayer(board.PlayerB, opts.Blue, opts.BlueName)
	return g, nil
}

func (g *Game) setPlayer(c board.Color, k Kind, name string) {
	switch k {
	case AI:
		g.players[c] = player.NewAI(g, c, g.rng, g.log)
		if name == "" {
			name = player.RandomName(g.rng)
		}
	default:
		g.players[c] = player.NewHuman(g, c)
		if name == "" {
			name = "Human"
		}
	}
	g.names[c] = name
}

func (g *Game) ID() uuid.UUID { return g.id }

func (g *Game) Board() board.Board { return g.board }

// Turn returns the color to move. Red moves on even move counts.
func (g *Game) Turn() board.Color { return turnOf(g.board) }

func (g *Game) Winner() (board.Color, bool) { return g.board.Winner() }

// Moves returns a copy of the move log.
func (g *Game) Moves() []MoveRecord { return append([]MoveRecord(nil), g.moves...) }

func (g *Game) Name(c board.Color) string { return g.names[c] }

// RandInt returns a uniform integer in [0, bound).
func (g *Game) RandInt(bound int) int { return g.rng.Intn(bound) }

func (g *Game) Message(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(g.out, msg)
	g.log.Debug(msg)
}

func (g *Game) GetMove() (int, int, bool) {
	if g.input == nil {
		return 0, 0, false
	}
	return g.input.Next()
}

// MakeMove plays square n for the color on turn.
func (g *Game) MakeMove(n int) error {
	if _, won := g.board.Winner(); won {
		return ErrGameOver
	}
	c := g.Turn()
	if err := g.board.AddSpot(c, n); err != nil {
		return err
	}

	now := time.Now()
	var took time.Duration
	if !g.turnStart.IsZero() {
		took = now.Sub(g.turnStart)
	}
	rec := MoveRecord{
		Number:     g.board.NumMoves(),
		Color:      c,
		Row:        g.board.Row(n),
		Col:        g.board.Col(n),
		Duration:   took,
		DurationCS: took.Milliseconds() / 10,
	}
	g.moves = append(g.moves, rec)
	g.turnStart = now

	g.log.WithFields(logrus.Fields{
		"color": c.String(),
		"row":   rec.Row,
		"col":   rec.Col,
		"move":  rec.Number,
	}).Debug("move applied")

	snap := SnapshotOf(g.id, g.board)
	snap.Last = &rec
	for _, o := range g.observers {
		o.MoveMade(snap)
	}
	return nil
}

// MakeMoveAt plays (r, c) for the color on turn.
func (g *Game) MakeMoveAt(r, c int) error {
	if !g.board.ExistsAt(r, c) {
		return fmt.Errorf("%w: %d:%d", board.ErrNoSuchCell, r, c)
	}
	return g.MakeMove(g.board.SqNum(r, c))
}

// Undo takes back the last move, if any.
func (g *Game) Undo() {
	if g.board.HistoryLen() == 0 {
		return
	}
	g.board.Undo()
	g.moves = g.moves[:len(g.moves)-1]
	g.log.WithField("moves", g.board.NumMoves()).Debug("move undone")
	snap := SnapshotOf(g.id, g.board)
	for _, o := range g.observers {
		o.MoveMade(snap)
	}
}

// Play runs turns until one color owns the board. Illegal input from a
// human is reported and asked for again; a human running out of input ends
// the game with ErrAborted. Any other player error is fatal.
func (g *Game) Play(ctx context.Context) (board.Color, error) {
	g.started = time.Now()
	g.turnStart = g.started
	g.log.WithFields(logrus.Fields{
		"size": g.board.Size(),
		"red":  g.names[board.PlayerA],
		"blue": g.names[board.PlayerB],
	}).Info("game started")

	for {
		if w, won := g.board.Winner(); won {
			g.Message("%s wins.", capitalize(w.String()))
			g.finish(w, TerminationWin)
			return w, nil
		}
		if err := ctx.Err(); err != nil {
			g.finish(board.None, TerminationAborted)
			return board.None, fmt.Errorf("%w: %v", ErrAborted, err)
		}

		p := g.players[g.Turn()]
		err := p.MakeMove()
		switch {
		case err == nil:
		case errors.Is(err, player.ErrNoMove):
			g.finish(board.None, TerminationAborted)
			return board.None, fmt.Errorf("%w: %s has no more input", ErrAborted, p.Color())
		case isRejected(err):
			if _, ok := p.(*player.Human); ok {
				g.Message("Invalid move: %v", err)
				continue
			}
			g.finish(board.None, TerminationError)
			return board.None, fmt.Errorf("%s played an illegal move: %w", p.Color(), err)
		default:
			g.finish(board.None, TerminationError)
			return board.None, fmt.Errorf("%s failed to move: %w", p.Color(), err)
		}
	}
}

func isRejected(err error) bool {
	return errors.Is(err, board.ErrIllegalMove) || errors.Is(err, board.ErrNoSuchCell)
}

func (g *Game) finish(w board.Color, termination string) {
	res := Result{
		GameID:      g.id,
		StartedAt:   g.started,
		EndedAt:     time.Now(),
		Size:        g.board.Size(),
		RedName:     g.names[board.PlayerA],
		BlueName:    g.names[board.PlayerB],
		Winner:      w,
		Termination: termination,
		Moves:       g.Moves(),
	}
	g.log.WithFields(logrus.Fields{
		"winner":      w.String(),
		"moves":       len(res.Moves),
		"termination": termination,
	}).Info("game ended")
	for _, o := range g.observers {
		o.GameOver(res)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
