package player

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"jump61/internal/board"
)

// scriptedGame is a minimal Game backed by a real board.
type scriptedGame struct {
	b        *board.MutableBoard
	turn     board.Color
	inputs   [][2]int
	messages []string
}

func newScriptedGame(size int, turn board.Color) *scriptedGame {
	return &scriptedGame{b: board.NewMutableBoard(size), turn: turn}
}

func (g *scriptedGame) Board() board.Board { return g.b }

func (g *scriptedGame) Message(format string, args ...any) {
	g.messages = append(g.messages, fmt.Sprintf(format, args...))
}

func (g *scriptedGame) MakeMove(n int) error { return g.b.AddSpot(g.turn, n) }

func (g *scriptedGame) MakeMoveAt(r, c int) error { return g.b.AddSpotAt(g.turn, r, c) }

func (g *scriptedGame) GetMove() (int, int, bool) {
	if len(g.inputs) == 0 {
		return 0, 0, false
	}
	m := g.inputs[0]
	g.inputs = g.inputs[1:]
	return m[0], m[1], true
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestAI(g *scriptedGame, c board.Color, seed int64) *AI {
	return NewAI(g, c, rand.New(rand.NewSource(seed)), quietLogger())
}

func TestAIPrefersCornersOnEmptyBoard(t *testing.T) {
	for size := 3; size <= 7; size++ {
		for seed := int64(0); seed < 20; seed++ {
			g := newScriptedGame(size, board.PlayerA)
			n, err := newTestAI(g, board.PlayerA, seed).ChooseMove(g.b)
			if err != nil {
				t.Fatal(err)
			}
			if g.b.Neighbors(n) != 2 {
				t.Fatalf("size %d seed %d: first move %d:%d is not a corner", size, seed, g.b.Row(n), g.b.Col(n))
			}
		}
	}
}

func TestAITakesRemainingCorner(t *testing.T) {
	g := newScriptedGame(4, board.PlayerB)
	g.b.Set(1, 1, board.PlayerA)
	g.b.Set(4, 1, board.PlayerA)
	g.b.Set(13, 1, board.PlayerB)
	n, err := newTestAI(g, board.PlayerB, 1).ChooseMove(g.b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 16 {
		t.Errorf("ChooseMove = %d, want the free corner 16", n)
	}
}

func TestAIStructuralScan(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *board.MutableBoard)
		want  int
	}{
		{
			name: "empty border square away from the opponent",
			setup: func(b *board.MutableBoard) {
				b.Set(1, 1, board.PlayerA)
				b.Set(3, 1, board.PlayerA)
				b.Set(7, 1, board.PlayerB)
				b.Set(9, 1, board.PlayerB)
			},
			want: 2,
		},
		{
			name: "reinforce own square as close to overflow as an opponent neighbor",
			setup: func(b *board.MutableBoard) {
				b.Set(1, 1, board.PlayerA)
				b.Set(3, 1, board.PlayerB)
				b.Set(7, 1, board.PlayerA)
				b.Set(9, 1, board.PlayerA)
				b.Set(4, 2, board.PlayerA)
				b.Set(5, 3, board.PlayerB)
			},
			want: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 5; seed++ {
				g := newScriptedGame(3, board.PlayerA)
				tt.setup(g.b)
				n, err := newTestAI(g, board.PlayerA, seed).ChooseMove(g.b)
				if err != nil {
					t.Fatal(err)
				}
				if n != tt.want {
					t.Fatalf("ChooseMove = %d, want %d\n%s", n, tt.want, g.b)
				}
			}
		})
	}
}

func TestAIFallbackPicksBestTrial(t *testing.T) {
	g := newScriptedGame(3, board.PlayerA)
	g.b.Set(1, 1, board.PlayerB)
	g.b.Set(3, 1, board.PlayerB)
	g.b.Set(7, 1, board.PlayerB)
	g.b.Set(9, 2, board.PlayerA)
	before := board.NewMutableBoardFrom(g.b, false)

	ai := newTestAI(g, board.PlayerA, 3)
	if moves := ai.generateMoves(board.NewMutableBoardFrom(g.b, false)); len(moves) != 0 {
		t.Fatalf("expected no heuristic candidates, got %v", moves)
	}
	n, err := ai.ChooseMove(g.b)
	if err != nil {
		t.Fatal(err)
	}
	if want := bestTrial(g.b, board.PlayerA); n != want {
		t.Errorf("ChooseMove = %d, want %d", n, want)
	}
	if n != 9 {
		t.Errorf("ChooseMove = %d, want the overflowing corner 9", n)
	}
	if !board.Equal(before, g.b) {
		t.Error("ChooseMove modified the game board")
	}
}

func TestAIFallbackTiePicksLowestSquare(t *testing.T) {
	g := newScriptedGame(3, board.PlayerA)
	for _, corner := range []int{1, 3, 7, 9} {
		g.b.Set(corner, 1, board.PlayerB)
	}
	g.b.Set(5, 1, board.PlayerA)

	ai := newTestAI(g, board.PlayerA, 5)
	if moves := ai.generateMoves(board.NewMutableBoardFrom(g.b, false)); len(moves) != 0 {
		t.Fatalf("expected no heuristic candidates, got %v", moves)
	}
	for _, n := range []int{2, 4, 6, 8} {
		trial := board.NewMutableBoardFrom(g.b, false)
		if err := trial.AddSpot(board.PlayerA, n); err != nil {
			t.Fatal(err)
		}
		if got := trial.NumOfColor(board.PlayerA); got != 2 {
			t.Fatalf("square %d leaves red with %d squares, want 2", n, got)
		}
	}
	n, err := ai.ChooseMove(g.b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("ChooseMove = %d, want 2 (lowest of the tied squares)", n)
	}
}

func TestAIFallbackRandomWhenNothingImproves(t *testing.T) {
	g := newScriptedGame(2, board.PlayerA)
	g.b.Set(1, 1, board.PlayerA)
	g.b.Set(2, 1, board.PlayerB)
	g.b.Set(3, 1, board.PlayerB)
	g.b.Set(4, 1, board.PlayerB)
	for seed := int64(0); seed < 5; seed++ {
		n, err := newTestAI(g, board.PlayerA, seed).ChooseMove(g.b)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Fatalf("ChooseMove = %d, want the only legal square 1", n)
		}
	}
}

func TestAINoLegalMove(t *testing.T) {
	g := newScriptedGame(2, board.PlayerA)
	for n := 1; n <= 4; n++ {
		g.b.Set(n, 1, board.PlayerB)
	}
	_, err := newTestAI(g, board.PlayerA, 0).ChooseMove(g.b)
	if !errors.Is(err, ErrNoLegalMove) {
		t.Errorf("err = %v, want ErrNoLegalMove", err)
	}
}

func TestAIMakeMoveSubmits(t *testing.T) {
	g := newScriptedGame(3, board.PlayerB)
	if err := newTestAI(g, board.PlayerB, 7).MakeMove(); err != nil {
		t.Fatal(err)
	}
	if g.b.NumMoves() != 1 || g.b.NumOfColor(board.PlayerB) != 1 {
		t.Fatalf("AI move not applied:\n%s", g.b)
	}
	if len(g.messages) != 1 || !strings.HasPrefix(g.messages[0], "blue moves ") {
		t.Errorf("messages = %q", g.messages)
	}
}

func TestAISelfPlayStaysLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := newScriptedGame(4, board.PlayerA)
	players := map[board.Color]*AI{
		board.PlayerA: NewAI(g, board.PlayerA, rng, quietLogger()),
		board.PlayerB: NewAI(g, board.PlayerB, rng, quietLogger()),
	}
	for i := 0; i < 2000; i++ {
		if _, won := g.b.Winner(); won {
			return
		}
		if err := players[g.turn].MakeMove(); err != nil {
			t.Fatalf("move %d: %v\n%s", i, err, g.b)
		}
		g.turn = g.turn.Opposite()
	}
	t.Fatalf("no winner after 2000 moves\n%s", g.b)
}

func TestHumanSubmitsInput(t *testing.T) {
	g := newScriptedGame(3, board.PlayerA)
	g.inputs = [][2]int{{2, 3}, {5, 5}}
	h := NewHuman(g, board.PlayerA)
	if err := h.MakeMove(); err != nil {
		t.Fatal(err)
	}
	if g.b.SpotsAt(2, 3) != 1 {
		t.Errorf("human move not applied")
	}
	if err := h.MakeMove(); !errors.Is(err, board.ErrNoSuchCell) {
		t.Errorf("off-board input: err = %v, want ErrNoSuchCell", err)
	}
	if err := h.MakeMove(); !errors.Is(err, ErrNoMove) {
		t.Errorf("exhausted input: err = %v, want ErrNoMove", err)
	}
	if h.Color() != board.PlayerA {
		t.Errorf("Color() = %s", h.Color())
	}
}

func TestRandomName(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	name := RandomName(rng)
	if name == "" || strings.ContainsAny(name, " \t") {
		t.Errorf("RandomName() = %q", name)
	}
}

// bestTrial is the brute-force reference for the fallback search.
func bestTrial(b board.Board, c board.Color) int {
	best, move := b.NumOfColor(c), 0
	for n := 1; n <= b.Size()*b.Size(); n++ {
		if !b.IsLegal(c, n) {
			continue
		}
		trial := board.NewMutableBoardFrom(b, false)
		if err := trial.AddSpot(c, n); err != nil {
			panic(err)
		}
		if got := trial.NumOfColor(c); got > best {
			best, move = got, n
		}
	}
	return move
}
