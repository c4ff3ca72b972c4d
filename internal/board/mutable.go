package board

import "fmt"

// MinSize is the smallest supported board edge.
const MinSize = 2

// MutableBoard is the concrete, mutable board. It is not safe for
// concurrent use; each game and each AI scratch copy owns its own.
type MutableBoard struct {
	size   int
	moves  int
	spots  []int
	colors []Color
	// owned counts cells per color, None included, so Winner is O(1).
	owned [3]int

	history []undoInfo
	// rec is the history entry being filled while a move is applied.
	rec *undoInfo
}

var _ Board = (*MutableBoard)(nil)

// NewMutableBoard returns an empty n x n board. It panics if n < MinSize.
func NewMutableBoard(n int) *MutableBoard {
	b := &MutableBoard{}
	b.Clear(n)
	return b
}

// NewMutableBoardFrom returns a deep copy of src. The undo history is kept
// only if keepHistory is set and src is a *MutableBoard.
func NewMutableBoardFrom(src Board, keepHistory bool) *MutableBoard {
	b := &MutableBoard{}
	b.copyFrom(src, keepHistory)
	return b
}

// Clear resets b to an empty n x n board with no moves and no history.
func (b *MutableBoard) Clear(n int) {
	if n < MinSize {
		panic(fmt.Sprintf("board: invalid size %d", n))
	}
	b.size = n
	b.moves = 0
	b.spots = make([]int, n*n)
	b.colors = make([]Color, n*n)
	b.owned = [3]int{None: n * n}
	b.history = nil
	b.rec = nil
}

// Copy makes b a deep copy of src, including its undo history when src is
// a *MutableBoard.
func (b *MutableBoard) Copy(src Board) { b.copyFrom(src, true) }

func (b *MutableBoard) copyFrom(src Board, keepHistory bool) {
	if src == Board(b) {
		return
	}
	n := src.Size()
	b.size = n
	b.moves = src.NumMoves()
	b.spots = make([]int, n*n)
	b.colors = make([]Color, n*n)
	b.owned = [3]int{}
	for i := range b.spots {
		b.spots[i] = src.Spots(i + 1)
		b.colors[i] = src.Color(i + 1)
		b.owned[b.colors[i]]++
	}
	b.history = nil
	b.rec = nil
	if m, ok := src.(*MutableBoard); ok && keepHistory {
		b.history = cloneHistory(m.history)
	}
}

func (b *MutableBoard) Size() int { return b.size }

func (b *MutableBoard) Spots(n int) int { return b.spots[n-1] }

func (b *MutableBoard) SpotsAt(r, c int) int { return b.spots[b.SqNum(r, c)-1] }

func (b *MutableBoard) Color(n int) Color { return b.colors[n-1] }

func (b *MutableBoard) ColorAt(r, c int) Color { return b.colors[b.SqNum(r, c)-1] }

func (b *MutableBoard) NumMoves() int { return b.moves }

func (b *MutableBoard) NumOfColor(c Color) int {
	if c < None || c > PlayerB {
		return 0
	}
	return b.owned[c]
}

func (b *MutableBoard) Exists(n int) bool { return n >= 1 && n <= b.size*b.size }

func (b *MutableBoard) ExistsAt(r, c int) bool {
	return r >= 1 && r <= b.size && c >= 1 && c <= b.size
}

func (b *MutableBoard) SqNum(r, c int) int { return (r-1)*b.size + c }

func (b *MutableBoard) Row(n int) int { return (n-1)/b.size + 1 }

func (b *MutableBoard) Col(n int) int { return (n-1)%b.size + 1 }

func (b *MutableBoard) Neighbors(n int) int { return degree(b.size, b.Row(n), b.Col(n)) }

func (b *MutableBoard) IsLegal(c Color, n int) bool {
	if c != PlayerA && c != PlayerB || !b.Exists(n) {
		return false
	}
	owner := b.colors[n-1]
	return owner == None || owner == c
}

func (b *MutableBoard) Winner() (Color, bool) {
	total := b.size * b.size
	switch {
	case b.owned[PlayerA] == total:
		return PlayerA, true
	case b.owned[PlayerB] == total:
		return PlayerB, true
	}
	return None, false
}

// SetMoves overwrites the move count, as when rebuilding a position that
// was not reached by AddSpot on this board. Negative counts are ignored.
func (b *MutableBoard) SetMoves(n int) {
	if n < 0 {
		return
	}
	b.moves = n
}

// HistoryLen returns the number of moves that Undo can revert.
func (b *MutableBoard) HistoryLen() int { return len(b.history) }

// AddSpot plays one spot of color c on cell n and resolves the resulting
// cascade. Requests for cells that do not exist or are owned by the
// opponent are rejected with ErrNoSuchCell or ErrIllegalMove and leave the
// board untouched. If propagation leaves the board inconsistent the move is
// rolled back and an error wrapping ErrInvariant is returned.
func (b *MutableBoard) AddSpot(c Color, n int) error {
	if !b.Exists(n) {
		return fmt.Errorf("%w: square %d on a %dx%d board", ErrNoSuchCell, n, b.size, b.size)
	}
	if !b.IsLegal(c, n) {
		return fmt.Errorf("%w: %s cannot play %d:%d (owned by %s)",
			ErrIllegalMove, c, b.Row(n), b.Col(n), b.colors[n-1])
	}

	b.history = append(b.history, undoInfo{moves: b.moves})
	b.rec = &b.history[len(b.history)-1]
	b.set(n, b.spots[n-1]+1, c)
	b.moves++
	b.jump(n)
	b.rec = nil

	if err := b.verify(); err != nil {
		b.Undo()
		return err
	}
	return nil
}

// AddSpotAt is AddSpot addressed by row and column.
func (b *MutableBoard) AddSpotAt(c Color, r, col int) error {
	if !b.ExistsAt(r, col) {
		return fmt.Errorf("%w: %d:%d on a %dx%d board", ErrNoSuchCell, r, col, b.size, b.size)
	}
	return b.AddSpot(c, b.SqNum(r, col))
}

// Set overwrites cell n if it exists. A spot count of zero clears the
// owner regardless of c; negative counts and unknown colors are ignored.
func (b *MutableBoard) Set(n, spots int, c Color) {
	if !b.Exists(n) || spots < 0 || c < None || c > PlayerB {
		return
	}
	b.set(n, spots, c)
}

// SetAt is Set addressed by row and column.
func (b *MutableBoard) SetAt(r, col, spots int, c Color) {
	if !b.ExistsAt(r, col) {
		return
	}
	b.Set(b.SqNum(r, col), spots, c)
}

func (b *MutableBoard) set(n, spots int, c Color) {
	if spots == 0 {
		c = None
	}
	i := n - 1
	if b.rec != nil {
		b.rec.changed = append(b.rec.changed, undoCell{n: n, spots: b.spots[i], color: b.colors[i]})
	}
	b.owned[b.colors[i]]--
	b.spots[i] = spots
	b.colors[i] = c
	b.owned[c]++
}

// verify checks the cell invariants after a move. Overfull cells are only
// an error when the cascade was not cut short by a win.
func (b *MutableBoard) verify() error {
	_, won := b.Winner()
	for i, s := range b.spots {
		n := i + 1
		switch {
		case s < 0:
			return fmt.Errorf("%w: square %d has %d spots", ErrInvariant, n, s)
		case (s == 0) != (b.colors[i] == None):
			return fmt.Errorf("%w: square %d has %d spots owned by %s", ErrInvariant, n, s, b.colors[i])
		case !won && s > b.Neighbors(n):
			return fmt.Errorf("%w: square %d still overfull (%d > %d)", ErrInvariant, n, s, b.Neighbors(n))
		}
	}
	return nil
}

func (b *MutableBoard) String() string { return Dump(b) }
