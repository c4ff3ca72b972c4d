package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSuchCell  = errors.New("no such cell")
	ErrIllegalMove = errors.New("illegal move")
	ErrInvariant   = errors.New("board invariant violated")
)

// Board is the read-only view of a position. Cells are addressed either by
// a 1-based linear index n in 1..N*N or by 1-based (row, col).
type Board interface {
	Size() int
	Spots(n int) int
	SpotsAt(r, c int) int
	Color(n int) Color
	ColorAt(r, c int) Color
	NumMoves() int
	NumOfColor(c Color) int
	Exists(n int) bool
	ExistsAt(r, c int) bool
	SqNum(r, c int) int
	Row(n int) int
	Col(n int) int
	// Neighbors returns the neighbor degree of cell n: 2, 3 or 4.
	Neighbors(n int) int
	IsLegal(c Color, n int) bool
	// Winner reports the color owning every cell of the board.
	Winner() (Color, bool)
}

// Adjacent returns the existing grid neighbors of n in the order
// up, down, left, right.
func Adjacent(b Board, n int) []int {
	out := make([]int, 0, 4)
	return appendAdjacent(out, b.Size(), n)
}

func appendAdjacent(out []int, size, n int) []int {
	r, c := (n-1)/size+1, (n-1)%size+1
	if r > 1 {
		out = append(out, n-size)
	}
	if r < size {
		out = append(out, n+size)
	}
	if c > 1 {
		out = append(out, n-1)
	}
	if c < size {
		out = append(out, n+1)
	}
	return out
}

// degree is the number of grid neighbors of (r, c) on a size x size board.
func degree(size, r, c int) int {
	d := 0
	if r > 1 {
		d++
	}
	if r < size {
		d++
	}
	if c > 1 {
		d++
	}
	if c < size {
		d++
	}
	return d
}

// Equal reports whether a and b have the same size, move count and cells.
func Equal(a, b Board) bool {
	if a.Size() != b.Size() || a.NumMoves() != b.NumMoves() {
		return false
	}
	for n := 1; n <= a.Size()*a.Size(); n++ {
		if a.Spots(n) != b.Spots(n) || a.Color(n) != b.Color(n) {
			return false
		}
	}
	return true
}

// Dump renders b one row per line between "===" markers. Empty cells print
// as "--", owned cells as the spot count followed by r or b.
func Dump(b Board) string {
	var sb strings.Builder
	sb.WriteString("===\n")
	for r := 1; r <= b.Size(); r++ {
		sb.WriteString("   ")
		for c := 1; c <= b.Size(); c++ {
			sb.WriteByte(' ')
			switch b.ColorAt(r, c) {
			case PlayerA:
				fmt.Fprintf(&sb, "%dr", b.SpotsAt(r, c))
			case PlayerB:
				fmt.Fprintf(&sb, "%db", b.SpotsAt(r, c))
			default:
				sb.WriteString("--")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("===")
	return sb.String()
}
