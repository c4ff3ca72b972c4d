package board

// undoCell is the prior state of one cell written during a move.
type undoCell struct {
	n     int
	spots int
	color Color
}

// undoInfo reverts one move: the move count before it and every cell write
// it made, in order.
type undoInfo struct {
	moves   int
	changed []undoCell
}

// Undo reverts the most recent AddSpot. It does nothing when there is no
// history.
func (b *MutableBoard) Undo() {
	if len(b.history) == 0 {
		return
	}
	u := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	for i := len(u.changed) - 1; i >= 0; i-- {
		c := u.changed[i]
		b.set(c.n, c.spots, c.color)
	}
	b.moves = u.moves
}

func cloneHistory(h []undoInfo) []undoInfo {
	if len(h) == 0 {
		return nil
	}
	out := make([]undoInfo, len(h))
	for i, u := range h {
		out[i] = undoInfo{moves: u.moves, changed: append([]undoCell(nil), u.changed...)}
	}
	return out
}
