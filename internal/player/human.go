package player

import "jump61/internal/board"

// Human takes its moves from the game's input source.
type Human struct {
	base
}

func NewHuman(game Game, color board.Color) *Human {
	return &Human{base{game: game, color: color}}
}

// MakeMove submits the next input move unchanged. Legality is checked by
// the game.
func (h *Human) MakeMove() error {
	r, c, ok := h.game.GetMove()
	if !ok {
		return ErrNoMove
	}
	return h.game.MakeMoveAt(r, c)
}
