package archive

import (
	"encoding/json"
	"time"

	"jump61/internal/board"
	"jump61/internal/game"
)

// PGNTurn groups the moves one player made on one turn.
type PGNTurn struct {
	Turn   int         `json:"turn"`
	Player board.Color `json:"player"`
	Moves  []PGNMove   `json:"moves"`
}

type PGNMove struct {
	Type       string `json:"type"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	DurationCS int64  `json:"duration_cs"`
}

const moveTypePlace = "place"

// Turns groups a move list the way it is stored in pgn_content. Jump61
// turns hold a single move; the turn/moves nesting keeps the column readable
// by tools written for multi-move turns.
func Turns(moves []game.MoveRecord) []PGNTurn {
	turns := make([]PGNTurn, 0, len(moves))
	for _, m := range moves {
		last := len(turns) - 1
		if last < 0 || turns[last].Turn != m.Number || turns[last].Player != m.Color {
			turns = append(turns, PGNTurn{Turn: m.Number, Player: m.Color})
			last++
		}
		turns[last].Moves = append(turns[last].Moves, PGNMove{
			Type:       moveTypePlace,
			Row:        m.Row,
			Col:        m.Col,
			DurationCS: m.DurationCS,
		})
	}
	return turns
}

func encodePGN(moves []game.MoveRecord) (string, error) {
	data, err := json.Marshal(Turns(moves))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePGN(content string) ([]game.MoveRecord, error) {
	if content == "" {
		return nil, nil
	}
	var turns []PGNTurn
	if err := json.Unmarshal([]byte(content), &turns); err != nil {
		return nil, err
	}
	var moves []game.MoveRecord
	for _, t := range turns {
		for _, m := range t.Moves {
			moves = append(moves, game.MoveRecord{
				Number:     t.Turn,
				Color:      t.Player,
				Row:        m.Row,
				Col:        m.Col,
				Duration:   time.Duration(m.DurationCS) * 10 * time.Millisecond,
				DurationCS: m.DurationCS,
			})
		}
	}
	return moves, nil
}
