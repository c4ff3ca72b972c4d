// Package watch streams games to spectators over WebSocket and serves the
// archive over HTTP. Spectators only read; moves are never accepted here.
package watch

import (
	"encoding/json"
	"time"

	"jump61/internal/board"
	"jump61/internal/game"
)

// Message types sent to spectators.
const (
	TypeState   = "state"
	TypeGameEnd = "game_end"
	TypePing    = "ping"
)

type Message struct {
	Type        string         `json:"type"`
	GameID      string         `json:"gameId,omitempty"`
	State       *game.Snapshot `json:"state,omitempty"`
	Winner      board.Color    `json:"winner,omitempty"`
	Termination string         `json:"termination,omitempty"`
}

// GameSummary is the HTTP view of an archived game.
type GameSummary struct {
	ID          string            `json:"id"`
	StartedAt   time.Time         `json:"startedAt"`
	EndedAt     time.Time         `json:"endedAt"`
	Size        int               `json:"size"`
	Red         string            `json:"red"`
	Blue        string            `json:"blue"`
	Winner      board.Color       `json:"winner"`
	Termination string            `json:"termination"`
	Moves       []game.MoveRecord `json:"moves,omitempty"`
}

func summarize(r game.Result, withMoves bool) GameSummary {
	s := GameSummary{
		ID:          r.GameID.String(),
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		Size:        r.Size,
		Red:         r.RedName,
		Blue:        r.BlueName,
		Winner:      r.Winner,
		Termination: r.Termination,
	}
	if withMoves {
		s.Moves = r.Moves
	}
	return s
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
