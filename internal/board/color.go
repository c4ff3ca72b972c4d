package board

import (
	"fmt"
	"strings"
)

// Color identifies the owner of a cell. None marks an unowned cell.
type Color int

const (
	None Color = iota
	PlayerA
	PlayerB
)

// Opposite returns the other player's color. None has no opposite.
func (c Color) Opposite() Color {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return None
}

func (c Color) String() string {
	switch c {
	case PlayerA:
		return "red"
	case PlayerB:
		return "blue"
	}
	return "none"
}

// ParseColor accepts the display names as well as "a"/"b".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r", "a":
		return PlayerA, nil
	case "blue", "b":
		return PlayerB, nil
	case "none", "":
		return None, nil
	}
	return None, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
