package game

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MoveSource supplies (row, col) pairs for human players.
type MoveSource interface {
	Next() (r, c int, ok bool)
}

// TextSource reads moves written as "row col" (comma or colon separated
// also works), one per line. Blank lines and lines starting with # are
// skipped, "quit" ends the input.
type TextSource struct {
	scanner *bufio.Scanner
	onError func(msg string)
}

// NewTextSource reads from r. Malformed lines are reported to onError, which
// may be nil, and skipped.
func NewTextSource(r io.Reader, onError func(msg string)) *TextSource {
	if onError == nil {
		onError = func(string) {}
	}
	return &TextSource{scanner: bufio.NewScanner(r), onError: onError}
}

func (s *TextSource) Next() (int, int, bool) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "quit" || line == "q" {
			return 0, 0, false
		}
		r, c, err := parseMove(line)
		if err != nil {
			s.onError(err.Error())
			continue
		}
		return r, c, true
	}
	return 0, 0, false
}

func parseMove(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == ':'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"row col\", got %q", line)
	}
	r, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad row %q", fields[0])
	}
	c, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad column %q", fields[1])
	}
	return r, c, nil
}
