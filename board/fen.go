package board

import (
	"fmt"
	"strings"
)

// FlipTurn toggles the active color field of a FEN string and leaves every
// other field untouched.
func FlipTurn(fen string) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return "", fmt.Errorf("fen %q: missing active color field", fen)
	}
	switch fields[1] {
	case "w":
		fields[1] = "b"
	case "b":
		fields[1] = "w"
	default:
		return "", fmt.Errorf("fen %q: bad active color %q", fen, fields[1])
	}
	return strings.Join(fields, " "), nil
}
