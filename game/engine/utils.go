package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDirection = errors.New("invalid direction")

// HasAnyMove reports whether some direction can still change the board: a cell
// is empty or equals its right or bottom neighbour.
func HasAnyMove(b Board) bool {
	n := b.size
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := b.Get(r, c)
			if v == 0 {
				return true
			}
			if c < n-1 && v == b.Get(r, c+1) {
				return true
			}
			if r < n-1 && v == b.Get(r+1, c) {
				return true
			}
		}
	}
	return false
}

// ContainsValue reports whether any cell holds target
func ContainsValue(b Board, target int) bool {
	for _, v := range b.cells {
		if v == target {
			return true
		}
	}
	return false
}

// MaxTile returns the largest tile on the board, 0 for an empty board
func MaxTile(b Board) int {
	best := 0
	for _, v := range b.cells {
		if v > best {
			best = v
		}
	}
	return best
}

// IsPowerOfTwo reports whether v is a positive power of two greater than 1
func IsPowerOfTwo(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// IsValidBoardSize reports whether size is within the supported bounds
func IsValidBoardSize(size int) bool {
	return size >= MinBoardSize && size <= MaxBoardSize
}

// keyDirections maps direction names and keyboard keys to directions
var keyDirections = map[string]Direction{
	"up":         Up,
	"down":       Down,
	"left":       Left,
	"right":      Right,
	"w":          Up,
	"s":          Down,
	"a":          Left,
	"d":          Right,
	"arrowup":    Up,
	"arrowdown":  Down,
	"arrowleft":  Left,
	"arrowright": Right,
}

// ParseDirection accepts direction names, WASD keys and arrow key names, case-insensitive
func ParseDirection(s string) (Direction, error) {
	if dir, ok := keyDirections[strings.ToLower(strings.TrimSpace(s))]; ok {
		return dir, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MaxReachableTile is the largest tile a board of the given size can ever
// hold: every cell filled with a descending chain and a 4 spawned into the last one.
func MaxReachableTile(size int) int {
	exp := size*size + 1
	if exp >= 62 {
		return int(^uint(0) >> 1)
	}
	return 1 << uint(exp)
}

// CheckScoreTemplate reports an error unless msg has exactly one printf verb
// and that verb is an integer (%d, optionally with flags and width). Escaped
// percent signs are ignored.
func CheckScoreTemplate(msg string) error {
	verbs := 0
	for i := 0; i < len(msg); i++ {
		if msg[i] != '%' {
			continue
		}
		if i+1 < len(msg) && msg[i+1] == '%' {
			i++
			continue
		}
		verbs++
		j := i + 1
		for j < len(msg) && strings.IndexByte("+-# 0123456789", msg[j]) >= 0 {
			j++
		}
		if j >= len(msg) || msg[j] != 'd' {
			return fmt.Errorf("verb %d in %q is not %%d", verbs, msg)
		}
		i = j
	}
	if verbs != 1 {
		return fmt.Errorf("found %d verbs in %q", verbs, msg)
	}
	return nil
}
