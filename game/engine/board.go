package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedBoard = errors.New("malformed board")

// Board is an N×N grid of tile values stored row-major. 0 is an empty cell.
// No method modifies a Board; operations that change tiles return a new one.
type Board struct {
	size  int
	cells []int
}

// NewBoard returns an empty size×size board
func NewBoard(size int) Board {
	if size < 0 {
		size = 0
	}
	return Board{size: size, cells: make([]int, size*size)}
}

// NewBoardFromRows builds a board from rows, validating that the grid is square
// and that every non-zero value is a power of two.
func NewBoardFromRows(rows [][]int) (Board, error) {
	size := len(rows)
	b := NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedBoard, r, len(row), size)
		}
		for c, v := range row {
			if v != 0 && !IsPowerOfTwo(v) {
				return Board{}, fmt.Errorf("%w: value %d at (%d,%d) is not a power of two", ErrMalformedBoard, v, r, c)
			}
			b.cells[r*size+c] = v
		}
	}
	return b, nil
}

// Size returns the board edge length
func (b Board) Size() int {
	return b.size
}

// Get returns the value at row, col
func (b Board) Get(row, col int) int {
	return b.cells[row*b.size+col]
}

// Rows returns a fresh copy of the board as nested rows
func (b Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for r := range rows {
		rows[r] = make([]int, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

// Equal reports whether both boards have the same size and values
func (b Board) Equal(other Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i, v := range b.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// EmptyCells returns the row-major indexes of empty cells
func (b Board) EmptyCells() []int {
	var empty []int
	for i, v := range b.cells {
		if v == 0 {
			empty = append(empty, i)
		}
	}
	return empty
}

// TileCount returns the number of non-empty cells
func (b Board) TileCount() int {
	count := 0
	for _, v := range b.cells {
		if v != 0 {
			count++
		}
	}
	return count
}

// with returns a copy of the board with index i set to value
func (b Board) with(i, value int) Board {
	next := b.clone()
	next.cells[i] = value
	return next
}

func (b Board) clone() Board {
	cells := make([]int, len(b.cells))
	copy(cells, b.cells)
	return Board{size: b.size, cells: cells}
}

// line extracts row or column i. Reversed lines start at the far edge.
func (b Board) line(i int, vertical, reversed bool) []int {
	out := make([]int, b.size)
	for k := 0; k < b.size; k++ {
		pos := k
		if reversed {
			pos = b.size - 1 - k
		}
		if vertical {
			out[k] = b.cells[pos*b.size+i]
		} else {
			out[k] = b.cells[i*b.size+pos]
		}
	}
	return out
}

// setLine writes a line produced by line back into a board under construction
func (b Board) setLine(i int, vertical, reversed bool, values []int) {
	for k, v := range values {
		pos := k
		if reversed {
			pos = b.size - 1 - k
		}
		if vertical {
			b.cells[pos*b.size+i] = v
		} else {
			b.cells[i*b.size+pos] = v
		}
	}
}

// MarshalJSON encodes the board as an array of rows
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Rows())
}

// UnmarshalJSON decodes an array of rows, rejecting malformed grids
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := NewBoardFromRows(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// String renders the board as an ASCII grid
func (b Board) String() string {
	var sb strings.Builder
	sep := "+" + strings.Repeat("------+", b.size) + "\n"
	sb.WriteString(sep)
	for r := 0; r < b.size; r++ {
		sb.WriteString("|")
		for c := 0; c < b.size; c++ {
			if v := b.Get(r, c); v == 0 {
				sb.WriteString("      |")
			} else {
				sb.WriteString(fmt.Sprintf("%5d |", v))
			}
		}
		sb.WriteString("\n")
		sb.WriteString(sep)
	}
	return sb.String()
}
