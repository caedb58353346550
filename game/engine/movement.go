package engine

import "math/rand"

// MergeLine slides a line toward its start and merges adjacent equal tiles.
// A tile takes part in at most one merge, so [2,2,2,2] becomes [4,4,0,0].
// It returns a new line of the same length and the sum of merged values.
func MergeLine(line []int) ([]int, int) {
	compact := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			compact = append(compact, v)
		}
	}

	merged := make([]int, len(line))
	score := 0
	n := 0
	for i := 0; i < len(compact); i++ {
		if i+1 < len(compact) && compact[i] == compact[i+1] {
			merged[n] = compact[i] * 2
			score += merged[n]
			i++ // skip the collapsed partner
		} else {
			merged[n] = compact[i]
		}
		n++
	}

	return merged, score
}

// ResolveMove slides every row or column of b toward dir. If nothing moved, the
// result holds b itself with zero score and no tile is spawned. Otherwise a tile
// is spawned on the merged board using rng.
func ResolveMove(b Board, dir Direction, rng *rand.Rand, fourProbability float64) MoveResult {
	next, total, ok := slide(b, dir)
	if !ok || next.Equal(b) {
		return MoveResult{Board: b}
	}

	return MoveResult{
		Board:   SpawnTile(next, rng, fourProbability),
		Score:   total,
		Changed: true,
	}
}

// slide merges every line of b toward dir without spawning. ok is false for an
// unknown direction.
func slide(b Board, dir Direction) (Board, int, bool) {
	var vertical, reversed bool
	switch dir {
	case Left:
	case Right:
		reversed = true
	case Up:
		vertical = true
	case Down:
		vertical, reversed = true, true
	default:
		return b, 0, false
	}

	next := NewBoard(b.size)
	total := 0
	for i := 0; i < b.size; i++ {
		merged, score := MergeLine(b.line(i, vertical, reversed))
		next.setLine(i, vertical, reversed, merged)
		total += score
	}
	return next, total, true
}

// SpawnTile places a 2 (or a 4 with probability fourProbability) on a uniformly
// chosen empty cell. A full board is returned unchanged.
func SpawnTile(b Board, rng *rand.Rand, fourProbability float64) Board {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return b
	}

	idx := empty[rng.Intn(len(empty))]
	value := 2
	if rng.Float64() < fourProbability {
		value = 4
	}
	return b.with(idx, value)
}

// InitBoard returns a size×size board holding two spawned tiles.
// The size is not validated here.
func InitBoard(size int, rng *rand.Rand, fourProbability float64) Board {
	b := NewBoard(size)
	b = SpawnTile(b, rng, fourProbability)
	return SpawnTile(b, rng, fourProbability)
}
