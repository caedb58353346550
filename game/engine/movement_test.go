package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func mustBoard(t *testing.T, rows [][]int) Board {
	t.Helper()
	b, err := NewBoardFromRows(rows)
	if err != nil {
		t.Fatalf("NewBoardFromRows() error = %v", err)
	}
	return b
}

func boardSum(b Board) int {
	sum := 0
	for _, v := range b.cells {
		sum += v
	}
	return sum
}

func TestMergeLine(t *testing.T) {
	tests := []struct {
		name      string
		line      []int
		want      []int
		wantScore int
	}{
		{"four equal tiles merge pairwise", []int{2, 2, 2, 2}, []int{4, 4, 0, 0}, 8},
		{"merged tile does not merge again", []int{2, 2, 4, 0}, []int{4, 4, 0, 0}, 4},
		{"gap between equal tiles", []int{4, 0, 0, 4}, []int{8, 0, 0, 0}, 8},
		{"no equal neighbours", []int{2, 4, 8, 16}, []int{2, 4, 8, 16}, 0},
		{"empty line", []int{0, 0, 0, 0}, []int{0, 0, 0, 0}, 0},
		{"leftmost pair wins", []int{2, 2, 2, 0}, []int{4, 2, 0, 0}, 4},
		{"two different pairs", []int{4, 4, 8, 8}, []int{8, 16, 0, 0}, 24},
		{"scattered pair", []int{0, 2, 0, 2}, []int{4, 0, 0, 0}, 4},
		{"slide only", []int{0, 0, 0, 2}, []int{2, 0, 0, 0}, 0},
		{"three cell line", []int{2, 0, 2}, []int{4, 0, 0}, 4},
		{"eight cell line", []int{2, 2, 2, 2, 2, 2, 2, 2}, []int{4, 4, 4, 4, 0, 0, 0, 0}, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, score := MergeLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeLine(%v) = %v, want %v", tt.line, got, tt.want)
			}
			if score != tt.wantScore {
				t.Errorf("MergeLine(%v) score = %d, want %d", tt.line, score, tt.wantScore)
			}
		})
	}
}

func TestMergeLineDoesNotModifyInput(t *testing.T) {
	line := []int{2, 2, 4, 4}
	MergeLine(line)
	if !reflect.DeepEqual(line, []int{2, 2, 4, 4}) {
		t.Errorf("input line was modified: %v", line)
	}
}

func TestResolveMoveDirections(t *testing.T) {
	rows := [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	cols := [][]int{
		{2, 0, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	tests := []struct {
		name     string
		rows     [][]int
		dir      Direction
		row, col int
	}{
		{"left", rows, Left, 0, 0},
		{"right", rows, Right, 0, 3},
		{"up", cols, Up, 0, 0},
		{"down", cols, Down, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.rows)
			res := ResolveMove(b, tt.dir, rand.New(rand.NewSource(1)), 0.1)

			if !res.Changed {
				t.Fatal("expected move to change the board")
			}
			if res.Score != 4 {
				t.Errorf("Score = %d, want 4", res.Score)
			}
			if got := res.Board.Get(tt.row, tt.col); got != 4 {
				t.Errorf("cell (%d,%d) = %d, want 4\n%s", tt.row, tt.col, got, res.Board)
			}
			if res.Board.TileCount() != 2 {
				t.Errorf("TileCount() = %d, want merged tile plus spawn", res.Board.TileCount())
			}
		})
	}
}

func TestResolveMoveNoChangeReturnsSameBoard(t *testing.T) {
	b := mustBoard(t, [][]int{
		{2, 0, 0},
		{4, 0, 0},
		{8, 0, 0},
	})

	res := ResolveMove(b, Left, rand.New(rand.NewSource(1)), 0.1)

	if res.Changed {
		t.Error("expected Changed=false")
	}
	if res.Score != 0 {
		t.Errorf("Score = %d, want 0", res.Score)
	}
	if &res.Board.cells[0] != &b.cells[0] {
		t.Error("expected the input board to be returned as-is")
	}
	if res.Board.TileCount() != 3 {
		t.Errorf("a tile was spawned on a no-op move")
	}
}

func TestResolveMoveInvalidDirection(t *testing.T) {
	b := mustBoard(t, [][]int{{2, 2, 0}, {0, 0, 0}, {0, 0, 0}})
	res := ResolveMove(b, Direction("sideways"), rand.New(rand.NewSource(1)), 0.1)
	if res.Changed || res.Score != 0 || !res.Board.Equal(b) {
		t.Errorf("unknown direction should be a no-op, got %+v", res)
	}
}

func TestResolveMoveDoesNotMutateInput(t *testing.T) {
	b := mustBoard(t, [][]int{
		{2, 2, 4, 4},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	before := b.Rows()

	ResolveMove(b, Left, rand.New(rand.NewSource(7)), 0.1)

	if !reflect.DeepEqual(b.Rows(), before) {
		t.Errorf("input board was modified:\n%s", b)
	}
}

func TestResolveMoveConservesTileSum(t *testing.T) {
	rng := rand.New(rand.NewSource(2048))
	b := InitBoard(4, rng, 0.1)

	for i := 0; i < 500 && HasAnyMove(b); i++ {
		dir := AllDirections[rng.Intn(len(AllDirections))]
		res := ResolveMove(b, dir, rng, 0.1)

		diff := boardSum(res.Board) - boardSum(b)
		if res.Changed {
			if diff != 2 && diff != 4 {
				t.Fatalf("move %d: sum grew by %d, want 2 or 4", i, diff)
			}
		} else if diff != 0 {
			t.Fatalf("move %d: no-op changed the sum by %d", i, diff)
		}
		b = res.Board
	}
}

func TestResolveMoveTileCount(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		dir     Direction
		want    int
		changed bool
	}{
		{
			name:    "slide without merges adds the spawned tile",
			rows:    [][]int{{0, 0, 2}, {0, 4, 0}, {8, 0, 0}},
			dir:     Left,
			want:    4,
			changed: true,
		},
		{
			name:    "every row merges twice",
			rows:    [][]int{{2, 2, 2, 2}, {4, 4, 4, 4}, {8, 8, 8, 8}, {16, 16, 16, 16}},
			dir:     Left,
			want:    9,
			changed: true,
		},
		{
			name:    "vertical merges",
			rows:    [][]int{{2, 0, 4}, {2, 0, 4}, {2, 8, 0}},
			dir:     Up,
			want:    5,
			changed: true,
		},
		{
			name:    "full board with one merge refills",
			rows:    [][]int{{2, 2, 4}, {8, 16, 32}, {64, 128, 256}},
			dir:     Left,
			want:    9,
			changed: true,
		},
		{
			name: "no-op leaves the count alone",
			rows: [][]int{{2, 4, 8}, {0, 0, 0}, {0, 0, 0}},
			dir:  Left,
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.rows)
			res := ResolveMove(b, tt.dir, rand.New(rand.NewSource(5)), 0.1)
			if res.Changed != tt.changed {
				t.Fatalf("Changed = %v, want %v", res.Changed, tt.changed)
			}
			if got := res.Board.TileCount(); got != tt.want {
				t.Errorf("TileCount() = %d, want %d\n%s", got, tt.want, res.Board)
			}
		})
	}
}

func TestResolveMoveSpawnsExactlyOneTile(t *testing.T) {
	rng := rand.New(rand.NewSource(4096))
	b := InitBoard(4, rng, 0.1)
	merged := 0

	for i := 0; i < 500 && HasAnyMove(b); i++ {
		dir := AllDirections[rng.Intn(len(AllDirections))]
		slid, _, _ := slide(b, dir)
		res := ResolveMove(b, dir, rng, 0.1)

		if !res.Changed {
			if res.Board.TileCount() != b.TileCount() {
				t.Fatalf("move %d: no-op changed the tile count", i)
			}
			continue
		}
		if slid.TileCount() < b.TileCount() {
			merged++
		}
		// A changing move always leaves at least one empty cell for the spawn
		if got, want := res.Board.TileCount(), slid.TileCount()+1; got != want {
			t.Fatalf("move %d (%s): TileCount() = %d, want %d\n%s", i, dir, got, want, res.Board)
		}
		b = res.Board
	}
	if merged == 0 {
		t.Error("Expected the random game to include merging moves")
	}
}

func mirror(b Board) Board {
	rows := b.Rows()
	for _, row := range rows {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	next := NewBoard(b.size)
	for r, row := range rows {
		copy(next.cells[r*b.size:], row)
	}
	return next
}

func TestSlideRightMirrorsLeft(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		b := NewBoard(5)
		for j := range b.cells {
			if rng.Intn(3) > 0 {
				b.cells[j] = 1 << uint(1+rng.Intn(4))
			}
		}

		right, rightScore, _ := slide(b, Right)
		left, leftScore, _ := slide(mirror(b), Left)

		if !right.Equal(mirror(left)) {
			t.Fatalf("right slide differs from mirrored left slide\n%s\n%s", right, mirror(left))
		}
		if rightScore != leftScore {
			t.Fatalf("scores differ: right=%d left=%d", rightScore, leftScore)
		}
	}
}

func TestSpawnTile(t *testing.T) {
	t.Run("full board is unchanged", func(t *testing.T) {
		b := mustBoard(t, [][]int{{2, 4, 2}, {4, 2, 4}, {2, 4, 2}})
		got := SpawnTile(b, rand.New(rand.NewSource(1)), 0.1)
		if !got.Equal(b) {
			t.Errorf("SpawnTile changed a full board")
		}
	})

	t.Run("probability zero always spawns 2", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 200; i++ {
			b := SpawnTile(NewBoard(4), rng, 0)
			if MaxTile(b) != 2 {
				t.Fatalf("spawned %d with probability 0", MaxTile(b))
			}
		}
	})

	t.Run("probability one always spawns 4", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 200; i++ {
			b := SpawnTile(NewBoard(4), rng, 1)
			if MaxTile(b) != 4 {
				t.Fatalf("spawned %d with probability 1", MaxTile(b))
			}
		}
	})

	t.Run("default distribution", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		fours := 0
		const trials = 10000
		for i := 0; i < trials; i++ {
			if MaxTile(SpawnTile(NewBoard(4), rng, DefaultFourProbability)) == 4 {
				fours++
			}
		}
		if fours < 800 || fours > 1200 {
			t.Errorf("got %d fours in %d spawns, want about %d", fours, trials, trials/10)
		}
	})

	t.Run("every empty cell is reachable", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		seen := make(map[int]bool)
		for i := 0; i < 2000; i++ {
			b := SpawnTile(NewBoard(4), rng, 0)
			for idx, v := range b.cells {
				if v != 0 {
					seen[idx] = true
				}
			}
		}
		if len(seen) != 16 {
			t.Errorf("spawned on %d distinct cells, want 16", len(seen))
		}
	})

	t.Run("only empty cells are used", func(t *testing.T) {
		b := mustBoard(t, [][]int{{2, 4, 2}, {4, 0, 4}, {2, 4, 2}})
		got := SpawnTile(b, rand.New(rand.NewSource(1)), 0)
		if got.Get(1, 1) != 2 {
			t.Errorf("expected spawn in the single empty cell, got\n%s", got)
		}
		if b.Get(1, 1) != 0 {
			t.Error("input board was modified")
		}
	})
}

func TestInitBoard(t *testing.T) {
	for size := MinBoardSize; size <= MaxBoardSize; size++ {
		b := InitBoard(size, rand.New(rand.NewSource(int64(size))), DefaultFourProbability)
		if b.Size() != size {
			t.Errorf("Size() = %d, want %d", b.Size(), size)
		}
		if b.TileCount() != 2 {
			t.Errorf("size %d: TileCount() = %d, want 2", size, b.TileCount())
		}
		for _, v := range b.cells {
			if v != 0 && v != 2 && v != 4 {
				t.Errorf("size %d: unexpected initial tile %d", size, v)
			}
		}
	}
}

func TestInitBoardIsDeterministicForSeed(t *testing.T) {
	a := InitBoard(4, rand.New(rand.NewSource(42)), DefaultFourProbability)
	b := InitBoard(4, rand.New(rand.NewSource(42)), DefaultFourProbability)
	if !a.Equal(b) {
		t.Errorf("same seed produced different boards\n%s\n%s", a, b)
	}
}

func TestHasAnyMove(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want bool
	}{
		{"empty cell", [][]int{{2, 4, 2}, {4, 0, 4}, {2, 4, 2}}, true},
		{"horizontal pair", [][]int{{2, 2, 4}, {4, 8, 16}, {8, 16, 32}}, true},
		{"vertical pair", [][]int{{2, 4, 8}, {2, 8, 16}, {4, 16, 32}}, true},
		{"pair in last row", [][]int{{2, 4, 2}, {4, 2, 4}, {8, 8, 2}}, true},
		{"terminal board", [][]int{{2, 4, 2}, {4, 2, 4}, {2, 4, 2}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasAnyMove(mustBoard(t, tt.rows)); got != tt.want {
				t.Errorf("HasAnyMove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalBoardRejectsEveryDirection(t *testing.T) {
	b := mustBoard(t, [][]int{{2, 4, 2}, {4, 2, 4}, {2, 4, 2}})
	for _, dir := range AllDirections {
		res := ResolveMove(b, dir, rand.New(rand.NewSource(1)), 0.1)
		if res.Changed {
			t.Errorf("%s changed a terminal board", dir)
		}
	}
}

func TestContainsValue(t *testing.T) {
	b := mustBoard(t, [][]int{{2048, 0, 0}, {0, 4, 0}, {0, 0, 0}})
	if !ContainsValue(b, 2048) {
		t.Error("expected 2048 to be found")
	}
	if ContainsValue(b, 1024) {
		t.Error("did not expect 1024")
	}
	if MaxTile(b) != 2048 {
		t.Errorf("MaxTile() = %d, want 2048", MaxTile(b))
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"DOWN", Down, false},
		{" left ", Left, false},
		{"w", Up, false},
		{"A", Left, false},
		{"s", Down, false},
		{"d", Right, false},
		{"ArrowRight", Right, false},
		{"arrowup", Up, false},
		{"north", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDirection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
