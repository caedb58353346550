package main

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/CSM357/game-2048/game/engine"
	"github.com/gdamore/tcell/v2"
)

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		name   string
		event  *tcell.EventKey
		want   engine.Direction
		wantOK bool
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), engine.Up, true},
		{"arrow down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), engine.Down, true},
		{"arrow left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), engine.Left, true},
		{"arrow right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), engine.Right, true},
		{"w", tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), engine.Up, true},
		{"A uppercase", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone), engine.Left, true},
		{"s", tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone), engine.Down, true},
		{"d", tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), engine.Right, true},
		{"n is not a move", tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone), "", false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyDirection(tt.event)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("keyDirection() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTileColors(t *testing.T) {
	if tileBackground(2) == tileBackground(4) {
		t.Error("2 and 4 should have different backgrounds")
	}
	if tileBackground(4096) != tileBackground(65536) {
		t.Error("Tiles past 2048 should share a background")
	}
	if tileForeground(2) == tileForeground(8) {
		t.Error("Small tiles should use dark text, larger ones light text")
	}
}

func TestTileText(t *testing.T) {
	tests := []struct {
		value int
		width int
	}{
		{0, 4},
		{2, 4},
		{128, 4},
		{2048, 4},
		{16384, 5},
	}

	for _, tt := range tests {
		got := tileText(tt.value, tt.width)
		if len(got) != tt.width+2 {
			t.Errorf("tileText(%d, %d) = %q, want width %d", tt.value, tt.width, got, tt.width+2)
		}
		if tt.value == 0 && strings.TrimSpace(got) != "" {
			t.Errorf("Empty cell should be blank, got %q", got)
		}
	}
}

func newTestGame(t *testing.T, size int) *game {
	t.Helper()
	cfg := engine.DefaultGameConfig()
	cfg.BoardSize = size
	if limit := engine.MaxReachableTile(size); cfg.WinTarget > limit {
		cfg.WinTarget = limit
	}
	g, err := newGame(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("newGame() error = %v", err)
	}
	return g
}

func TestGameResize(t *testing.T) {
	g := newTestGame(t, 4)

	g.resize(1)
	if size := g.engine.GetState().BoardSize; size != 5 {
		t.Errorf("Expected size 5 after +, got %d", size)
	}

	g = newTestGame(t, engine.MaxBoardSize)
	g.resize(1)
	if size := g.engine.GetState().BoardSize; size != engine.MaxBoardSize {
		t.Errorf("Expected size to stay %d, got %d", engine.MaxBoardSize, size)
	}
	if !strings.Contains(g.status, "between") {
		t.Errorf("Expected bounds message, got %q", g.status)
	}

	g = newTestGame(t, engine.MinBoardSize)
	g.resize(-1)
	if size := g.engine.GetState().BoardSize; size != engine.MinBoardSize {
		t.Errorf("Expected size to stay %d, got %d", engine.MinBoardSize, size)
	}
}

func TestGameMoveTracksBest(t *testing.T) {
	g := newTestGame(t, 4)

	for i := 0; i < 200 && !g.engine.IsGameOver() && !g.engine.IsWon(); i++ {
		g.move(engine.AllDirections[i%len(engine.AllDirections)])
	}
	if g.best != g.engine.GetScore() {
		t.Errorf("best = %d, want current score %d", g.best, g.engine.GetScore())
	}

	best := g.best
	g.newGame()
	if g.engine.GetScore() != 0 {
		t.Errorf("Expected score reset, got %d", g.engine.GetScore())
	}
	if g.best != best {
		t.Errorf("Best score should survive a new game, got %d want %d", g.best, best)
	}
	if !strings.HasPrefix(g.scoreLine(), "Score: 0") {
		t.Errorf("Unexpected score line %q", g.scoreLine())
	}
}

func TestGameMoveFinished(t *testing.T) {
	g := newTestGame(t, 3)
	state := g.engine.GetState()
	state.GameOver = true
	if err := g.engine.SetState(state); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	g.move(engine.Left)
	if !strings.Contains(g.status, "press n") {
		t.Errorf("Expected finished hint, got %q", g.status)
	}
	if !strings.Contains(g.scoreLine(), "GAME OVER") {
		t.Errorf("Expected game over marker, got %q", g.scoreLine())
	}
}
