package engine

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func newTestEngine(t *testing.T, config *GameConfig) *GameEngine {
	t.Helper()
	engine, err := NewEngine(config, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// placeBoard swaps the engine's board for a fixed one so moves are predictable
func placeBoard(t *testing.T, e *GameEngine, rows [][]int) {
	t.Helper()
	state := e.GetState()
	state.Board = mustBoard(t, rows)
	state.BoardSize = len(rows)
	if err := e.SetState(state); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
}

func TestNewEngine(t *testing.T) {
	config := createValidConfig()
	engine, err := NewEngine(config, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := engine.GetState()
	if state.BoardSize != 4 || state.Board.Size() != 4 {
		t.Errorf("Expected 4x4 board, got %d", state.BoardSize)
	}
	if state.Board.TileCount() != 2 {
		t.Errorf("Expected 2 starting tiles, got %d", state.Board.TileCount())
	}
	if state.Score != 0 {
		t.Errorf("Expected score 0, got %d", state.Score)
	}
	if state.Message != config.Messages.Welcome {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
	if engine.GetLastMove() != nil {
		t.Error("Expected no last move on a new game")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createValidConfig()
	config.BoardSize = 1
	if _, err := NewEngine(config, nil); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults(nil)
	if engine.GetConfig().Name != "classic" {
		t.Errorf("Expected classic config, got %q", engine.GetConfig().Name)
	}
	if engine.GetState().WinTarget != DefaultWinTarget {
		t.Errorf("Expected win target %d, got %d", DefaultWinTarget, engine.GetState().WinTarget)
	}
}

func TestEngineMove_MergeScores(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())
	placeBoard(t, engine, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	result, err := engine.Move(Left)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.Changed || result.Score != 4 {
		t.Errorf("Expected changed move worth 4, got %+v", result)
	}

	state := engine.GetState()
	if state.Score != 4 {
		t.Errorf("Expected score 4, got %d", state.Score)
	}
	if state.Board.Get(0, 0) != 4 {
		t.Errorf("Expected merged tile at origin\n%s", state.Board)
	}
	if state.BestTile != 4 {
		t.Errorf("Expected best tile 4, got %d", state.BestTile)
	}
	if state.TotalMoves != 1 || state.CurrentMovesCount != 1 {
		t.Errorf("Expected 1 move recorded, got total=%d current=%d", state.TotalMoves, state.CurrentMovesCount)
	}

	last := engine.GetLastMove()
	if last == nil || last.Action != Left || last.ScoreGained != 4 || !last.Changed || last.MoveNumber != 1 {
		t.Errorf("Unexpected history entry: %+v", last)
	}
}

func TestEngineMove_NoChange(t *testing.T) {
	config := createValidConfig()
	engine := newTestEngine(t, config)
	placeBoard(t, engine, [][]int{
		{2, 0, 0, 0},
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	before := engine.GetBoard()

	result, err := engine.Move(Left)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if result.Changed {
		t.Error("Expected no change")
	}
	if !engine.GetBoard().Equal(before) {
		t.Error("Board changed on a no-op move")
	}
	if engine.GetState().Message != config.Messages.NoChange {
		t.Errorf("Expected no-change message, got %q", engine.GetState().Message)
	}
	if last := engine.GetLastMove(); last == nil || last.Changed {
		t.Errorf("Expected a recorded no-op entry, got %+v", last)
	}
}

func TestEngineMove_InvalidDirection(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())

	_, err := engine.Move(Direction("diagonal"))
	if !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("Expected ErrInvalidDirection, got %v", err)
	}
	if len(engine.GetMoveHistory()) != 0 {
		t.Error("Invalid direction must not be recorded")
	}
}

func TestEngineMove_Victory(t *testing.T) {
	config := createValidConfig()
	config.WinTarget = 8
	engine := newTestEngine(t, config)
	placeBoard(t, engine, [][]int{
		{4, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	if _, err := engine.Move(Left); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !engine.IsWon() {
		t.Fatal("Expected game to be won")
	}
	if got := engine.GetState().Message; got != "Victory! Score: 8" {
		t.Errorf("Unexpected victory message %q", got)
	}

	_, err := engine.Move(Right)
	if !errors.Is(err, ErrGameFinished) {
		t.Errorf("Expected ErrGameFinished after win, got %v", err)
	}
	if engine.GetScore() != 8 {
		t.Errorf("Score changed after the game ended: %d", engine.GetScore())
	}
	if len(engine.GetPossibleMoves()) != 0 {
		t.Error("Expected no possible moves once won")
	}
}

func TestEngineMove_GameOver(t *testing.T) {
	config := createValidConfig()
	config.BoardSize = 3
	config.WinTarget = 1024
	config.FourProbability = 0
	engine := newTestEngine(t, config)

	// Sliding the last row left leaves one empty corner; the spawned 2 locks the board
	placeBoard(t, engine, [][]int{
		{2, 4, 2},
		{4, 2, 4},
		{0, 8, 16},
	})

	result, err := engine.Move(Left)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !result.Changed {
		t.Fatal("Expected the slide to change the board")
	}

	want := [][]int{{2, 4, 2}, {4, 2, 4}, {8, 16, 2}}
	if !reflect.DeepEqual(engine.GetBoard().Rows(), want) {
		t.Fatalf("Unexpected board\n%s", engine.GetBoard())
	}
	if !engine.IsGameOver() {
		t.Fatal("Expected game over")
	}
	if engine.IsWon() {
		t.Error("Did not expect a win")
	}
	if got := engine.GetState().Message; got != "No moves left. Score: 0" {
		t.Errorf("Unexpected game over message %q", got)
	}

	if _, err := engine.Move(Up); !errors.Is(err, ErrGameFinished) {
		t.Errorf("Expected ErrGameFinished, got %v", err)
	}
	if engine.GetState().Message != config.Messages.Finished {
		t.Errorf("Expected finished message, got %q", engine.GetState().Message)
	}
}

func TestEngineGetPossibleMoves(t *testing.T) {
	config := createValidConfig()
	config.BoardSize = 3
	config.WinTarget = 1024
	engine := newTestEngine(t, config)
	placeBoard(t, engine, [][]int{
		{2, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
	})

	got := engine.GetPossibleMoves()
	want := []Direction{Down, Right}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetPossibleMoves() = %v, want %v", got, want)
	}
	if engine.CanMove(Left) {
		t.Error("CanMove(Left) should be false against the left edge")
	}
}

func TestEngineReset(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())
	placeBoard(t, engine, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	firstID := engine.GetState().GameID

	if _, err := engine.Move(Left); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	state := engine.Reset()

	if state.GameID == firstID {
		t.Error("Expected a new game id after reset")
	}
	if state.Score != 0 {
		t.Errorf("Expected score reset, got %d", state.Score)
	}
	if state.Board.TileCount() != 2 {
		t.Errorf("Expected 2 tiles after reset, got %d", state.Board.TileCount())
	}
	if state.TotalMoves != 1 || len(state.MoveHistory) != 1 {
		t.Errorf("Expected cumulative history to survive reset, got %d", state.TotalMoves)
	}
	if state.CurrentMovesCount != 0 || len(state.CurrentMoves) != 0 {
		t.Errorf("Expected current moves cleared, got %d", state.CurrentMovesCount)
	}
	if state.MoveHistory[0].GameID != firstID {
		t.Error("History entry should keep the id of the game it was played in")
	}
}

func TestEngineResize(t *testing.T) {
	config := createValidConfig()
	engine := newTestEngine(t, config)

	state, err := engine.Resize(6)
	if err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if state.BoardSize != 6 || state.Board.Size() != 6 {
		t.Errorf("Expected 6x6 board, got %d", state.Board.Size())
	}
	if engine.GetConfig().BoardSize != 6 {
		t.Errorf("Expected engine config resized, got %d", engine.GetConfig().BoardSize)
	}
	if config.BoardSize != 4 {
		t.Error("Resize must not modify the shared config")
	}

	// Reset keeps the resized board
	if engine.Reset().BoardSize != 6 {
		t.Error("Expected reset to keep the new size")
	}

	for _, size := range []int{2, 9, 0} {
		if _, err := engine.Resize(size); !errors.Is(err, ErrInvalidBoardSize) {
			t.Errorf("Resize(%d) error = %v, want ErrInvalidBoardSize", size, err)
		}
	}
}

func TestEngineBulkMove(t *testing.T) {
	config := createValidConfig()
	config.BoardSize = 3
	config.WinTarget = 1024
	config.FourProbability = 0
	engine := newTestEngine(t, config)
	placeBoard(t, engine, [][]int{
		{2, 4, 2},
		{4, 2, 4},
		{0, 8, 16},
	})

	results, err := engine.BulkMove([]Direction{Left, Up, Down})
	if !errors.Is(err, ErrGameFinished) {
		t.Fatalf("Expected ErrGameFinished, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 executed move, got %d", len(results))
	}
}

func TestEngineSetState(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())

	if err := engine.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}

	state := *engine.GetState()
	state.BoardSize = 5
	if err := engine.SetState(&state); !errors.Is(err, ErrInvalidBoardSize) {
		t.Errorf("Expected ErrInvalidBoardSize for mismatched size, got %v", err)
	}
}

func TestEngineSetConfig(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())

	mini := createValidConfig()
	mini.Name = "mini"
	mini.BoardSize = 3
	mini.WinTarget = 256

	if err := engine.SetConfig(mini); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	state := engine.GetState()
	if state.BoardSize != 3 || state.WinTarget != 256 || state.ConfigName != "mini" {
		t.Errorf("Unexpected state after SetConfig: %+v", state)
	}

	mini.Name = ""
	if err := engine.SetConfig(mini); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	play := func() []int {
		engine, err := NewEngine(createValidConfig(), rand.New(rand.NewSource(77)))
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		var scores []int
		for i := 0; i < 40; i++ {
			if _, err := engine.Move(AllDirections[i%len(AllDirections)]); err != nil {
				break
			}
			scores = append(scores, engine.GetScore())
		}
		return scores
	}

	if a, b := play(), play(); !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different games: %v vs %v", a, b)
	}
}

func TestEngineGetStateIsSnapshot(t *testing.T) {
	engine := newTestEngine(t, createValidConfig())
	placeBoard(t, engine, [][]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	before := engine.GetState()
	if _, err := engine.Move(Left); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if before.Score != 0 || before.TotalMoves != 0 || len(before.MoveHistory) != 0 {
		t.Errorf("Snapshot changed by a later move: %+v", before)
	}
	if before.Board.Get(0, 0) != 2 {
		t.Errorf("Snapshot board changed by a later move\n%s", before.Board)
	}

	after := engine.GetState()
	after.Score = 1000
	after.MoveHistory = append(after.MoveHistory, MoveHistoryEntry{Action: Up})
	if engine.GetScore() != 4 {
		t.Errorf("Editing a snapshot changed the engine score to %d", engine.GetScore())
	}
	if len(engine.GetMoveHistory()) != 1 {
		t.Errorf("Editing a snapshot changed the engine history to %d entries", len(engine.GetMoveHistory()))
	}

	// SetState takes its own copy too
	after.Score = 4
	if err := engine.SetState(after); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	after.Won = true
	if engine.IsWon() {
		t.Error("Editing a state after SetState changed the engine")
	}
}
