package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrGameFinished     = errors.New("game is finished")
	ErrInvalidBoardSize = errors.New("invalid board size")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	Resize(size int) (*GameState, error)
	IsGameOver() bool
	IsWon() bool
	GetScore() int
	GetBoard() Board

	// Movement operations
	Move(dir Direction) (MoveResult, error)
	CanMove(dir Direction) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It owns the board and score of
// one game and refuses input once the game is won or over.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig, rng *rand.Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.state = InitGameStateFromConfig(config, rng)

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(rng *rand.Rand) *GameEngine {
	engine, err := NewEngine(DefaultGameConfig(), rng)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return engine
}

// GetState returns a snapshot of the current game state with PossibleMoves
// filled in. The engine is not touched, and later moves do not change the snapshot.
func (e *GameEngine) GetState() *GameState {
	snapshot := *e.state
	// History is append-only; capping capacity keeps appends on either side apart
	snapshot.MoveHistory = e.state.MoveHistory[:len(e.state.MoveHistory):len(e.state.MoveHistory)]
	snapshot.CurrentMoves = e.state.CurrentMoves[:len(e.state.CurrentMoves):len(e.state.CurrentMoves)]
	snapshot.PossibleMoves = e.GetPossibleMoves()
	return &snapshot
}

// SetState replaces the game state
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Board.Size() != state.BoardSize || !IsValidBoardSize(state.BoardSize) {
		return fmt.Errorf("%w: board is %dx%d, state says %d", ErrInvalidBoardSize, state.Board.Size(), state.Board.Size(), state.BoardSize)
	}
	owned := *state
	e.state = &owned
	return nil
}

// Reset starts a new game with the current configuration
func (e *GameEngine) Reset() *GameState {
	return e.restart(e.config.BoardSize)
}

// Resize changes the board size and starts a new game on it
func (e *GameEngine) Resize(size int) (*GameState, error) {
	if !IsValidBoardSize(size) {
		return nil, fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidBoardSize, MinBoardSize, MaxBoardSize, size)
	}

	// Configs are shared between sessions, resize a private copy
	cfg := *e.config
	cfg.BoardSize = size
	e.config = &cfg

	return e.restart(size), nil
}

// restart preserves cumulative history and totals, clearing only the current game segment
func (e *GameEngine) restart(size int) *GameState {
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	cfg := *e.config
	cfg.BoardSize = size
	e.state = InitGameStateFromConfig(&cfg, e.rng)

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.GetState()
}

// IsGameOver returns whether no move is left
func (e *GameEngine) IsGameOver() bool {
	return e.state.GameOver
}

// IsWon returns whether the win target has been reached
func (e *GameEngine) IsWon() bool {
	return e.state.Won
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetBoard returns the current board
func (e *GameEngine) GetBoard() Board {
	return e.state.Board
}

// Move resolves one direction against the current board. Moves that change
// nothing are recorded but leave the score and board as they were.
func (e *GameEngine) Move(dir Direction) (MoveResult, error) {
	if e.state.Won || e.state.GameOver {
		e.state.Message = e.config.Messages.Finished
		return MoveResult{Board: e.state.Board}, ErrGameFinished
	}

	switch dir {
	case Up, Down, Left, Right:
	default:
		return MoveResult{Board: e.state.Board}, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}

	result := ResolveMove(e.state.Board, dir, e.rng, e.config.FourProbability)
	if result.Changed {
		e.state.Board = result.Board
		e.state.Score += result.Score
		if tile := MaxTile(result.Board); tile > e.state.BestTile {
			e.state.BestTile = tile
		}
		e.state.Message = fmt.Sprintf("Moved %s, +%d", dir, result.Score)

		if ContainsValue(result.Board, e.state.WinTarget) {
			e.state.Won = true
			e.state.Message = fmt.Sprintf(e.config.Messages.Victory, e.state.Score)
		}
		if !HasAnyMove(result.Board) {
			e.state.GameOver = true
			if !e.state.Won {
				e.state.Message = fmt.Sprintf(e.config.Messages.GameOver, e.state.Score)
			}
		}
	} else if e.config.Messages.NoChange != "" {
		e.state.Message = e.config.Messages.NoChange
	}

	e.state.AddMoveToHistory(dir, result)
	return result, nil
}

// CanMove reports whether moving in dir would change the board
func (e *GameEngine) CanMove(dir Direction) bool {
	if e.state.Won || e.state.GameOver {
		return false
	}
	// The spawn is irrelevant here, so a throwaway source keeps e.rng untouched
	result := ResolveMove(e.state.Board, dir, rand.New(rand.NewSource(1)), 0)
	return result.Changed
}

// GetPossibleMoves returns all directions that would change the board
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range AllDirections {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets a new game configuration and starts a new game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config, e.rng)
	return nil
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory[:len(e.state.MoveHistory):len(e.state.MoveHistory)]
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	last := e.state.MoveHistory[len(e.state.MoveHistory)-1]
	return &last
}

// BulkMove executes moves in sequence until one is refused
func (e *GameEngine) BulkMove(moves []Direction) ([]MoveResult, error) {
	results := make([]MoveResult, 0, len(moves))

	for _, dir := range moves {
		result, err := e.Move(dir)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}

// AddMoveToHistory adds a move to the game's move history
func (gs *GameState) AddMoveToHistory(dir Direction, result MoveResult) {
	entry := MoveHistoryEntry{
		GameID:      gs.GameID,
		Action:      dir,
		Changed:     result.Changed,
		ScoreGained: result.Score,
		Score:       gs.Score,
		MaxTile:     MaxTile(gs.Board),
		Timestamp:   time.Now().Unix(),
		MoveNumber:  gs.TotalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	// Append to current segment history and increment its counter
	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
