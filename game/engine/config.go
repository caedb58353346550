package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate board size
	if !IsValidBoardSize(config.BoardSize) {
		return fmt.Errorf("config validation: board_size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	// Validate win target
	if config.WinTarget < MinWinTarget || !IsPowerOfTwo(config.WinTarget) {
		return fmt.Errorf("config validation: win_target must be a power of two >= %d, got %d", MinWinTarget, config.WinTarget)
	}
	if limit := MaxReachableTile(config.BoardSize); config.WinTarget > limit {
		return fmt.Errorf("config validation: win_target %d can never appear on a %dx%d board, largest tile is %d", config.WinTarget, config.BoardSize, config.BoardSize, limit)
	}

	// Validate spawn odds
	if config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %v", config.FourProbability)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	// Validate format strings, the score is their only argument
	if err := CheckScoreTemplate(config.Messages.Victory); err != nil {
		return fmt.Errorf("config validation: messages.victory must contain a single %%d for score: %v", err)
	}
	if err := CheckScoreTemplate(config.Messages.GameOver); err != nil {
		return fmt.Errorf("config validation: messages.game_over must contain a single %%d for score: %v", err)
	}

	return nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the classic 4×4 game played to 2048
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "Classic 4x4 board, reach the 2048 tile",
		BoardSize:       DefaultBoardSize,
		WinTarget:       DefaultWinTarget,
		FourProbability: DefaultFourProbability,
		Messages: GameMessages{
			Welcome:  "Join the tiles, get to 2048!",
			Victory:  "You win! Final score: %d",
			GameOver: "Game over! Final score: %d",
			NoChange: "Nothing moves that way",
			Finished: "The game has ended, start a new game",
		},
	}
}

// InitGameStateFromConfig creates a new game state using the provided configuration
func InitGameStateFromConfig(config *GameConfig, rng *rand.Rand) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}

	board := InitBoard(config.BoardSize, rng, config.FourProbability)

	return &GameState{
		GameID:            uuid.NewString(),
		Board:             board,
		BoardSize:         config.BoardSize,
		Score:             0,
		BestTile:          MaxTile(board),
		WinTarget:         config.WinTarget,
		Won:               false,
		GameOver:          false,
		Message:           config.Messages.Welcome,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
}
