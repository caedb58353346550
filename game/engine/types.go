package engine

// Direction selects the edge tiles slide toward
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// Validation constants
	MinBoardSize           = 3
	MaxBoardSize           = 8
	DefaultBoardSize       = 4
	DefaultWinTarget       = 2048
	DefaultFourProbability = 0.1
	MinWinTarget           = 8
	MaxBulkMoves           = 100
	WebSocketBufferSize    = 256
)

// AllDirections lists every direction in a stable order
var AllDirections = []Direction{Up, Down, Left, Right}

// GameMessages holds the user-facing texts of a configuration
type GameMessages struct {
	Welcome  string `json:"welcome"`
	Victory  string `json:"victory"`
	GameOver string `json:"game_over"`
	NoChange string `json:"no_change"`
	Finished string `json:"finished"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	BoardSize       int          `json:"board_size"`
	WinTarget       int          `json:"win_target"`
	FourProbability float64      `json:"four_probability"`
	Messages        GameMessages `json:"messages"`
}

// MoveResult is the outcome of resolving one direction against a board.
// When Changed is false, Board is the board that was passed in.
type MoveResult struct {
	Board   Board `json:"board"`
	Score   int   `json:"score"`
	Changed bool  `json:"changed"`
}

// GameState represents the complete game state
type GameState struct {
	GameID      string             `json:"game_id"`
	Board       Board              `json:"board"`
	BoardSize   int                `json:"board_size"`
	Score       int                `json:"score"`
	BestTile    int                `json:"best_tile"`
	WinTarget   int                `json:"win_target"`
	Won         bool               `json:"won"`
	GameOver    bool               `json:"game_over"`
	Message     string             `json:"message"`
	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves of the current game. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper view (not required for core game logic)
	PossibleMoves []Direction `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	GameID      string    `json:"game_id"`
	Action      Direction `json:"action"`
	Changed     bool      `json:"changed"`
	ScoreGained int       `json:"score_gained"`
	Score       int       `json:"score"`
	MaxTile     int       `json:"max_tile"`
	Timestamp   int64     `json:"timestamp"`
	MoveNumber  int       `json:"move_number"`
}
