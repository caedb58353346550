package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CSM357/game-2048/game/engine"
)

// gameServiceImpl implements the GameService interface. Every engine call
// happens under mu, and every state handed out is a snapshot taken under it,
// so callers may encode results after the lock is released.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s', available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s', use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate the ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Engine.GetConfig(),
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// Touching LastAccessedAt is a write
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Engine.GetConfig(),
	}
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Move executes a single move for a session. A move that leaves the board
// untouched, or arrives after the game ended, reports Success=false without error.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	step, stepEvents, err := s.step(sess, dir, 1)
	events = append(events, stepEvents...)
	state := sess.Engine.GetState()

	result := &MoveResult{
		Success:   err == nil && step.Changed,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}
	if err == nil {
		result.Step = &step
	}

	return result, nil
}

// step applies one direction and reports what happened. The error is
// engine.ErrGameFinished when the game had already ended.
func (s *gameServiceImpl) step(sess *Session, dir engine.Direction, idx int) (StepInfo, []GameEvent, error) {
	wasWon := sess.Engine.IsWon()
	wasOver := sess.Engine.IsGameOver()

	res, err := sess.Engine.Move(dir)
	if err != nil {
		return StepInfo{Idx: idx, Dir: string(dir)}, nil, err
	}

	state := sess.Engine.GetState()
	step := StepInfo{
		Idx:         idx,
		Dir:         string(dir),
		Changed:     res.Changed,
		ScoreGained: res.Score,
		ScoreAfter:  state.Score,
		MaxTile:     engine.MaxTile(state.Board),
	}

	events := s.extractMoveEvents(state, res, dir, wasWon, wasOver, &step)
	return step, events, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartScore = start.Score
	result.StartBestTile = start.BestTile

	// Limit moves to prevent abuse
	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	for i, move := range moves {
		if code := finishedCode(sess.Engine); code != "" {
			result.Success = false
			result.StopReasonCode = code
			result.StoppedReason = fmt.Sprintf("move %d not played: game already ended (%s)", i+1, code)
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StopReasonCode = StopInvalidDirection
			result.StoppedReason = fmt.Sprintf("move %d: invalid direction %q", i+1, move)
			result.StoppedOnMove = i + 1
			break
		}

		step, events, err := s.step(sess, dir, i+1)
		if err != nil {
			return nil, err
		}
		result.Events = append(result.Events, events...)

		if !step.Changed {
			result.Success = false
			result.StopReasonCode = StopNoChange
			result.StoppedReason = fmt.Sprintf("move %d: %s does not change the board", i+1, dir)
			result.StoppedOnMove = i + 1
			break
		}

		result.MovesExecuted++
		result.Steps = append(result.Steps, step)

		if code := finishedCode(sess.Engine); code != "" {
			result.StopReasonCode = code
			result.StoppedOnMove = i + 1
			if i+1 < len(moves) {
				result.StoppedReason = fmt.Sprintf("game ended on move %d (%s)", i+1, code)
			}
			break
		}
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndScore = end.Score
	result.EndBestTile = end.BestTile
	result.ScoreDelta = end.Score - result.StartScore
	result.Won = end.Won
	result.GameOver = end.GameOver
	result.Message = end.Message
	for _, dir := range end.PossibleMoves {
		result.PossibleMoves = append(result.PossibleMoves, string(dir))
	}

	return result, nil
}

// finishedCode returns the stop code for an ended game, or "" while it is running
func finishedCode(e *engine.GameEngine) string {
	switch {
	case e.IsWon():
		return StopWon
	case e.IsGameOver():
		return StopGameOver
	default:
		return ""
	}
}

// Reset resets a game session to a fresh board
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// Resize starts a new game on a board of the given size
func (s *gameServiceImpl) Resize(ctx context.Context, sessionID string, size int) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Resize(size)
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, sessionError(sessionID, err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// sessionError wraps a session lookup failure so callers can match ErrSessionNotFound
func sessionError(sessionID string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s (%v)", ErrSessionNotFound, sessionID, err)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset with a fresh board",
		Timestamp: time.Now(),
	}
}

// extractMoveEvents generates events from a resolved move
func (s *gameServiceImpl) extractMoveEvents(state *engine.GameState, res engine.MoveResult, dir engine.Direction, wasWon, wasOver bool, step *StepInfo) []GameEvent {
	now := time.Now()

	if !res.Changed {
		return []GameEvent{{
			Type:      "no_change",
			Message:   fmt.Sprintf("Moving %s does not change the board", dir),
			Timestamp: now,
		}}
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s", dir),
		Timestamp: now,
	}}

	if res.Score > 0 {
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("Merged tiles for +%d, score %d", res.Score, state.Score),
			Timestamp: now,
		})
	}

	if state.Won && !wasWon {
		step.Victory = true
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   fmt.Sprintf("Reached %d!", state.WinTarget),
			Timestamp: now,
		})
	}
	if state.GameOver && !wasOver {
		step.GameOver = true
		events = append(events, GameEvent{
			Type:      "game_over",
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}
