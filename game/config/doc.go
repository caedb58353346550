// Package config provides configuration management for the 2048 game server.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Caching parsed configurations behind a read/write lock
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines the board size (3 to 8), the tile value that
// wins the game, the chance that a spawned tile is a 4 and the messages
// shown to players.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("mini")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// A config is addressed by its id, the file name without ".json". Ids are
// plain names; anything that would resolve outside the directory is rejected
// with ErrInvalidConfig. Files that fail validation, including a win target
// the board can never produce, are left out of ListConfigs.
//
// The default is classic.json when present, otherwise the first listed file,
// otherwise the built-in classic game.
package config
