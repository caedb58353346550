// Package service provides the business logic layer for the 2048 game server.
//
// The service package implements:
//   - Multi-session game management
//   - Single and bulk moves with per-step traces and game events
//   - Reset and board resizing
//   - Paginated move history
//   - Configuration listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Each session owns its own engine and random source, so sessions never
// influence each other's tile spawns.
//
// Usage:
//
//	sessionMgr := session.NewManager(session.TimeSeed)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//
// Unknown sessions wrap ErrSessionNotFound and unknown configurations wrap
// ErrConfigNotFound, so callers can branch with errors.Is.
package service
