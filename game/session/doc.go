// Package session provides in-memory session management for the 2048 game server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique 4-character session ID generation
//   - Per-session random sources for tile spawning
//   - Expiration of idle sessions
//
// Manager is the main session manager. Each session it creates owns its own
// engine and *rand.Rand, seeded by the SeedFunc handed to NewManager. Use
// TimeSeed for normal play or SequentialSeed to replay the same games.
//
// Usage:
//
//	manager := session.NewManager(session.TimeSeed)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Sessions live only as long as the process.
package session
