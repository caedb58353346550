// Package websocket pushes live 2048 game updates to browser watchers.
//
// A central Hub owns every connection. Clients join a session with
// /ws?session=abc1 and receive a Message whenever that session changes:
//   - state_update carries the full GameState after a move, reset or resize
//   - victory and game_over carry the end-of-game message as Data
//
// Connections are read-only. Anything a client sends is discarded; reading
// only services ping/pong keepalives.
//
// Broadcasts are queued on a buffered channel of engine.WebSocketBufferSize
// messages. When the queue is full the message is dropped so a slow watcher
// never stalls a move request.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//	hub.BroadcastEvent(sessionID, "victory", "You win! Final score: 20480")
//
// Cancelling ctx disconnects every client and stops the hub.
package websocket
