// Package mcp exposes the 2048 REST API as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes one or two HTTP requests
// against a running server, and the JSON response is rendered as text an
// agent can read, with the board printed as aligned columns.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, bulk_move, reset_game, resize_board
//   - move_history, list_configs, game_instructions
//
// API failures come back as tool errors (IsError set) rather than Go errors,
// so the agent sees the server's message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
