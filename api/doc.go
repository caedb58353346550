// Package api provides the HTTP REST API for the 2048 game server.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                 create a session ({"config_id": "mini"})
//   - GET    /api/sessions                 list sessions (?sort=accessed|created|score&order=&limit=)
//   - GET    /api/sessions/unified         scoreboard (?sessionIds=a,b or ?configName=classic)
//   - GET    /api/sessions/{id}            session details
//   - DELETE /api/sessions/{id}            delete a session
//
// Game:
//   - GET  /api/sessions/{id}/state        current game state
//   - POST /api/sessions/{id}/move         {"direction": "left", "reset": false}
//   - POST /api/sessions/{id}/bulk-move    {"moves": ["up", "left"], "reset": false}
//   - POST /api/sessions/{id}/reset        start a new game, keeping cumulative history
//   - POST /api/sessions/{id}/resize       {"board_size": 5}
//   - GET  /api/sessions/{id}/history      paginated moves (?page=&limit=&order=asc|desc)
//
// Configuration:
//   - GET  /api/configs                    list configurations
//   - POST /api/configs                    save a configuration
//   - GET  /api/configs/{name}             load one configuration
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}                 live state updates over WebSocket
//
// Errors are returned as {"error": "..."}. Unknown sessions and configurations
// map to 404, invalid directions and board sizes to 400. A move on a finished
// game is not an error: it returns 200 with success=false.
package api
