// This file is part of Chessboard.
//
// Chessboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Chessboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Chessboard.  If not, see <https://www.gnu.org/licenses/>.

// Package server is the HTTP transport for the chessboard. Requests from
// remote clients are published on the event bus as request events and a
// websocket streams the presentation events back out.
//
// The routes are:
//
//	GET  /api/version          build version
//	GET  /api/state            latest game state
//	GET  /api/clock            latest clock snapshot
//	POST /api/game/new         body is an events.NewGameRequest
//	POST /api/game/start
//	POST /api/game/pause
//	POST /api/game/resign      optional ?side=white|black
//	POST /api/game/regret
//	POST /api/game/draw
//	POST /api/move             body is {"move": "e2e4"}
//	POST /api/button/{side}
//	GET  /api/history          optional ?limit=n
//	GET  /api/history/{id}
//	GET  /api/history/{id}/pgn
//	GET  /ws
//
// Request routes reply with the game state after the request has been handled
// by the bus.
package server
