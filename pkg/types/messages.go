package types

// Client -> Server (websocket, JSON)
// Join: {}
//   adds the resolved user to the lobby
//
// Leave: {}
//   removes the user from the lobby; mid-game this resets the session
//   back to the lobby when the policy allows it
//
// Start: {}
//   host or any player; server samples the initial letter and starting
//   player, guard: at least two players
//
// AddWord:
//   word: string
//   sent_at: number (unix ms; rejected when older than the stale bound)
//
// ClearWords: {} (host only)

// Server -> Client
// StateSnapshot:
//   version: number
//   host: string
//   state:
//     phase: "lobby" | "playing" | "ended"
//     players: string[]          // join order, players[0] is host
//     currentTurn: string        // playing only
//     letter: string             // playing only, uppercase
//     words: { author, word, timestamp }[]
//     lostPlayers: string[]      // elimination order
//     leaderboard: string[]      // ended only, winner first
//
// Error:
//   error: string
