package types

// Durable snapshot (one row per session, jsonb):
//   state:
//     phase, players, currentTurn, letter, words, lostPlayers, leaderboard,
//     rules { turnTimeout, maxWordAge, resetOnLeave }
//   timeoutJobId: string  // outstanding turn-clock job, if any
//   updatedAt: timestamp
//
// Writes are last-write-wins and fire-and-forget; the broadcast channel is
// the primary synchronization path, the snapshot only serves reconnecting
// and late-joining clients.
