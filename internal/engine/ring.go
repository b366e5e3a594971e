package engine

import (
	"math/rand"
	"slices"
	"strings"
	"time"
)

// DefaultRules matches the original game's timings: a 60 second turn clock
// and a 5 second tolerance on submission timestamps.
func DefaultRules() Rules {
	return Rules{
		TurnTimeout:  60 * time.Second,
		MaxWordAge:   5 * time.Second,
		ResetOnLeave: true,
	}
}

func NewLobbyState(rules Rules) State {
	return State{Phase: PhaseLobby, Rules: rules}
}

// Host is the player at position 0; host promotion on leave is implicit in
// the positional rule.
func Host(s State) string {
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[0]
}

// ActivePlayers is Players minus LostPlayers, in join order.
func ActivePlayers(s State) []string {
	active := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if !slices.Contains(s.LostPlayers, p) {
			active = append(active, p)
		}
	}
	return active
}

// nextActive walks the players ring starting just after from, skipping
// eliminated players, wrapping cyclically. Returns "" if nobody else is
// active.
func nextActive(s State, from string) string {
	start := slices.Index(s.Players, from)
	if start < 0 {
		return ""
	}
	for i := 1; i <= len(s.Players); i++ {
		p := s.Players[(start+i)%len(s.Players)]
		if p == from {
			return ""
		}
		if !slices.Contains(s.LostPlayers, p) {
			return p
		}
	}
	return ""
}

func activeWithout(s State, user string) []string {
	active := ActivePlayers(s)
	return slices.DeleteFunc(active, func(p string) bool { return p == user })
}

// buildLeaderboard ranks the winner first, then the losers most recently
// eliminated to earliest.
func buildLeaderboard(winner string, lost []string) []string {
	board := make([]string, 0, len(lost)+1)
	board = append(board, winner)
	for i := len(lost) - 1; i >= 0; i-- {
		board = append(board, lost[i])
	}
	return board
}

func lastLetter(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}
	return strings.ToUpper(string(runes[len(runes)-1]))
}

// SampleStart picks the uniform random initial letter and starting player
// for a start command. Sampled once by the session actor; the resulting
// start event carries both so replicas never re-roll.
func SampleStart(players []string) (letter, turn string) {
	letter = string(rune('A' + rand.Intn(26)))
	turn = players[rand.Intn(len(players))]
	return letter, turn
}
