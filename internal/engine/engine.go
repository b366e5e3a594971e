package engine

import (
	"errors"
	"slices"
	"time"
)

var ErrNotInLobby = errors.New("session is not in the lobby")
var ErrNotPlaying = errors.New("no game in progress")
var ErrNotEnoughPlayers = errors.New("need at least two players")
var ErrWrongTurn = errors.New("not this player's turn")
var ErrEmptyWord = errors.New("empty word")
var ErrStaleWord = errors.New("word submitted too long ago")
var ErrNotHost = errors.New("only the host may do this")
var ErrBadStart = errors.New("start payload is invalid")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Word is a single accepted entry in the chain.
type Word struct {
	Author    string    `json:"author"`
	Word      string    `json:"word"`
	Timestamp time.Time `json:"timestamp"`
}

type Rules struct {
	// TurnTimeout is how long the current player has before elimination.
	TurnTimeout time.Duration `json:"turnTimeout"`
	// MaxWordAge bounds how old a submission's timestamp may be at receipt.
	MaxWordAge time.Duration `json:"maxWordAge"`
	// ResetOnLeave returns a running game to the lobby when someone bails.
	ResetOnLeave bool `json:"resetOnLeave"`
}

// State is the full session data model. Players keeps join order and is
// never reordered; Players[0] is the host. LostPlayers keeps elimination
// order. Leaderboard is set exactly once, on the transition to PhaseEnded.
type State struct {
	Phase       Phase    `json:"phase"`
	Players     []string `json:"players"`
	CurrentTurn string   `json:"currentTurn,omitempty"`
	Letter      string   `json:"letter,omitempty"`
	Words       []Word   `json:"words,omitempty"`
	LostPlayers []string `json:"lostPlayers,omitempty"`
	Leaderboard []string `json:"leaderboard,omitempty"`
	Rules       Rules    `json:"rules"`
}

type CommandType string

const (
	CmdJoin       CommandType = "Join"
	CmdLeave      CommandType = "Leave"
	CmdStart      CommandType = "Start"
	CmdAddWord    CommandType = "AddWord"
	CmdTimeout    CommandType = "Timeout"
	CmdClearWords CommandType = "ClearWords"
)

// Command is a user or timer intent. Start carries the pre-sampled letter
// and starting player so every consumer of the resulting event agrees
// without recomputation. Timeout carries the turn the timer was armed for,
// which is what makes stale and duplicate fires safe to absorb.
type Command struct {
	Type        CommandType
	User        string
	Word        string
	SubmittedAt time.Time
	Now         time.Time
	Letter      string
	StartTurn   string
	Turn        string
}

type EventType string

const (
	EvtPlayerJoined     EventType = "PlayerJoined"
	EvtPlayerLeft       EventType = "PlayerLeft"
	EvtGameStarted      EventType = "GameStarted"
	EvtWordAdded        EventType = "WordAdded"
	EvtTurnAdvanced     EventType = "TurnAdvanced"
	EvtPlayerEliminated EventType = "PlayerEliminated"
	EvtGameEnded        EventType = "GameEnded"
	EvtWordsCleared     EventType = "WordsCleared"
	EvtSessionReset     EventType = "SessionReset"
)

type Event struct {
	Type        EventType `json:"type"`
	User        string    `json:"user,omitempty"`
	Word        string    `json:"word,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	Letter      string    `json:"letter,omitempty"`
	Turn        string    `json:"turn,omitempty"`
	Leaderboard []string  `json:"leaderboard,omitempty"`
}

// Apply validates cmd against s and returns the events it produces plus the
// state after folding those events through Step. s is never mutated; callers
// can safely retry or discard. A nil event slice with a nil error means the
// command was absorbed as a no-op (duplicate join, stale timeout).
func Apply(s State, cmd Command) ([]Event, State, error) {
	var events []Event

	switch cmd.Type {
	case CmdJoin:
		if s.Phase != PhaseLobby {
			return nil, s, ErrNotInLobby
		}
		if slices.Contains(s.Players, cmd.User) {
			return nil, s, nil
		}
		events = []Event{{Type: EvtPlayerJoined, User: cmd.User}}

	case CmdLeave:
		if s.Phase != PhaseLobby {
			// Mid-game leave is a full reset back to the lobby when the
			// policy allows it; the players list survives.
			if !s.Rules.ResetOnLeave {
				return nil, s, ErrNotInLobby
			}
			events = []Event{{Type: EvtSessionReset, User: cmd.User}}
			break
		}
		if !slices.Contains(s.Players, cmd.User) {
			return nil, s, nil
		}
		events = []Event{{Type: EvtPlayerLeft, User: cmd.User}}

	case CmdStart:
		if s.Phase != PhaseLobby {
			return nil, s, ErrNotInLobby
		}
		if len(s.Players) < 2 {
			return nil, s, ErrNotEnoughPlayers
		}
		if len(cmd.Letter) != 1 || !slices.Contains(s.Players, cmd.StartTurn) {
			return nil, s, ErrBadStart
		}
		events = []Event{{Type: EvtGameStarted, Letter: cmd.Letter, Turn: cmd.StartTurn}}

	case CmdAddWord:
		if s.Phase != PhasePlaying {
			return nil, s, ErrNotPlaying
		}
		if cmd.User != s.CurrentTurn {
			return nil, s, ErrWrongTurn
		}
		if cmd.Word == "" {
			return nil, s, ErrEmptyWord
		}
		if cmd.Now.Sub(cmd.SubmittedAt) > s.Rules.MaxWordAge {
			return nil, s, ErrStaleWord
		}
		next := nextActive(s, s.CurrentTurn)
		events = []Event{
			{Type: EvtWordAdded, User: cmd.User, Word: cmd.Word, Timestamp: cmd.SubmittedAt},
			{Type: EvtTurnAdvanced, Turn: next},
		}

	case CmdTimeout:
		// Stale or duplicate fires land here after the turn has already
		// moved on; they must leave the state untouched.
		if s.Phase != PhasePlaying {
			return nil, s, nil
		}
		if cmd.Turn != s.CurrentTurn || slices.Contains(s.LostPlayers, cmd.Turn) {
			return nil, s, nil
		}
		events = []Event{{Type: EvtPlayerEliminated, User: cmd.Turn}}
		remaining := activeWithout(s, cmd.Turn)
		if len(remaining) == 1 {
			lost := append(slices.Clone(s.LostPlayers), cmd.Turn)
			events = append(events, Event{
				Type:        EvtGameEnded,
				Leaderboard: buildLeaderboard(remaining[0], lost),
			})
		} else {
			events = append(events, Event{Type: EvtTurnAdvanced, Turn: nextActive(s, cmd.Turn)})
		}

	case CmdClearWords:
		if s.Phase != PhasePlaying {
			return nil, s, ErrNotPlaying
		}
		if cmd.User != Host(s) {
			return nil, s, ErrNotHost
		}
		events = []Event{{Type: EvtWordsCleared}}

	default:
		return nil, s, ErrUnsupportedCommand
	}

	newState := s
	for _, ev := range events {
		newState = Step(newState, ev)
	}
	return events, newState, nil
}

// Step is the pure reducer. Local commands and broadcast events from other
// replicas go through the same code path, so replaying a session's event
// stream from scratch reproduces its state exactly.
func Step(s State, ev Event) State {
	switch ev.Type {
	case EvtPlayerJoined:
		if !slices.Contains(s.Players, ev.User) {
			s.Players = append(slices.Clip(slices.Clone(s.Players)), ev.User)
		}

	case EvtPlayerLeft:
		s.Players = slices.DeleteFunc(slices.Clone(s.Players), func(p string) bool {
			return p == ev.User
		})

	case EvtGameStarted:
		s.Phase = PhasePlaying
		s.Letter = ev.Letter
		s.CurrentTurn = ev.Turn
		s.Words = nil
		s.LostPlayers = nil
		s.Leaderboard = nil

	case EvtWordAdded:
		s.Words = append(slices.Clip(slices.Clone(s.Words)), Word{Author: ev.User, Word: ev.Word, Timestamp: ev.Timestamp})
		s.Letter = lastLetter(ev.Word)

	case EvtTurnAdvanced:
		s.CurrentTurn = ev.Turn

	case EvtPlayerEliminated:
		if !slices.Contains(s.LostPlayers, ev.User) {
			s.LostPlayers = append(slices.Clip(slices.Clone(s.LostPlayers)), ev.User)
		}

	case EvtGameEnded:
		s.Phase = PhaseEnded
		s.CurrentTurn = ""
		s.Leaderboard = slices.Clone(ev.Leaderboard)

	case EvtWordsCleared:
		s.Words = nil

	case EvtSessionReset:
		s.Phase = PhaseLobby
		s.CurrentTurn = ""
		s.Letter = ""
		s.Words = nil
		s.LostPlayers = nil
		s.Leaderboard = nil
	}
	return s
}
