package ws

import (
	"testing"
	"time"

	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/types"
)

func TestToCommand(t *testing.T) {
	sentAt := time.Now().Add(-time.Second).UnixMilli()
	cases := []struct {
		name string
		msg  types.ClientMessage
		want engine.CommandType
		ok   bool
	}{
		{name: "join", msg: types.ClientMessage{Type: "Join"}, want: engine.CmdJoin, ok: true},
		{name: "leave", msg: types.ClientMessage{Type: "Leave"}, want: engine.CmdLeave, ok: true},
		{name: "start", msg: types.ClientMessage{Type: "Start"}, want: engine.CmdStart, ok: true},
		{name: "add word", msg: types.ClientMessage{Type: "AddWord", Word: "queen", SentAt: sentAt}, want: engine.CmdAddWord, ok: true},
		{name: "clear words", msg: types.ClientMessage{Type: "ClearWords"}, want: engine.CmdClearWords, ok: true},
		{name: "unknown", msg: types.ClientMessage{Type: "Dance"}, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := toCommand(tc.msg, "alice")
			if ok != tc.ok {
				t.Fatalf("ok: got %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if cmd.Type != tc.want || cmd.User != "alice" {
				t.Fatalf("got %+v", cmd)
			}
			if tc.want == engine.CmdAddWord {
				if cmd.Word != "queen" || cmd.SubmittedAt.UnixMilli() != sentAt {
					t.Fatalf("add word payload lost: %+v", cmd)
				}
			}
		})
	}
}
