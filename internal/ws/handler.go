package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/hub"
	"github.com/wordchain/backend/internal/identity"
	"github.com/wordchain/backend/internal/session"
	"github.com/wordchain/backend/internal/types"
)

func Handler(h *hub.Hub, idp identity.Provider, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		user := idp.Resolve(r)

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()

		s.Inbox() <- session.Attach{ClientID: clientID, Outbox: out}
		defer func() { s.Inbox() <- session.Detach{ClientID: clientID} }()

		log.Debug("client attached",
			zap.String("session", code),
			zap.String("user", user),
			zap.String("client", clientID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{
					Type:    "StateSnapshot",
					Version: snap.Version,
					State:   &snap.State,
					Host:    engine.Host(snap.State),
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (session.Detach in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm, user)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			s.Inbox() <- session.FromClient{Cmd: cmd}
		}
	}
}

func toCommand(m types.ClientMessage, user string) (engine.Command, bool) {
	switch m.Type {
	case "Join":
		return engine.Command{Type: engine.CmdJoin, User: user}, true
	case "Leave":
		return engine.Command{Type: engine.CmdLeave, User: user}, true
	case "Start":
		return engine.Command{Type: engine.CmdStart, User: user}, true
	case "AddWord":
		cmd := engine.Command{Type: engine.CmdAddWord, User: user, Word: m.Word}
		if m.SentAt > 0 {
			cmd.SubmittedAt = time.UnixMilli(m.SentAt)
		}
		return cmd, true
	case "ClearWords":
		return engine.Command{Type: engine.CmdClearWords, User: user}, true
	default:
		return engine.Command{}, false
	}
}
