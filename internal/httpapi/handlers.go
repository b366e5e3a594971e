package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wordchain/backend/internal/engine"
	"github.com/wordchain/backend/internal/hub"
	"github.com/wordchain/backend/internal/identity"
	"github.com/wordchain/backend/internal/session"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateSession allocates a fresh code and joins the creator, mirroring how
// the original seeded a new game with its creator already in the players
// list.
func CreateSession(h *hub.Hub, idp identity.Provider, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetSession{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		creator := idp.Resolve(r)
		s.Inbox() <- session.FromClient{Cmd: engine.Command{Type: engine.CmdJoin, User: creator}}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
			Host string `json:"host"`
		}{Code: code, Host: creator})
	}
}

// GetSession serves a point-in-time view for late loaders, straight from
// the actor rather than the store.
func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		s := <-reply
		if s == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		viewReply := make(chan session.View, 1)
		s.Inbox() <- session.GetState{Reply: viewReply}
		select {
		case view := <-viewReply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(struct {
				Version int          `json:"version"`
				Host    string       `json:"host"`
				State   engine.State `json:"state"`
			}{Version: view.Version, Host: engine.Host(view.State), State: view.State})
		case <-time.After(3 * time.Second):
			http.Error(w, "session unresponsive", http.StatusServiceUnavailable)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
