// Package identity resolves who is making a request. Resolution failure
// degrades to the anonymous sentinel; it never blocks gameplay.
package identity

import (
	"net/http"
	"strings"
)

const Anonymous = "anonymous"

type Provider interface {
	Resolve(r *http.Request) string
}

// Header reads the display name from a request header, falling back to the
// "user" query parameter for websocket clients that cannot set headers.
type Header struct {
	Name string
}

const defaultHeader = "X-Player-Name"

func (h Header) Resolve(r *http.Request) string {
	name := h.Name
	if name == "" {
		name = defaultHeader
	}

	user := strings.TrimSpace(r.Header.Get(name))
	if user == "" {
		user = strings.TrimSpace(r.URL.Query().Get("user"))
	}
	if user == "" {
		return Anonymous
	}
	return user
}
