package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	sessionName  = "vendas-session"
	formKeyValue = "formKey"
)

func newSessionStore(secret []byte) sessions.Store {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// formKey returns the key of the caller's order form, issuing a new one on first visit.
// It must run before anything is written to w.
func (s *Server) formKey(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode yields a fresh session, which is what we want.
	session, _ := s.sessions.Get(r, sessionName)
	if key, ok := session.Values[formKeyValue].(string); ok && key != "" {
		return key, nil
	}
	key := uuid.NewString()
	session.Values[formKeyValue] = key
	if err := session.Save(r, w); err != nil {
		return "", errors.Wrap(err, "save session")
	}
	return key, nil
}
