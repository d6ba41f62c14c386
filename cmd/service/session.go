package main

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionCookieName = "session"

// UserSession is the signed-in user, if any.
type UserSession struct {
	Username string
}

func newSessionStore(secret string) *sessions.CookieStore {
	if secret == "" {
		return nil
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	}
	return store
}

// resolveSession reads the user from the signed session cookie. It returns
// nil when sessions are disabled or the cookie is absent or invalid.
func resolveSession(r *http.Request, store *sessions.CookieStore) *UserSession {
	if store == nil {
		return nil
	}
	if _, err := r.Cookie(sessionCookieName); err != nil {
		return nil
	}
	sess, err := store.Get(r, sessionCookieName)
	if err != nil {
		return nil
	}
	username, ok := sess.Values["username"].(string)
	if !ok || username == "" {
		return nil
	}
	return &UserSession{Username: username}
}
