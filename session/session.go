// Package session centralises access to the persisted bearer token so that
// screens never touch the storage mechanism directly.
package session

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie is the single storage key the bearer token lives under.
const TokenCookie = "access_token"

// Store is the session-access surface injected into the screens. Absence of
// a token means logged out; no expiry or signature check happens here.
type Store interface {
	Token() (string, bool)
	Save(token string)
	Clear()
}

// CookieStore reads and writes the token cookie for a single request.
// Construct one per request.
type CookieStore struct {
	w http.ResponseWriter
	r *http.Request
}

func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r}
}

func (s *CookieStore) Token() (string, bool) {
	c, err := s.r.Cookie(TokenCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (s *CookieStore) Save(token string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieStore) Clear() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
}

func secureCookies() bool {
	switch strings.ToLower(os.Getenv("DEVELOPMENT_MODE")) {
	case "1", "true", "yes":
		return false
	}
	return true
}

// Memory holds the token in process memory. The edit screen keeps one per
// edit session, synced from the request cookie; tests seed it directly.
type Memory struct {
	mu    sync.Mutex
	token string
	set   bool
}

func (m *Memory) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set && m.token != ""
}

func (m *Memory) Save(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = token != ""
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
}

// DisplayName extracts a name from the token's claims without verifying the
// signature. It is display-only; an undecodable token yields an error and
// the caller shows nothing.
func DisplayName(token string) (string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", err
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub, nil
	}
	return "", nil
}
