package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Simplici0/scrapvalue/internal/calculator"
	"github.com/Simplici0/scrapvalue/internal/gesture"
)

const visitorCookieName = "scrapvalue_visitor"

// visitor is the UI state of one browser.
type visitor struct {
	calc *calculator.Controller

	mu  sync.Mutex
	nav *gesture.Navigator
}

// resetNavigation forgets the navigator so the next swipe re-reads the client
// environment, as a fresh page load would.
func (v *visitor) resetNavigation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav = nil
}

// swipe replays a complete touch on the visitor's navigator.
func (v *visitor) swipe(env gesture.Environment, start, end gesture.Point) (gesture.Direction, bool, gesture.Layout) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.nav == nil {
		v.nav = gesture.NewNavigator(env)
	}
	v.nav.TouchStart(start)
	dir := v.nav.TouchEnd(end)
	return dir, v.nav.Enabled(), v.nav.Layout()
}

func (v *visitor) layout() gesture.Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.nav == nil {
		return gesture.Stacked()
	}
	return v.nav.Layout()
}

type sessionEntry struct {
	visitor  *visitor
	lastSeen time.Time
}

type sessionStore struct {
	secret        []byte
	ttl           time.Duration
	newController func() *calculator.Controller
	now           func() time.Time

	mu       sync.Mutex
	visitors map[string]*sessionEntry
}

func newSessionStore(secret string, ttl time.Duration, newController func() *calculator.Controller) *sessionStore {
	return &sessionStore{
		secret:        []byte(secret),
		ttl:           ttl,
		newController: newController,
		now:           time.Now,
		visitors:      make(map[string]*sessionEntry),
	}
}

// visitorFor returns the visitor named by the request cookie, creating a new
// one (and setting the cookie) when the cookie is missing, forged or expired.
func (s *sessionStore) visitorFor(w http.ResponseWriter, r *http.Request) *visitor {
	if cookie, err := r.Cookie(visitorCookieName); err == nil {
		if id, ok := s.verifyCookieValue(cookie.Value); ok {
			if v := s.lookup(id); v != nil {
				return v
			}
		}
	}

	id := uuid.NewString()
	v := &visitor{calc: s.newController()}

	s.mu.Lock()
	s.visitors[id] = &sessionEntry{visitor: v, lastSeen: s.now()}
	s.mu.Unlock()

	s.setCookie(w, id)
	return v
}

func (s *sessionStore) lookup(id string) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.visitors[id]
	if !ok {
		return nil
	}
	entry.lastSeen = s.now()
	return entry.visitor
}

// sweep drops visitors idle for longer than the TTL and returns how many went.
func (s *sessionStore) sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*visitor
	for id, entry := range s.visitors {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry.visitor)
			delete(s.visitors, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		v.calc.Close()
	}
	return len(expired)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// runSweeper sweeps every interval until ctx is done.
func (s *sessionStore) runSweeper(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logger.Debug().Int("expired", n).Int("active", s.len()).Msg("swept idle visitors")
			}
		}
	}
}

func (s *sessionStore) createCookieValue(id string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(id))
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (s *sessionStore) verifyCookieValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

func (s *sessionStore) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    s.createCookieValue(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
