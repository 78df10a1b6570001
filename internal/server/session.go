package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	sessionCookieName = "tourney_session"
	sessionLifetime   = time.Hour
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

// sessionManager hands out signed staff session tokens. A token is only
// accepted while its session id is still live server-side, so Revoke takes
// effect immediately no matter what the cookie says.
type sessionManager struct {
	signKey []byte
	live    *cache.Cache
}

func newSessionManager(signKey string) *sessionManager {
	return &sessionManager{
		signKey: []byte(signKey),
		live:    cache.New(sessionLifetime, sessionLifetime),
	}
}

func (sm *sessionManager) Grant() (token string, err error) {
	sessionID := uuid.NewString()

	claims := &sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionLifetime)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sm.signKey)
	if err != nil {
		return
	}

	sm.live.Set(sessionID, true, sessionLifetime)

	return
}

func (sm *sessionManager) Verify(token string) bool {
	sessionID, ok := sm.parse(token)
	if !ok {
		return false
	}

	_, ok = sm.live.Get(sessionID)

	return ok
}

func (sm *sessionManager) Revoke(token string) {
	if sessionID, ok := sm.parse(token); ok {
		sm.live.Delete(sessionID)
	}
}

func (sm *sessionManager) parse(token string) (sessionID string, ok bool) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, hmacOK := t.Method.(*jwt.SigningMethodHMAC); !hmacOK {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}

			return sm.signKey, nil
		})
	if err != nil || !parsed.Valid {
		return
	}

	claims, claimsOK := parsed.Claims.(*sessionClaims)
	if !claimsOK || claims.ID == "" {
		return
	}

	return claims.ID, true
}
