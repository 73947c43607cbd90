package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"
)

// SessionManager gates uploads behind the configured password. Sessions
// live in memory only; restarting the server logs everyone out.
type SessionManager struct {
	password string
	sessions map[string]*Session
	mu       sync.RWMutex
}

// Session represents one authenticated browser
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSessionManager creates a session manager. An empty password disables
// the gate entirely.
func NewSessionManager(password string) *SessionManager {
	sm := &SessionManager{
		password: password,
		sessions: make(map[string]*Session),
	}

	go sm.cleanupExpiredSessions()

	return sm
}

// Enabled reports whether a password gate is configured
func (sm *SessionManager) Enabled() bool {
	return sm.password != ""
}

// Login checks the password and, on success, creates a session and
// returns its token
func (sm *SessionManager) Login(password string) (string, bool) {
	if !sm.Enabled() {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(sm.password)) != 1 {
		return "", false
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	token := generateToken()
	sm.sessions[token] = &Session{
		Token:     token,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
	return token, true
}

// ValidateSession checks if a session token is valid and unexpired
func (sm *SessionManager) ValidateSession(token string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[token]
	if !exists {
		return false
	}
	return time.Now().Before(session.ExpiresAt)
}

// DeleteSession removes a session
func (sm *SessionManager) DeleteSession(token string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, token)
}

// cleanupExpiredSessions periodically removes expired sessions
func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		now := time.Now()
		for token, session := range sm.sessions {
			if now.After(session.ExpiresAt) {
				delete(sm.sessions, token)
			}
		}
		sm.mu.Unlock()
	}
}

// generateToken generates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based token if random fails
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(bytes)
}
