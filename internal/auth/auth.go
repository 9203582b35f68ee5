// Package auth verifies dashboard credentials. The store is injected into
// the server so nothing in the analysis path depends on authentication.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Store verifies a username/password pair at session start.
type Store interface {
	Verify(username, password string) bool
}

// StaticStore holds username -> bcrypt hash, typically loaded from config.
type StaticStore struct {
	users map[string]string
}

// NewStaticStore copies the given credential map.
func NewStaticStore(users map[string]string) *StaticStore {
	copied := make(map[string]string, len(users))
	for k, v := range users {
		copied[k] = v
	}
	return &StaticStore{users: copied}
}

// Verify reports whether the password matches the stored hash for the
// user. Unknown users fail closed.
func (s *StaticStore) Verify(username, password string) bool {
	hash, ok := s.users[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Empty reports whether the store has no users at all. The server treats
// an empty store as "auth disabled" for local use.
func (s *StaticStore) Empty() bool {
	return len(s.users) == 0
}

// HashPassword produces a bcrypt hash suitable for the users config map.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
