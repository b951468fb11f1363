package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultFallbackUsername = "admin"
	defaultFallbackPassword = "admin123"
	localTokenPrefix        = "local-"
)

var (
	defaultHashOnce sync.Once
	defaultHash     []byte
)

func builtinHash() []byte {
	defaultHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte(defaultFallbackPassword), bcrypt.DefaultCost)
		if err != nil {
			panic(err)
		}
		defaultHash = h
	})
	return defaultHash
}

// Credential is the local username and bcrypt password hash accepted when the
// remote login is unavailable. An empty PasswordHash means the built-in
// password.
type Credential struct {
	Username     string
	PasswordHash string
}

// DefaultCredential returns admin with the built-in password.
func DefaultCredential() Credential {
	return Credential{Username: defaultFallbackUsername}
}

// Matches reports whether username and password match c.
func (c Credential) Matches(username, password string) bool {
	if c.Username == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1

	hash := []byte(c.PasswordHash)
	if len(hash) == 0 {
		hash = builtinHash()
	}
	passOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
	return userOK && passOK
}

// localSession synthesizes the offline session for the matched fallback username.
func localSession(username string) *Session {
	return &Session{
		Token: localTokenPrefix + uuid.NewString(),
		User: User{
			ID:       "1",
			Name:     "Administrador",
			Username: username,
			Role:     "Admin",
		},
		Local: true,
	}
}
