package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/five82/agenda/internal/kv"
)

// DefaultNamespace prefixes the persisted settings keys.
const DefaultNamespace = "agenda_oxum"

// Settings holds the API base URL and key, persisted through a kv.Store.
// The header set is rebuilt on every mutation and copied when a request is
// built, so in-flight requests keep the headers they started with.
type Settings struct {
	store     kv.Store
	namespace string

	// writeMu serializes Set and Clear so storage and memory change together.
	writeMu sync.Mutex

	mu      sync.RWMutex
	baseURL string
	apiKey  string
	headers http.Header
}

// LoadSettings reads any previously saved base URL and API key from store.
func LoadSettings(ctx context.Context, store kv.Store, namespace string) (*Settings, error) {
	if store == nil {
		return nil, fmt.Errorf("settings require a store")
	}
	if strings.TrimSpace(namespace) == "" {
		namespace = DefaultNamespace
	}
	s := &Settings{store: store, namespace: namespace}

	baseURL, _, err := store.Get(ctx, s.baseURLKey())
	if err != nil {
		return nil, fmt.Errorf("load base url: %w", err)
	}
	apiKey, _, err := store.Get(ctx, s.apiKeyKey())
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}
	s.apply(baseURL, apiKey)
	return s, nil
}

// Set validates and persists the base URL and API key.
func (s *Settings) Set(ctx context.Context, baseURL, apiKey string) error {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrValidation)
	}
	if apiKey == "" {
		return fmt.Errorf("%w: API key is required", ErrValidation)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prevURL, hadURL, err := s.store.Get(ctx, s.baseURLKey())
	if err != nil {
		return fmt.Errorf("read base url: %w", err)
	}
	if err := s.store.Set(ctx, s.baseURLKey(), baseURL); err != nil {
		return fmt.Errorf("save base url: %w", err)
	}
	if err := s.store.Set(ctx, s.apiKeyKey(), apiKey); err != nil {
		return fmt.Errorf("save api key: %w", errors.Join(err, s.revert(ctx, s.baseURLKey(), prevURL, hadURL)))
	}

	s.mu.Lock()
	s.apply(baseURL, apiKey)
	s.mu.Unlock()
	return nil
}

// Clear forgets the saved settings. In-memory state is reset even when the
// store fails to remove a key.
func (s *Settings) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.apply("", "")
	s.mu.Unlock()

	return errors.Join(
		s.store.Remove(ctx, s.baseURLKey()),
		s.store.Remove(ctx, s.apiKeyKey()),
	)
}

// IsConfigured reports whether both base URL and API key are set.
func (s *Settings) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL != "" && s.apiKey != ""
}

// BaseURL returns the configured base URL, or "" when unset.
func (s *Settings) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

// APIKey returns the saved API key.
func (s *Settings) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

// RedactedKey returns the API key with everything but the last four characters hidden.
func (s *Settings) RedactedKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.apiKey) > 4 {
		return "***" + s.apiKey[len(s.apiKey)-4:]
	}
	if s.apiKey == "" {
		return ""
	}
	return "***"
}

// revert puts key back to its previous stored state.
func (s *Settings) revert(ctx context.Context, key, prev string, had bool) error {
	if had {
		return s.store.Set(ctx, key, prev)
	}
	return s.store.Remove(ctx, key)
}

// snapshot returns the base URL and a private copy of the header set.
func (s *Settings) snapshot() (string, http.Header) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL, s.headers.Clone()
}

// apply must be called with mu held (or before s is shared).
func (s *Settings) apply(baseURL, apiKey string) {
	s.baseURL = baseURL
	s.apiKey = apiKey
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if apiKey != "" {
		h.Set("Authorization", "Bearer "+apiKey)
	}
	s.headers = h
}

func (s *Settings) baseURLKey() string { return s.namespace + "_apiBaseUrl" }
func (s *Settings) apiKeyKey() string  { return s.namespace + "_apiKey" }
