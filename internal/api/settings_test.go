package api

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/agenda/internal/kv"
)

const (
	testBaseURLKey = "agenda_oxum_apiBaseUrl"
	testAPIKeyKey  = "agenda_oxum_apiKey"
)

// failingStore wraps kv.Memory and fails writes on demand. failKey limits
// Set failures to one key; empty means every key.
type failingStore struct {
	kv.Memory
	setErr    error
	failKey   string
	removeErr error
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil && (f.failKey == "" || f.failKey == key) {
		return f.setErr
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Memory.Remove(ctx, key)
}

func newTestSettings(t *testing.T, seed map[string]string) (*Settings, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory(seed)
	s, err := LoadSettings(context.Background(), store, "")
	require.NoError(t, err)
	return s, store
}

func TestLoadSettings_RestoresSavedValues(t *testing.T) {
	s, _ := newTestSettings(t, map[string]string{
		testBaseURLKey: "https://api.example.com",
		testAPIKeyKey:  "key-1234",
	})
	assert.True(t, s.IsConfigured())
	assert.Equal(t, "https://api.example.com", s.BaseURL())

	_, h := s.snapshot()
	assert.Equal(t, "Bearer key-1234", h.Get("Authorization"))
}

func TestLoadSettings_CustomNamespace(t *testing.T) {
	store := kv.NewMemory(map[string]string{
		"other_apiBaseUrl": "https://other",
		"other_apiKey":     "k",
	})
	s, err := LoadSettings(context.Background(), store, "other")
	require.NoError(t, err)
	assert.True(t, s.IsConfigured())
}

func TestLoadSettings_RequiresStore(t *testing.T) {
	_, err := LoadSettings(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestSettings_SetThenClear(t *testing.T) {
	ctx := context.Background()
	cases := []struct{ baseURL, apiKey string }{
		{"https://api.example.com", "k"},
		{"http://127.0.0.1:8080", "a-much-longer-api-key"},
		{"https://api.example.com/v1/", "key"},
	}
	for _, tc := range cases {
		s, store := newTestSettings(t, nil)
		require.NoError(t, s.Set(ctx, tc.baseURL, tc.apiKey))
		assert.True(t, s.IsConfigured())

		v, ok, _ := store.Get(ctx, testAPIKeyKey)
		assert.True(t, ok)
		assert.Equal(t, tc.apiKey, v)

		require.NoError(t, s.Clear(ctx))
		assert.False(t, s.IsConfigured())
		assert.Empty(t, store.Snapshot())
	}
}

func TestSettings_IsConfiguredReadsMemoryOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("store emptied underneath", func(t *testing.T) {
		s, store := newTestSettings(t, nil)
		require.NoError(t, s.Set(ctx, "https://api", "k"))

		require.NoError(t, store.Remove(ctx, testBaseURLKey))
		require.NoError(t, store.Remove(ctx, testAPIKeyKey))

		assert.True(t, s.IsConfigured())
		assert.Equal(t, "https://api", s.BaseURL())
	})

	t.Run("store filled underneath", func(t *testing.T) {
		s, store := newTestSettings(t, nil)

		require.NoError(t, store.Set(ctx, testBaseURLKey, "https://api"))
		require.NoError(t, store.Set(ctx, testAPIKeyKey, "k"))

		assert.False(t, s.IsConfigured())
		assert.Empty(t, s.BaseURL())
	})
}

func TestSettings_SetTrimsTrailingSlash(t *testing.T) {
	s, _ := newTestSettings(t, nil)
	require.NoError(t, s.Set(context.Background(), " https://api.example.com/ ", " k "))
	assert.Equal(t, "https://api.example.com", s.BaseURL())
	assert.Equal(t, "k", s.APIKey())
}

func TestSettings_SetValidation(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct{ baseURL, apiKey string }{
		{"", "k"},
		{"https://api", ""},
		{"   ", "   "},
	} {
		s, store := newTestSettings(t, nil)
		err := s.Set(ctx, tc.baseURL, tc.apiKey)
		assert.ErrorIs(t, err, ErrValidation)
		assert.False(t, s.IsConfigured())
		assert.Empty(t, store.Snapshot())
	}
}

func TestSettings_SetStoreFailureLeavesStateUnchanged(t *testing.T) {
	store := &failingStore{setErr: errors.New("disk full")}
	s, err := LoadSettings(context.Background(), store, "")
	require.NoError(t, err)

	assert.Error(t, s.Set(context.Background(), "https://api", "k"))
	assert.False(t, s.IsConfigured())
}

func TestSettings_SetRevertsBaseURLWhenKeyWriteFails(t *testing.T) {
	ctx := context.Background()

	t.Run("previous values kept", func(t *testing.T) {
		store := &failingStore{}
		s, err := LoadSettings(ctx, store, "")
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, "https://old", "old-key"))

		store.setErr = errors.New("disk full")
		store.failKey = testAPIKeyKey
		err = s.Set(ctx, "https://new", "new-key")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.setErr)

		assert.Equal(t, map[string]string{
			testBaseURLKey: "https://old",
			testAPIKeyKey:  "old-key",
		}, store.Snapshot())
		assert.Equal(t, "https://old", s.BaseURL())
		assert.Equal(t, "old-key", s.APIKey())
	})

	t.Run("nothing saved before", func(t *testing.T) {
		store := &failingStore{setErr: errors.New("disk full"), failKey: testAPIKeyKey}
		s, err := LoadSettings(ctx, store, "")
		require.NoError(t, err)

		require.Error(t, s.Set(ctx, "https://new", "new-key"))
		assert.Empty(t, store.Snapshot())
		assert.False(t, s.IsConfigured())
	})
}

func TestSettings_ConcurrentSetAndClearStayConsistent(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSettings(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "https://api", "k")
		}()
		go func() {
			defer wg.Done()
			_ = s.Clear(ctx)
		}()
	}
	wg.Wait()

	_, hasURL, _ := store.Get(ctx, testBaseURLKey)
	_, hasKey, _ := store.Get(ctx, testAPIKeyKey)
	assert.Equal(t, hasURL, hasKey)
	assert.Equal(t, hasURL && hasKey, s.IsConfigured())
}

func TestSettings_ClearTwiceMatchesOnce(t *testing.T) {
	ctx := context.Background()
	once, _ := newTestSettings(t, nil)
	twice, _ := newTestSettings(t, nil)
	for _, s := range []*Settings{once, twice} {
		require.NoError(t, s.Set(ctx, "https://api", "key-1"))
	}

	require.NoError(t, once.Clear(ctx))
	require.NoError(t, twice.Clear(ctx))
	require.NoError(t, twice.Clear(ctx))

	u1, h1 := once.snapshot()
	u2, h2 := twice.snapshot()
	assert.Equal(t, u1, u2)
	assert.Equal(t, once.IsConfigured(), twice.IsConfigured())
	assert.Equal(t, h1, h2)
	assert.Len(t, h2, 1)
	assert.Equal(t, "application/json", h2.Get("Content-Type"))
}

func TestSettings_ClearResetsMemoryEvenWhenStoreFails(t *testing.T) {
	store := &failingStore{}
	s, err := LoadSettings(context.Background(), store, "")
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "https://api", "k"))

	store.removeErr = errors.New("locked")
	assert.Error(t, s.Clear(context.Background()))
	assert.False(t, s.IsConfigured())
}

func TestSettings_RedactedKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSettings(t, nil)
	assert.Empty(t, s.RedactedKey())

	require.NoError(t, s.Set(ctx, "https://api", "abcdef123456"))
	assert.Equal(t, "***3456", s.RedactedKey())

	require.NoError(t, s.Set(ctx, "https://api", "abc"))
	assert.Equal(t, "***", s.RedactedKey())
}
