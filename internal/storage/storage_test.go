package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storesUnderTest runs fn against every Store implementation
func storesUnderTest(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

func TestStore_GetMissing(t *testing.T) {
	storesUnderTest(t, func(t *testing.T, s Store) {
		_, err := s.Get(KeyAuthToken)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "", GetString(s, KeyAuthToken))
	})
}

func TestStore_SetGetOverwrite(t *testing.T) {
	storesUnderTest(t, func(t *testing.T, s Store) {
		require.NoError(t, s.Set(KeyAuthToken, "first"))
		require.NoError(t, s.Set(KeyAuthToken, "second"))

		value, err := s.Get(KeyAuthToken)
		require.NoError(t, err)
		assert.Equal(t, "second", value)
	})
}

func TestStore_RemoveMany(t *testing.T) {
	storesUnderTest(t, func(t *testing.T, s Store) {
		require.NoError(t, s.Set(KeyAuthToken, "a"))
		require.NoError(t, s.Set(KeyRefreshToken, "r"))
		require.NoError(t, s.Set(KeyUserData, "{}"))
		require.NoError(t, s.Set(KeyRecentSearches, "[]"))

		require.NoError(t, s.Remove(KeyAuthToken, KeyRefreshToken, KeyUserData, "missing"))

		for _, key := range []string{KeyAuthToken, KeyRefreshToken, KeyUserData} {
			_, err := s.Get(key)
			assert.ErrorIs(t, err, ErrNotFound, key)
		}
		assert.Equal(t, "[]", GetString(s, KeyRecentSearches))
	})
}

func TestLoadJSON(t *testing.T) {
	type user struct {
		Email string `json:"email"`
	}

	storesUnderTest(t, func(t *testing.T, s Store) {
		var u user
		found, err := LoadJSON(s, KeyUserData, &u)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, SaveJSON(s, KeyUserData, user{Email: "a@b.co"}))
		found, err = LoadJSON(s, KeyUserData, &u)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a@b.co", u.Email)
	})
}

func TestLoadJSON_CorruptedIsCleared(t *testing.T) {
	storesUnderTest(t, func(t *testing.T, s Store) {
		require.NoError(t, s.Set(KeyUserData, "{not json"))

		var v map[string]any
		found, err := LoadJSON(s, KeyUserData, &v)
		require.NoError(t, err)
		assert.False(t, found)

		_, err = s.Get(KeyUserData)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddRecentSearch(t *testing.T) {
	s := NewMemoryStore()

	_, err := AddRecentSearch(s, "golang")
	require.NoError(t, err)
	_, err = AddRecentSearch(s, "rust")
	require.NoError(t, err)
	searches, err := AddRecentSearch(s, "  GoLang ")
	require.NoError(t, err)

	assert.Equal(t, []string{"GoLang", "rust"}, searches)
	assert.Equal(t, searches, RecentSearches(s))
}

func TestAddRecentSearch_IgnoresBlank(t *testing.T) {
	s := NewMemoryStore()

	searches, err := AddRecentSearch(s, "   ")
	require.NoError(t, err)
	assert.Empty(t, searches)
	_, err = s.Get(KeyRecentSearches)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRecentSearch_Capped(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < MaxRecentSearches+5; i++ {
		_, err := AddRecentSearch(s, fmt.Sprintf("term-%d", i))
		require.NoError(t, err)
	}

	searches := RecentSearches(s)
	assert.Len(t, searches, MaxRecentSearches)
	assert.Equal(t, fmt.Sprintf("term-%d", MaxRecentSearches+4), searches[0])
}

func TestRecentSearches_Corrupted(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(KeyRecentSearches, "oops"))

	assert.Empty(t, RecentSearches(s))
	_, err := s.Get(KeyRecentSearches)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearRecentSearches(t *testing.T) {
	s := NewMemoryStore()
	_, _ = AddRecentSearch(s, "go")

	require.NoError(t, ClearRecentSearches(s))
	assert.Empty(t, RecentSearches(s))
}

func TestOpen(t *testing.T) {
	mem, closeFn, err := Open(":memory:")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)
	assert.NoError(t, closeFn())

	file, closeFn, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, file)
	assert.NoError(t, closeFn())
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyRefreshToken, "keep-me"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	value, err := second.Get(KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", value)
}
