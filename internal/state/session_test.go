package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
)

var testUser = model.User{Email: "jane@example.com", FirstName: "Jane"}

func newTestSession() (*SessionStore, *fakeAuth, *fakeClient, *storage.MemoryStore) {
	auth := &fakeAuth{}
	client := &fakeClient{}
	store := storage.NewMemoryStore()
	return NewSession(auth, client, store, nil), auth, client, store
}

func assertSessionKeysCleared(t *testing.T, store storage.Store) {
	t.Helper()
	for _, key := range []string{storage.KeyAuthToken, storage.KeyRefreshToken, storage.KeyUserData} {
		_, err := store.Get(key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}
}

func TestReduceSession(t *testing.T) {
	user := testUser
	authenticated := Session{Status: StatusAuthenticated, User: &user}

	tests := []struct {
		name   string
		state  Session
		action SessionAction
		want   Session
	}{
		{"login started", InitialSession(), LoginStarted{}, Session{Status: StatusLoading}},
		{"login succeeded", Session{Status: StatusLoading}, LoginSucceeded{User: user}, authenticated},
		{"login failed", Session{Status: StatusLoading}, LoginFailed{Message: "bad"}, Session{Status: StatusError, Error: "bad"}},
		{"logged out", authenticated, LoggedOut{}, InitialSession()},
		{"user updated when anonymous is ignored", InitialSession(), UserUpdated{User: user}, InitialSession()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceSession(tt.state, tt.action))
		})
	}
}

func TestSession_SignInThenLogoutIsInitial(t *testing.T) {
	s, auth, client, store := newTestSession()

	require.NoError(t, s.SignIn(testUser, model.TokenPair{Access: "a", Refresh: "r"}))
	assert.True(t, s.State().IsAuthenticated())
	assert.Equal(t, "a", storage.GetString(store, storage.KeyAuthToken))
	assert.Equal(t, "r", storage.GetString(store, storage.KeyRefreshToken))

	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, InitialSession(), s.State())
	assertSessionKeysCleared(t, store)
	assert.Equal(t, []string{"r"}, auth.logoutCalls)
	assert.Equal(t, 2, client.clearCalls)
}

func TestSession_LogoutServerFailureStillClears(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.logoutErr = errors.New("offline")

	require.NoError(t, s.SignIn(testUser, model.TokenPair{Access: "a", Refresh: "r"}))
	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, InitialSession(), s.State())
	assertSessionKeysCleared(t, store)
}

func TestSession_Login(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.loginResp = &model.AuthResponse{TokenPair: model.TokenPair{Access: "a", Refresh: "r"}, User: testUser}

	var seen []SessionStatus
	s.Subscribe(func(st Session) { seen = append(seen, st.Status) })

	require.NoError(t, s.Login(context.Background(), testUser.Email, "secret"))

	assert.Equal(t, []SessionStatus{StatusLoading, StatusAuthenticated}, seen)
	assert.Equal(t, testUser.Email, s.State().User.Email)

	var cached model.User
	found, err := storage.LoadJSON(store, storage.KeyUserData, &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, testUser.Email, cached.Email)
}

func TestSession_LoginFailure(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.loginErr = &apiclient.APIError{Kind: apiclient.KindUnauthorized, Status: 401, Message: "Invalid email or password"}

	err := s.Login(context.Background(), "x@example.com", "nope")

	assert.True(t, apiclient.IsKind(err, apiclient.KindUnauthorized))
	assert.Equal(t, Session{Status: StatusError, Error: "Invalid email or password"}, s.State())
	assertSessionKeysCleared(t, store)
}

func TestSession_ForcedLogout(t *testing.T) {
	s, _, client, store := newTestSession()
	require.NoError(t, s.SignIn(testUser, model.TokenPair{Access: "a", Refresh: "r"}))

	notified := 0
	s.Subscribe(func(Session) { notified++ })

	client.unauthorized()

	assert.Equal(t, InitialSession(), s.State())
	assertSessionKeysCleared(t, store)
	assert.Equal(t, 1, notified)

	client.unauthorized()
	assert.Equal(t, 1, notified)
}

func TestSession_CloseStopsForcedLogout(t *testing.T) {
	s, _, client, _ := newTestSession()
	require.NoError(t, s.SignIn(testUser, model.TokenPair{Access: "a", Refresh: "r"}))

	s.Close()
	client.unauthorized()

	assert.True(t, s.State().IsAuthenticated())
}

func TestSession_RestoreValidToken(t *testing.T) {
	s, auth, _, store := newTestSession()
	access := jwtFor(t, testUser.Email, time.Now().Add(time.Hour))
	require.NoError(t, store.Set(storage.KeyAuthToken, access))
	require.NoError(t, store.Set(storage.KeyRefreshToken, "r"))
	require.NoError(t, storage.SaveJSON(store, storage.KeyUserData, testUser))

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, testUser.Email, s.State().User.Email)
	assert.Empty(t, auth.refreshCalls)
	assert.Equal(t, access, storage.GetString(store, storage.KeyAuthToken))
}

func TestSession_RestoreExpiredTokenRefreshes(t *testing.T) {
	s, auth, _, store := newTestSession()
	expired := jwtFor(t, testUser.Email, time.Now().Add(-time.Minute))
	fresh := jwtFor(t, testUser.Email, time.Now().Add(time.Hour))
	auth.refreshPair = &model.TokenPair{Access: fresh, Refresh: "r2"}
	require.NoError(t, store.Set(storage.KeyAuthToken, expired))
	require.NoError(t, store.Set(storage.KeyRefreshToken, "r1"))
	require.NoError(t, storage.SaveJSON(store, storage.KeyUserData, testUser))

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, []string{"r1"}, auth.refreshCalls)
	assert.Equal(t, fresh, storage.GetString(store, storage.KeyAuthToken))
	assert.Equal(t, "r2", storage.GetString(store, storage.KeyRefreshToken))
	assert.Equal(t, StatusAuthenticated, s.State().Status)
}

func TestSession_RestoreRefreshFailureFallsBackToAnonymous(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.refreshErr = &apiclient.APIError{Kind: apiclient.KindUnauthorized, Status: 401, Message: "Token is blacklisted"}
	require.NoError(t, store.Set(storage.KeyAuthToken, jwtFor(t, testUser.Email, time.Now().Add(-time.Minute))))
	require.NoError(t, store.Set(storage.KeyRefreshToken, "r1"))
	require.NoError(t, storage.SaveJSON(store, storage.KeyUserData, testUser))

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.False(t, ok)
	assert.Equal(t, InitialSession(), s.State())
	assertSessionKeysCleared(t, store)
}

func TestSession_RestoreCorruptedUserIsRefetched(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.profile = &model.User{Email: "fresh@example.com"}
	require.NoError(t, store.Set(storage.KeyAuthToken, jwtFor(t, "fresh@example.com", time.Now().Add(time.Hour))))
	require.NoError(t, store.Set(storage.KeyUserData, "{corrupted"))

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, "fresh@example.com", s.State().User.Email)
	var cached model.User
	found, err := storage.LoadJSON(store, storage.KeyUserData, &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "fresh@example.com", cached.Email)
}

func TestSession_RestoreNothingStored(t *testing.T) {
	s, _, _, store := newTestSession()
	require.NoError(t, store.Set(storage.KeyUserData, "{corrupted"))

	ok, err := s.Restore(context.Background())
	require.NoError(t, err)

	assert.False(t, ok)
	assert.Equal(t, InitialSession(), s.State())
	assertSessionKeysCleared(t, store)
}

func TestSession_UpdateProfile(t *testing.T) {
	s, auth, _, store := newTestSession()
	auth.profile = &testUser
	require.NoError(t, s.SignIn(testUser, model.TokenPair{Access: "a", Refresh: "r"}))

	user, err := s.UpdateProfile(context.Background(), model.ProfileInput{Location: model.Ptr("Nairobi")})
	require.NoError(t, err)

	assert.Equal(t, "Nairobi", user.Profile.Location)
	assert.Equal(t, "Nairobi", s.State().User.Profile.Location)
	var cached model.User
	_, _ = storage.LoadJSON(store, storage.KeyUserData, &cached)
	assert.Equal(t, "Nairobi", cached.Profile.Location)
}

func TestEventLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "client.log")
	events := &EventLog{Path: path, Enabled: true}

	events.LogSessionEvent("info", "login", "Success", "jane@example.com", "")
	events.LogSessionEvent("warning", "restore", "Fail", "", "expired")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " | info | login | Success | jane@example.com"))
	assert.True(t, strings.HasSuffix(lines[1], " | warning | restore | Fail | expired"))

	var disabled *EventLog
	disabled.LogSessionEvent("info", "login", "Success", "", "")
}
