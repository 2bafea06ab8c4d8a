// Package state holds the client side state containers. Transitions are pure reducers,
// the containers add locking, side effects and subscriber notification around them.
package state

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/service"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
)

// SessionStatus of the session container
type SessionStatus string

// Session statuses
const (
	StatusAnonymous     SessionStatus = "anonymous"
	StatusLoading       SessionStatus = "loading"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusError         SessionStatus = "error"
)

// Session is the authentication state
type Session struct {
	Status SessionStatus
	User   *model.User
	Error  string
}

// IsAuthenticated reports whether a user is signed in
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// IsStaff reports whether the signed in user can use the admin dashboard
func (s Session) IsStaff() bool {
	return s.IsAuthenticated() && s.User.IsStaff
}

// InitialSession is the state before anything happened, and after logout
func InitialSession() Session {
	return Session{Status: StatusAnonymous}
}

// SessionAction is one of LoginStarted, LoginSucceeded, LoginFailed, LoggedOut, UserUpdated
type SessionAction interface {
	sessionAction()
}

// LoginStarted is dispatched before a login, register or restore call
type LoginStarted struct{}

// LoginSucceeded carries the signed in user
type LoginSucceeded struct {
	User model.User
}

// LoginFailed carries the message shown to the user
type LoginFailed struct {
	Message string
}

// LoggedOut resets the session
type LoggedOut struct{}

// UserUpdated replaces the user of an authenticated session
type UserUpdated struct {
	User model.User
}

func (LoginStarted) sessionAction()   {}
func (LoginSucceeded) sessionAction() {}
func (LoginFailed) sessionAction()    {}
func (LoggedOut) sessionAction()      {}
func (UserUpdated) sessionAction()    {}

// ReduceSession returns the state following action
func ReduceSession(s Session, action SessionAction) Session {
	switch a := action.(type) {
	case LoginStarted:
		return Session{Status: StatusLoading, User: s.User}
	case LoginSucceeded:
		user := a.User
		return Session{Status: StatusAuthenticated, User: &user}
	case LoginFailed:
		return Session{Status: StatusError, Error: a.Message}
	case LoggedOut:
		return InitialSession()
	case UserUpdated:
		if s.Status != StatusAuthenticated {
			return s
		}
		user := a.User
		return Session{Status: StatusAuthenticated, User: &user}
	default:
		return s
	}
}

// Authenticator is the auth API used by the session container
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, refresh string) error
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error)
	TokenSource(ctx context.Context, refresh string) oauth2.TokenSource
}

// SessionClient is the part of the HTTP client the session drives
type SessionClient interface {
	ClearCache()
	OnLogout(fn func()) func()
}

// SessionStore is the session container
type SessionStore struct {
	auth   Authenticator
	client SessionClient
	store  storage.Store
	events *EventLog
	now    func() time.Time

	mu    sync.RWMutex
	state Session
	subs  subscribers[Session]

	stopForcedLogout func()
}

// NewSession creates an anonymous session and listens for forced logouts of client
func NewSession(auth Authenticator, client SessionClient, store storage.Store, events *EventLog) *SessionStore {
	s := &SessionStore{
		auth:   auth,
		client: client,
		store:  store,
		events: events,
		now:    time.Now,
		state:  InitialSession(),
	}
	s.stopForcedLogout = client.OnLogout(s.HandleForcedLogout)
	return s
}

// Close stops listening for forced logouts
func (s *SessionStore) Close() {
	if s.stopForcedLogout != nil {
		s.stopForcedLogout()
	}
}

// State returns a snapshot of the session
func (s *SessionStore) State() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe calls fn after every transition, the returned func unsubscribes
func (s *SessionStore) Subscribe(fn func(Session)) func() {
	return s.subs.add(fn)
}

func (s *SessionStore) dispatch(action SessionAction) Session {
	s.mu.Lock()
	s.state = ReduceSession(s.state, action)
	next := s.state
	s.mu.Unlock()

	s.subs.notify(next)
	return next
}

// SignIn persists tokens and user, then marks the session authenticated
func (s *SessionStore) SignIn(user model.User, tokens model.TokenPair) error {
	if err := s.store.Set(storage.KeyAuthToken, tokens.Access); err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	if err := s.store.Set(storage.KeyRefreshToken, tokens.Refresh); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	if err := storage.SaveJSON(s.store, storage.KeyUserData, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	// responses cached for the previous identity must not leak
	s.client.ClearCache()

	s.dispatch(LoginSucceeded{User: user})
	s.events.LogSessionEvent("info", "login", "Success", user.Email, "")
	return nil
}

// Login signs in with email and password
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.dispatch(LoginStarted{})

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.dispatch(LoginFailed{Message: errorMessage(err)})
		s.events.LogSessionEvent("warning", "login", "Fail", email, errorMessage(err))
		return err
	}
	return s.signInOrFail(resp)
}

// Register creates an account and signs it in
func (s *SessionStore) Register(ctx context.Context, req model.RegisterRequest) error {
	s.dispatch(LoginStarted{})

	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		s.dispatch(LoginFailed{Message: errorMessage(err)})
		s.events.LogSessionEvent("warning", "register", "Fail", req.Email, errorMessage(err))
		return err
	}
	return s.signInOrFail(resp)
}

func (s *SessionStore) signInOrFail(resp *model.AuthResponse) error {
	if err := s.SignIn(resp.User, resp.TokenPair); err != nil {
		s.dispatch(LoginFailed{Message: err.Error()})
		return err
	}
	return nil
}

// Logout tells the server to drop the refresh token, then clears local state. Server failures are only logged.
func (s *SessionStore) Logout(ctx context.Context) error {
	if refresh := storage.GetString(s.store, storage.KeyRefreshToken); refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil {
			log.Printf("server logout failed: %v", err)
		}
	}

	err := s.clearLocal()
	s.dispatch(LoggedOut{})
	s.events.LogSessionEvent("info", "logout", "Success", "", "")
	return err
}

// HandleForcedLogout runs when the API answered 401, no server call is made
func (s *SessionStore) HandleForcedLogout() {
	if err := s.clearLocal(); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	if s.State().Status == StatusAnonymous {
		return
	}
	s.dispatch(LoggedOut{})
	s.events.LogSessionEvent("warning", "forced_logout", "Success", "", "unauthorized response")
}

func (s *SessionStore) clearLocal() error {
	s.client.ClearCache()
	if err := s.store.Remove(storage.KeyAuthToken, storage.KeyRefreshToken, storage.KeyUserData); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Restore resumes a persisted session. An expired access token is refreshed first,
// when that fails the session falls back to anonymous and the stored keys are cleared.
func (s *SessionStore) Restore(ctx context.Context) (bool, error) {
	access := storage.GetString(s.store, storage.KeyAuthToken)
	refresh := storage.GetString(s.store, storage.KeyRefreshToken)

	var user model.User
	hasUser, err := storage.LoadJSON(s.store, storage.KeyUserData, &user)
	if err != nil {
		return false, err
	}

	if access == "" && refresh == "" {
		if hasUser {
			_ = s.store.Remove(storage.KeyUserData)
		}
		s.dispatch(LoggedOut{})
		return false, nil
	}

	s.dispatch(LoginStarted{})

	current := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	if exp, err := service.TokenExpiry(access); err == nil {
		current.Expiry = exp
	} else {
		current.Expiry = s.now().Add(-time.Second)
	}

	tok, err := oauth2.ReuseTokenSource(current, s.auth.TokenSource(ctx, refresh)).Token()
	if err != nil {
		log.Printf("session restore failed: %v", err)
		return false, s.restoreFailed(err)
	}
	if tok.AccessToken != access {
		if err := s.store.Set(storage.KeyAuthToken, tok.AccessToken); err != nil {
			return false, fmt.Errorf("save auth token: %w", err)
		}
		if tok.RefreshToken != "" {
			if err := s.store.Set(storage.KeyRefreshToken, tok.RefreshToken); err != nil {
				return false, fmt.Errorf("save refresh token: %w", err)
			}
		}
		s.events.LogSessionEvent("info", "refresh", "Success", user.Email, "")
	}

	if !hasUser {
		profile, err := s.auth.Profile(ctx)
		if err != nil {
			log.Printf("session restore failed to load profile: %v", err)
			return false, s.restoreFailed(err)
		}
		user = *profile
		if err := storage.SaveJSON(s.store, storage.KeyUserData, user); err != nil {
			log.Printf("failed to cache user: %v", err)
		}
	}

	s.dispatch(LoginSucceeded{User: user})
	s.events.LogSessionEvent("info", "restore", "Success", user.Email, "")
	return true, nil
}

func (s *SessionStore) restoreFailed(cause error) error {
	s.events.LogSessionEvent("warning", "restore", "Fail", "", errorMessage(cause))
	err := s.clearLocal()
	s.dispatch(LoggedOut{})
	return err
}

// RefreshProfile re-reads the user from the server
func (s *SessionStore) RefreshProfile(ctx context.Context) (*model.User, error) {
	user, err := s.auth.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.userChanged(*user)
	return user, nil
}

// UpdateProfile patches the user on the server
func (s *SessionStore) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	user, err := s.auth.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}
	s.userChanged(*user)
	return user, nil
}

func (s *SessionStore) userChanged(user model.User) {
	if err := storage.SaveJSON(s.store, storage.KeyUserData, user); err != nil {
		log.Printf("failed to cache user: %v", err)
	}
	s.dispatch(UserUpdated{User: user})
}

// errorMessage is the text shown for err, API errors use their normalized message
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
