package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Auth endpoint paths
const (
	LoginPath    = "/auth/login/"
	RegisterPath = "/auth/register/"
	RefreshPath  = "/auth/refresh/"
	LogoutPath   = "/auth/logout/"
	ProfilePath  = "/auth/profile/"
)

// ErrNoRefreshToken is returned by the token source when nothing can be refreshed
var ErrNoRefreshToken = errors.New("no refresh token")

// AuthService handles login, registration, token refresh and the profile
type AuthService struct {
	api API
}

// Login exchanges credentials for a token pair and the user
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := s.api.Post(ctx, LoginPath, req, &resp); err != nil {
		return nil, wrap("login", err)
	}
	return &resp, nil
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := s.api.Post(ctx, RegisterPath, req, &resp); err != nil {
		return nil, wrap("register", err)
	}
	return &resp, nil
}

// Refresh trades refresh for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refresh string) (*model.TokenPair, error) {
	var pair model.TokenPair
	if err := s.api.Post(ctx, RefreshPath, model.RefreshRequest{Refresh: refresh}, &pair); err != nil {
		return nil, wrap("refresh token", err)
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	return &pair, nil
}

// Logout blacklists refresh on the server
func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	return wrap("logout", s.api.Post(ctx, LogoutPath, model.RefreshRequest{Refresh: refresh}, nil))
}

// Profile returns the signed in user
func (s *AuthService) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := s.api.Get(ctx, ProfilePath, nil, &user, apiclient.NoCache()); err != nil {
		return nil, wrap("get profile", err)
	}
	return &user, nil
}

// UpdateProfile patches the signed in user
func (s *AuthService) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	var user model.User
	if err := s.api.Patch(ctx, ProfilePath, in, &user, apiclient.Invalidates(ProfilePath, RecommendationsPath)); err != nil {
		return nil, wrap("update profile", err)
	}
	return &user, nil
}

// TokenSource returns an oauth2.TokenSource that mints access tokens from refresh
func (s *AuthService) TokenSource(ctx context.Context, refresh string) oauth2.TokenSource {
	return &refreshTokenSource{ctx: ctx, auth: s, refresh: refresh}
}

type refreshTokenSource struct {
	ctx     context.Context
	auth    *AuthService
	mu      sync.Mutex
	refresh string
}

func (ts *refreshTokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.refresh == "" {
		return nil, ErrNoRefreshToken
	}
	pair, err := ts.auth.Refresh(ts.ctx, ts.refresh)
	if err != nil {
		return nil, err
	}
	ts.refresh = pair.Refresh
	return NewToken(*pair), nil
}

// NewToken converts a token pair into an oauth2.Token, expiry is read from the access token
func NewToken(pair model.TokenPair) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}
	if exp, err := TokenExpiry(pair.Access); err == nil {
		tok.Expiry = exp
	}
	return tok
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
