package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/service"
)

func jwtFor(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := token.SignedString([]byte("state-test"))
	require.NoError(t, err)
	return s
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

type fakeAuth struct {
	mu sync.Mutex

	loginResp *model.AuthResponse
	loginErr  error

	logoutCalls []string
	logoutErr   error

	profile    *model.User
	profileErr error

	refreshPair  *model.TokenPair
	refreshErr   error
	refreshCalls []string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Logout(ctx context.Context, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls = append(f.logoutCalls, refresh)
	return f.logoutErr
}

func (f *fakeAuth) Profile(ctx context.Context) (*model.User, error) {
	return f.profile, f.profileErr
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	user := *f.profile
	in.Apply(&user)
	return &user, nil
}

func (f *fakeAuth) TokenSource(ctx context.Context, refresh string) oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) {
		f.mu.Lock()
		f.refreshCalls = append(f.refreshCalls, refresh)
		f.mu.Unlock()
		if f.refreshErr != nil {
			return nil, f.refreshErr
		}
		return service.NewToken(*f.refreshPair), nil
	})
}

type fakeClient struct {
	mu         sync.Mutex
	clearCalls int
	subs       map[int]func()
	next       int
}

func (c *fakeClient) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearCalls++
}

func (c *fakeClient) OnLogout(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs == nil {
		c.subs = map[int]func(){}
	}
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *fakeClient) unauthorized() {
	c.mu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// fakeLister answers List from pages, or blocks on gate when one is set for the page
type fakeLister struct {
	mu      sync.Mutex
	calls   []model.JobFilter
	pages   map[int]model.Paginated[model.Job]
	gates   map[string]chan struct{}
	err     error
	results map[string]model.Paginated[model.Job]
}

func (f *fakeLister) List(ctx context.Context, filter model.JobFilter) (*model.Paginated[model.Job], error) {
	f.mu.Lock()
	f.calls = append(f.calls, filter)
	gate := f.gates[filter.Search]
	page, ok := f.results[filter.Search]
	if !ok {
		page = f.pages[filter.Page]
	}
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeBookmarker struct {
	err    error
	during func()
	calls  []bool
}

func (f *fakeBookmarker) Set(ctx context.Context, jobID uint, bookmarked bool) error {
	f.calls = append(f.calls, bookmarked)
	if f.during != nil {
		f.during()
	}
	return f.err
}

type fakeRecorder struct {
	queries []string
}

func (f *fakeRecorder) Record(query string) {
	f.queries = append(f.queries, query)
}
