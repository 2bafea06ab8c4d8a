package apiclient

import (
	"net/http"
	"time"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/retry"
)

// CallOption tweaks a single call
type CallOption func(*callConfig)

type callConfig struct {
	ttl         time.Duration
	noCache     bool
	policy      retry.Policy
	retryPolicy retry.Policy
	invalidates []string
}

func (c *Client) callConfig(method string, opts []CallOption) callConfig {
	cfg := callConfig{ttl: c.cacheTTL, policy: retry.NoRetry, retryPolicy: c.policy}
	if method == http.MethodGet {
		cfg.policy = c.policy
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ttl <= 0 {
		cfg.noCache = true
	}
	return cfg
}

// NoCache bypasses the response cache for a GET
func NoCache() CallOption {
	return func(cfg *callConfig) { cfg.noCache = true }
}

// WithCacheTTL overrides how long a GET response stays cached
func WithCacheTTL(ttl time.Duration) CallOption {
	return func(cfg *callConfig) { cfg.ttl = ttl }
}

// WithRetry opts a mutation into the client's retry policy
func WithRetry() CallOption {
	return func(cfg *callConfig) { cfg.policy = cfg.retryPolicy }
}

// WithPolicy uses p for this call
func WithPolicy(p retry.Policy) CallOption {
	return func(cfg *callConfig) { cfg.policy = p }
}

// WithoutRetry runs the call once even if it is a GET
func WithoutRetry() CallOption {
	return func(cfg *callConfig) { cfg.policy = retry.NoRetry }
}

// Invalidates drops cached GET responses under each path prefix after a successful call
func Invalidates(prefixes ...string) CallOption {
	return func(cfg *callConfig) { cfg.invalidates = append(cfg.invalidates, prefixes...) }
}
