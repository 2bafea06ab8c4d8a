package state

import (
	"fmt"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/cache"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/dashboard"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/retry"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/service"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/wizard"
)

// App owns the shared cache, persisted store and HTTP client and every container built on them
type App struct {
	Config   config.ClientConfig
	Store    storage.Store
	Cache    *cache.Store[[]byte]
	Client   *apiclient.Client
	Services *service.Services
	Session  *SessionStore
	Jobs     *JobsStore

	closeStore func() error
}

// NewApp wires the client from cfg
func NewApp(cfg config.ClientConfig) (*App, error) {
	store, closeStore, err := storage.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", cfg.StatePath, err)
	}

	policy := retry.DefaultPolicy
	if cfg.RetryMaxAttempts > 0 {
		policy.MaxAttempts = cfg.RetryMaxAttempts
	}
	if cfg.RetryBaseDelay > 0 {
		policy.BaseDelay = cfg.RetryBaseDelay
	}

	responses := cache.New[[]byte](cfg.CacheCleanUpInterval)
	client := apiclient.New(apiclient.Options{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout,
		CacheTTL: cfg.CacheTTL,
		Retry:    policy,
	}, store, responses)
	services := service.New(client, store)

	return &App{
		Config:     cfg,
		Store:      store,
		Cache:      responses,
		Client:     client,
		Services:   services,
		Session:    NewSession(services.Auth, client, store, NewEventLog(cfg.Logging)),
		Jobs:       NewJobs(services.Jobs, services.Bookmarks, services.Search),
		closeStore: closeStore,
	}, nil
}

// NewWizard starts an application for jobID prefilled from the signed in user
func (a *App) NewWizard(jobID uint) *wizard.Wizard {
	return wizard.New(jobID, a.Services.Applications, a.Session.State().User)
}

// Dashboard creates an admin dashboard over the app services
func (a *App) Dashboard() *dashboard.Dashboard {
	return dashboard.New(dashboard.Backend{
		Stats:        a.Services.Admin,
		Jobs:         a.Services.Jobs,
		Companies:    a.Services.Companies,
		Applications: a.Services.Applications,
		Taxonomy:     a.Services.Categories,
	})
}

// Close stops the cache sweeper and closes the persisted store
func (a *App) Close() error {
	a.Session.Close()
	a.Cache.Close()
	return a.closeStore()
}
