// Package dashboard is the admin back-office container: a tab selector with per tab
// paginated data and bulk actions over jobs and companies.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// StatsReader is implemented by service.AdminService
type StatsReader interface {
	Stats(ctx context.Context) (*model.AdminStats, error)
}

// JobAdmin is implemented by service.JobService
type JobAdmin interface {
	List(ctx context.Context, filter model.JobFilter) (*model.Paginated[model.Job], error)
	Activate(ctx context.Context, id uint) (*model.Job, error)
	Deactivate(ctx context.Context, id uint) (*model.Job, error)
	Delete(ctx context.Context, id uint) error
}

// CompanyAdmin is implemented by service.CompanyService
type CompanyAdmin interface {
	List(ctx context.Context, q model.CompanyQuery) (*model.Paginated[model.Company], error)
	Activate(ctx context.Context, id uint) (*model.Company, error)
	Deactivate(ctx context.Context, id uint) (*model.Company, error)
	Delete(ctx context.Context, id uint) error
	Verify(ctx context.Context, id uint) (*model.Company, error)
}

// ApplicationAdmin is implemented by service.ApplicationService
type ApplicationAdmin interface {
	List(ctx context.Context, q model.ApplicationQuery) (*model.Paginated[model.Application], error)
	UpdateStatus(ctx context.Context, id uint, update model.StatusUpdate) (*model.Application, error)
}

// TaxonomyReader is implemented by service.CategoryService
type TaxonomyReader interface {
	Taxonomy(ctx context.Context) ([]model.TaxonomyItem, error)
}

// Backend is every service the dashboard calls
type Backend struct {
	Stats        StatsReader
	Jobs         JobAdmin
	Companies    CompanyAdmin
	Applications ApplicationAdmin
	Taxonomy     TaxonomyReader
}

// State of the dashboard
type State struct {
	Tab     Tab
	Data    TabData
	Loading bool
	Error   string
	// Seq is the sequence number of the latest issued fetch
	Seq uint64
}

// Dashboard is the admin back-office container
type Dashboard struct {
	backend Backend

	mu           sync.RWMutex
	state        State
	jobs         model.JobFilter
	companies    model.CompanyQuery
	applications model.ApplicationQuery
	subs         []func(State)
}

// New creates a dashboard on the overview tab, nothing is fetched until SelectTab or Refresh
func New(backend Backend) *Dashboard {
	return &Dashboard{backend: backend, state: State{Tab: TabOverview}}
}

// State returns a snapshot
func (d *Dashboard) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Subscribe calls fn after every change
func (d *Dashboard) Subscribe(fn func(State)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, fn)
}

func (d *Dashboard) notify(st State) {
	d.mu.RLock()
	subs := append([]func(State){}, d.subs...)
	d.mu.RUnlock()
	for _, fn := range subs {
		fn(st)
	}
}

// SelectTab switches to tab and fetches its data
func (d *Dashboard) SelectTab(ctx context.Context, tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	d.mu.Lock()
	d.state.Tab = tab
	d.state.Data = nil
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetQuery replaces the query of q's tab, switches to that tab and fetches it
func (d *Dashboard) SetQuery(ctx context.Context, q Query) error {
	d.mu.Lock()
	switch query := q.(type) {
	case JobsQuery:
		d.jobs = query.JobFilter.Clone()
	case CompaniesQuery:
		d.companies = query.CompanyQuery
	case ApplicationsQuery:
		d.applications = query.ApplicationQuery
	default:
		d.mu.Unlock()
		return fmt.Errorf("%w: query %T", ErrUnknownTab, q)
	}
	if d.state.Tab != q.Tab() {
		d.state.Data = nil
	}
	d.state.Tab = q.Tab()
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetPage moves the active tab to page
func (d *Dashboard) SetPage(ctx context.Context, page int) error {
	d.mu.Lock()
	switch d.state.Tab {
	case TabJobs:
		d.jobs.Page = page
	case TabCompanies:
		d.companies.Page = page
	case TabApplications:
		d.applications.Page = page
	}
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// Refresh fetches the active tab again. A response superseded by a later fetch is dropped.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.state.Seq++
	seq := d.state.Seq
	tab := d.state.Tab
	jobs, companies, applications := d.jobs.Clone(), d.companies, d.applications
	d.state.Loading = true
	d.state.Error = ""
	started := d.state
	d.mu.Unlock()
	d.notify(started)

	data, err := d.load(ctx, tab, jobs, companies, applications)

	d.mu.Lock()
	if seq != d.state.Seq {
		d.mu.Unlock()
		return err
	}
	d.state.Loading = false
	if err != nil {
		d.state.Error = errorMessage(err)
	} else {
		d.state.Data = data
	}
	done := d.state
	d.mu.Unlock()
	d.notify(done)
	return err
}

func (d *Dashboard) load(ctx context.Context, tab Tab, jobs model.JobFilter, companies model.CompanyQuery, applications model.ApplicationQuery) (TabData, error) {
	switch tab {
	case TabOverview:
		stats, err := d.backend.Stats.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return OverviewData{Stats: *stats}, nil
	case TabJobs:
		page, err := d.backend.Jobs.List(ctx, jobs)
		if err != nil {
			return nil, err
		}
		return JobsData{Page: *page}, nil
	case TabCompanies:
		page, err := d.backend.Companies.List(ctx, companies)
		if err != nil {
			return nil, err
		}
		return CompaniesData{Page: *page}, nil
	case TabApplications:
		page, err := d.backend.Applications.List(ctx, applications)
		if err != nil {
			return nil, err
		}
		return ApplicationsData{Page: *page}, nil
	case TabCategories:
		items, err := d.backend.Taxonomy.Taxonomy(ctx)
		if err != nil {
			return nil, err
		}
		return CategoriesData{Items: items}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTab, tab)
	}
}

// UpdateApplicationStatus sets the status of application id and refreshes the active tab
func (d *Dashboard) UpdateApplicationStatus(ctx context.Context, id uint, status model.ApplicationStatus, notes string) (*model.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	app, err := d.backend.Applications.UpdateStatus(ctx, id, model.StatusUpdate{Status: status, Notes: notes})
	if err != nil {
		return nil, err
	}
	d.refreshQuietly(ctx)
	return app, nil
}

// VerifyCompany marks company id as verified and refreshes the active tab
func (d *Dashboard) VerifyCompany(ctx context.Context, id uint) (*model.Company, error) {
	company, err := d.backend.Companies.Verify(ctx, id)
	if err != nil {
		return nil, err
	}
	d.refreshQuietly(ctx)
	return company, nil
}

func (d *Dashboard) refreshQuietly(ctx context.Context) {
	if err := d.Refresh(ctx); err != nil {
		log.Printf("dashboard refresh failed: %v", err)
	}
}

func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
