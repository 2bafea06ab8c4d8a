package dashboard

import (
	"errors"
	"fmt"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Tab of the admin dashboard
type Tab string

// Tabs
const (
	TabOverview     Tab = "overview"
	TabJobs         Tab = "jobs"
	TabCompanies    Tab = "companies"
	TabApplications Tab = "applications"
	TabCategories   Tab = "categories"
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabOverview, TabJobs, TabCompanies, TabApplications, TabCategories}

// ErrUnknownTab is returned for a tab outside Tabs
var ErrUnknownTab = errors.New("unknown dashboard tab")

// ParseTab validates s
func ParseTab(s string) (Tab, error) {
	for _, tab := range Tabs {
		if string(tab) == s {
			return tab, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTab, s)
}

// TabData is one of OverviewData, JobsData, CompaniesData, ApplicationsData, CategoriesData
type TabData interface {
	Tab() Tab
}

// OverviewData is shown on the overview tab
type OverviewData struct {
	Stats model.AdminStats
}

// JobsData is shown on the jobs tab
type JobsData struct {
	Page model.Paginated[model.Job]
}

// CompaniesData is shown on the companies tab
type CompaniesData struct {
	Page model.Paginated[model.Company]
}

// ApplicationsData is shown on the applications tab
type ApplicationsData struct {
	Page model.Paginated[model.Application]
}

// CategoriesData is shown on the categories tab
type CategoriesData struct {
	Items []model.TaxonomyItem
}

// Tab implements TabData
func (OverviewData) Tab() Tab { return TabOverview }

// Tab implements TabData
func (JobsData) Tab() Tab { return TabJobs }

// Tab implements TabData
func (CompaniesData) Tab() Tab { return TabCompanies }

// Tab implements TabData
func (ApplicationsData) Tab() Tab { return TabApplications }

// Tab implements TabData
func (CategoriesData) Tab() Tab { return TabCategories }

// Query is one of JobsQuery, CompaniesQuery, ApplicationsQuery
type Query interface {
	Tab() Tab
}

// JobsQuery filters the jobs tab
type JobsQuery struct {
	model.JobFilter
}

// CompaniesQuery filters the companies tab
type CompaniesQuery struct {
	model.CompanyQuery
}

// ApplicationsQuery filters the applications tab
type ApplicationsQuery struct {
	model.ApplicationQuery
}

// Tab implements Query
func (JobsQuery) Tab() Tab { return TabJobs }

// Tab implements Query
func (CompaniesQuery) Tab() Tab { return TabCompanies }

// Tab implements Query
func (ApplicationsQuery) Tab() Tab { return TabApplications }
