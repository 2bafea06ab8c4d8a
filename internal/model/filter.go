package model

import (
	"net/url"
	"slices"
	"strconv"
)

// DefaultPageSize used when a query leaves PageSize at zero
const DefaultPageSize = 20

// JobFilter is the typed filter set of the job list
type JobFilter struct {
	Categories       []uint            `json:"categories,omitempty"`
	Locations        []string          `json:"locations,omitempty"`
	ExperienceLevels []ExperienceLevel `json:"experience_levels,omitempty"`
	Remote           *bool             `json:"remote,omitempty"`
	SalaryMin        *int              `json:"salary_min,omitempty"`
	SalaryMax        *int              `json:"salary_max,omitempty"`
	JobTypes         []string          `json:"job_types,omitempty"`
	Search           string            `json:"search,omitempty"`
	Ordering         string            `json:"ordering,omitempty"`
	IsActive         *bool             `json:"is_active,omitempty"`
	Page             int               `json:"page,omitempty"`
	PageSize         int               `json:"page_size,omitempty"`
}

// Values encodes f as query parameters, unset fields are omitted
func (f JobFilter) Values() url.Values {
	v := url.Values{}
	for _, id := range f.Categories {
		v.Add("category", strconv.FormatUint(uint64(id), 10))
	}
	for _, loc := range f.Locations {
		v.Add("location", loc)
	}
	for _, level := range f.ExperienceLevels {
		v.Add("experience_level", string(level))
	}
	if f.Remote != nil {
		v.Set("is_remote", strconv.FormatBool(*f.Remote))
	}
	if f.SalaryMin != nil {
		v.Set("salary_min", strconv.Itoa(*f.SalaryMin))
	}
	if f.SalaryMax != nil {
		v.Set("salary_max", strconv.Itoa(*f.SalaryMax))
	}
	for _, jt := range f.JobTypes {
		v.Add("job_type", jt)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Ordering != "" {
		v.Set("ordering", f.Ordering)
	}
	if f.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*f.IsActive))
	}
	setPage(v, f.Page, f.PageSize)
	return v
}

// Clone returns a deep copy so containers never share slices with callers
func (f JobFilter) Clone() JobFilter {
	out := f
	out.Categories = slices.Clone(f.Categories)
	out.Locations = slices.Clone(f.Locations)
	out.ExperienceLevels = slices.Clone(f.ExperienceLevels)
	out.JobTypes = slices.Clone(f.JobTypes)
	if f.Remote != nil {
		out.Remote = Ptr(*f.Remote)
	}
	if f.SalaryMin != nil {
		out.SalaryMin = Ptr(*f.SalaryMin)
	}
	if f.SalaryMax != nil {
		out.SalaryMax = Ptr(*f.SalaryMax)
	}
	if f.IsActive != nil {
		out.IsActive = Ptr(*f.IsActive)
	}
	return out
}

// ApplicationQuery filters the application list
type ApplicationQuery struct {
	Status   ApplicationStatus `json:"status,omitempty"`
	JobID    uint              `json:"job,omitempty"`
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"page_size,omitempty"`
}

// Values encodes q as query parameters
func (q ApplicationQuery) Values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.JobID != 0 {
		v.Set("job", strconv.FormatUint(uint64(q.JobID), 10))
	}
	setPage(v, q.Page, q.PageSize)
	return v
}

// CompanyQuery filters the company list
type CompanyQuery struct {
	Search     string `json:"search,omitempty"`
	IsVerified *bool  `json:"is_verified,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
}

// Values encodes q as query parameters
func (q CompanyQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IsVerified != nil {
		v.Set("is_verified", strconv.FormatBool(*q.IsVerified))
	}
	if q.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*q.IsActive))
	}
	setPage(v, q.Page, q.PageSize)
	return v
}

// AdminQuery is the query of the admin user list
type AdminQuery struct {
	Search   string `json:"search,omitempty"`
	IsStaff  *bool  `json:"is_staff,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// Values encodes q as query parameters
func (q AdminQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.IsStaff != nil {
		v.Set("is_staff", strconv.FormatBool(*q.IsStaff))
	}
	setPage(v, q.Page, q.PageSize)
	return v
}

func setPage(v url.Values, page, pageSize int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
}
