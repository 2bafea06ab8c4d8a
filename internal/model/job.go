package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ExperienceLevel required for a job
type ExperienceLevel string

// Experience levels
const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

// ExperienceLevels lists every valid level in ascending order
var ExperienceLevels = []ExperienceLevel{ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceExecutive}

// Valid reports whether e is a known level
func (e ExperienceLevel) Valid() bool {
	for _, level := range ExperienceLevels {
		if e == level {
			return true
		}
	}
	return false
}

// SalaryPeriod of the salary range
type SalaryPeriod string

// Salary periods
const (
	SalaryHourly  SalaryPeriod = "hourly"
	SalaryMonthly SalaryPeriod = "monthly"
	SalaryYearly  SalaryPeriod = "yearly"
)

// Job is a job post
type Job struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	Title               string          `gorm:"not null" json:"title"`
	Description         string          `gorm:"type:text" json:"description"`
	Location            string          `gorm:"index" json:"location"`
	IsRemote            bool            `json:"is_remote"`
	SalaryMin           *int            `json:"salary_min"`
	SalaryMax           *int            `json:"salary_max"`
	SalaryCurrency      string          `json:"salary_currency"`
	SalaryPeriod        SalaryPeriod    `gorm:"type:text" json:"salary_period"`
	ExperienceLevel     ExperienceLevel `gorm:"type:text;index" json:"experience_level"`
	RequiredSkills      pq.StringArray  `gorm:"type:text" json:"required_skills"`
	PreferredSkills     pq.StringArray  `gorm:"type:text" json:"preferred_skills"`
	ApplicationDeadline *time.Time      `json:"application_deadline"`
	IsActive            bool            `gorm:"index" json:"is_active"`
	IsFeatured          bool            `json:"is_featured"`
	IsUrgent            bool            `json:"is_urgent"`
	ViewsCount          int             `json:"views_count"`
	ApplicationsCount   int             `json:"applications_count"`

	CompanyID  uint       `gorm:"not null;index" json:"company_id"`
	Company    Company    `gorm:"constraint:OnDelete:CASCADE" json:"company"`
	IndustryID *uint      `json:"industry_id"`
	Industry   *Industry  `json:"industry,omitempty"`
	JobTypeID  *uint      `json:"job_type_id"`
	JobType    *JobType   `json:"job_type,omitempty"`
	Categories []Category `gorm:"many2many:job_categories" json:"categories"`

	// IsBookmarked is computed for the requesting user
	IsBookmarked bool `gorm:"-" json:"is_bookmarked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the application deadline has passed at now
func (j Job) Expired(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

// SalaryRange formats the salary for display, empty when no bound is set
func (j Job) SalaryRange() string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%d-%d %s/%s", *j.SalaryMin, *j.SalaryMax, j.SalaryCurrency, j.SalaryPeriod)
	case j.SalaryMin != nil:
		return fmt.Sprintf("from %d %s/%s", *j.SalaryMin, j.SalaryCurrency, j.SalaryPeriod)
	case j.SalaryMax != nil:
		return fmt.Sprintf("up to %d %s/%s", *j.SalaryMax, j.SalaryCurrency, j.SalaryPeriod)
	default:
		return ""
	}
}

// JobInput is the body of job create and update, nil fields are left untouched on update
type JobInput struct {
	Title               *string          `json:"title,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Location            *string          `json:"location,omitempty"`
	IsRemote            *bool            `json:"is_remote,omitempty"`
	SalaryMin           *int             `json:"salary_min,omitempty"`
	SalaryMax           *int             `json:"salary_max,omitempty"`
	SalaryCurrency      *string          `json:"salary_currency,omitempty"`
	SalaryPeriod        *SalaryPeriod    `json:"salary_period,omitempty"`
	ExperienceLevel     *ExperienceLevel `json:"experience_level,omitempty"`
	RequiredSkills      []string         `json:"required_skills,omitempty"`
	PreferredSkills     []string         `json:"preferred_skills,omitempty"`
	ApplicationDeadline *time.Time       `json:"application_deadline,omitempty"`
	IsActive            *bool            `json:"is_active,omitempty"`
	IsFeatured          *bool            `json:"is_featured,omitempty"`
	IsUrgent            *bool            `json:"is_urgent,omitempty"`
	CompanyID           *uint            `json:"company_id,omitempty"`
	IndustryID          *uint            `json:"industry_id,omitempty"`
	JobTypeID           *uint            `json:"job_type_id,omitempty"`
	CategoryIDs         []uint           `json:"category_ids,omitempty"`
}

// Apply copies every set scalar field of in onto j, categories are handled by the caller
func (in JobInput) Apply(j *Job) {
	if in.Title != nil {
		j.Title = *in.Title
	}
	if in.Description != nil {
		j.Description = *in.Description
	}
	if in.Location != nil {
		j.Location = *in.Location
	}
	if in.IsRemote != nil {
		j.IsRemote = *in.IsRemote
	}
	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.SalaryCurrency != nil {
		j.SalaryCurrency = *in.SalaryCurrency
	}
	if in.SalaryPeriod != nil {
		j.SalaryPeriod = *in.SalaryPeriod
	}
	if in.ExperienceLevel != nil {
		j.ExperienceLevel = *in.ExperienceLevel
	}
	if in.RequiredSkills != nil {
		j.RequiredSkills = pq.StringArray(in.RequiredSkills)
	}
	if in.PreferredSkills != nil {
		j.PreferredSkills = pq.StringArray(in.PreferredSkills)
	}
	if in.ApplicationDeadline != nil {
		j.ApplicationDeadline = in.ApplicationDeadline
	}
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		j.IsFeatured = *in.IsFeatured
	}
	if in.IsUrgent != nil {
		j.IsUrgent = *in.IsUrgent
	}
	if in.CompanyID != nil {
		j.CompanyID = *in.CompanyID
	}
	if in.IndustryID != nil {
		j.IndustryID = in.IndustryID
	}
	if in.JobTypeID != nil {
		j.JobTypeID = in.JobTypeID
	}
}

// Validate checks fields that must hold together
func (in JobInput) Validate() map[string][]string {
	errs := map[string][]string{}
	if in.Title != nil && *in.Title == "" {
		errs["title"] = append(errs["title"], "This field may not be blank.")
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		errs["salary_max"] = append(errs["salary_max"], "Must be greater than or equal to salary_min.")
	}
	if in.ExperienceLevel != nil && !in.ExperienceLevel.Valid() {
		errs["experience_level"] = append(errs["experience_level"], fmt.Sprintf("%q is not a valid choice.", *in.ExperienceLevel))
	}
	if in.SalaryPeriod != nil {
		switch *in.SalaryPeriod {
		case SalaryHourly, SalaryMonthly, SalaryYearly:
		default:
			errs["salary_period"] = append(errs["salary_period"], fmt.Sprintf("%q is not a valid choice.", *in.SalaryPeriod))
		}
	}
	return errs
}

// Company is an employer
type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	Size        string    `json:"size"`
	LogoURL     string    `json:"logo_url"`
	LogoFileID  *uint     `json:"-"`
	LogoFile    *File     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	IsVerified  bool      `json:"is_verified"`
	IsActive    bool      `gorm:"index" json:"is_active"`
	IndustryID  *uint     `json:"industry_id"`
	Industry    *Industry `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompanyInput is the body of company create and update
type CompanyInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	Location    *string `json:"location,omitempty"`
	Size        *string `json:"size,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IndustryID  *uint   `json:"industry_id,omitempty"`
}

// Apply copies every set field of in onto c
func (in CompanyInput) Apply(c *Company) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Website != nil {
		c.Website = *in.Website
	}
	if in.Location != nil {
		c.Location = *in.Location
	}
	if in.Size != nil {
		c.Size = *in.Size
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.IndustryID != nil {
		c.IndustryID = in.IndustryID
	}
}

// Bookmark marks a job saved by a user
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_job" json:"-"`
	JobID     uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_job" json:"job_id"`
	Job       *Job      `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recommendation is a job suggested for the current user
type Recommendation struct {
	Job     Job      `json:"job"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}
