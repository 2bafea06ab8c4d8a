package database

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	m "github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// Seeded records, filled by Seed so tests can refer to them
var (
	SeedPassword = "SeedPass123!"

	SeedStaff  m.User
	SeedSeeker m.User
	SeedOther  m.User

	SeedIndustries []m.Industry
	SeedJobTypes   []m.JobType
	SeedCategories []m.Category

	SeedAcme      m.Company
	SeedBlueLedge m.Company

	SeedGoJob       m.Job
	SeedFrontendJob m.Job
	SeedAnalystJob  m.Job
	SeedClosedJob   m.Job
)

// Seed inserts sample taxonomy, companies, jobs and users. It does nothing when users
// other than the admin already exist, except reloading the Seed variables.
func Seed(db *DBinstanceStruct) error {
	var count int64
	if err := db.Model(&m.User{}).Where("is_staff = ?", false).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return loadSeed(db)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var err error
		if SeedStaff, err = utilities.CreateStaff(tx, "staff@jobboard.dev", SeedPassword, "Sam", "Staff"); err != nil {
			return err
		}
		if SeedSeeker, err = seedSeeker(tx, "jane@example.com", "Jane", "Doe", "+254 700 000001"); err != nil {
			return err
		}
		if SeedOther, err = seedSeeker(tx, "john@example.com", "John", "Roe", ""); err != nil {
			return err
		}

		SeedIndustries = []m.Industry{
			{Name: "Technology", Slug: "technology", Description: "Software and hardware"},
			{Name: "Finance", Slug: "finance"},
			{Name: "Healthcare", Slug: "healthcare"},
		}
		SeedJobTypes = []m.JobType{
			{Name: "Full-time", Slug: "full-time"},
			{Name: "Part-time", Slug: "part-time"},
			{Name: "Contract", Slug: "contract"},
			{Name: "Internship", Slug: "internship"},
		}
		SeedCategories = []m.Category{
			{Name: "Engineering", Slug: "engineering"},
			{Name: "Design", Slug: "design"},
			{Name: "Data", Slug: "data"},
		}
		for _, rows := range []any{&SeedIndustries, &SeedJobTypes, &SeedCategories} {
			if err := tx.Create(rows).Error; err != nil {
				return fmt.Errorf("failed to seed taxonomy: %w", err)
			}
		}

		tech, finance := SeedIndustries[0].ID, SeedIndustries[1].ID
		SeedAcme = m.Company{Name: "Acme Cloud", Location: "Nairobi", Size: "51-200", Website: "https://acme.example.com", IsVerified: true, IsActive: true, IndustryID: &tech}
		SeedBlueLedge = m.Company{Name: "Blue Ledger", Location: "Lagos", Size: "11-50", IsActive: true, IndustryID: &finance}
		if err := tx.Create(&SeedAcme).Error; err != nil {
			return err
		}
		if err := tx.Create(&SeedBlueLedge).Error; err != nil {
			return err
		}

		fullTime, contract := SeedJobTypes[0].ID, SeedJobTypes[2].ID
		nextMonth := time.Now().AddDate(0, 1, 0)
		lastWeek := time.Now().AddDate(0, 0, -7)
		SeedGoJob = m.Job{
			Title: "Senior Go Engineer", Description: "Build APIs and data pipelines in Go.",
			Location: "Nairobi", IsRemote: true, SalaryMin: m.Ptr(90000), SalaryMax: m.Ptr(130000),
			SalaryCurrency: "USD", SalaryPeriod: m.SalaryYearly, ExperienceLevel: m.ExperienceSenior,
			RequiredSkills: pq.StringArray{"go", "postgres"}, PreferredSkills: pq.StringArray{"kubernetes"},
			ApplicationDeadline: &nextMonth, IsActive: true, IsFeatured: true,
			CompanyID: SeedAcme.ID, IndustryID: &tech, JobTypeID: &fullTime,
			Categories: []m.Category{SeedCategories[0]},
		}
		SeedFrontendJob = m.Job{
			Title: "Frontend Developer", Description: "Own the job board web client.",
			Location: "Nairobi", SalaryMin: m.Ptr(40000), SalaryMax: m.Ptr(60000),
			SalaryCurrency: "USD", SalaryPeriod: m.SalaryYearly, ExperienceLevel: m.ExperienceMid,
			RequiredSkills: pq.StringArray{"typescript", "react"}, IsActive: true,
			CompanyID: SeedAcme.ID, IndustryID: &tech, JobTypeID: &fullTime,
			Categories: []m.Category{SeedCategories[0], SeedCategories[1]},
		}
		SeedAnalystJob = m.Job{
			Title: "Data Analyst", Description: "Report on ledger data.",
			Location: "Lagos", ExperienceLevel: m.ExperienceEntry, SalaryPeriod: m.SalaryMonthly,
			RequiredSkills: pq.StringArray{"sql"}, IsActive: true, IsUrgent: true,
			CompanyID: SeedBlueLedge.ID, IndustryID: &finance, JobTypeID: &contract,
			Categories: []m.Category{SeedCategories[2]},
		}
		SeedClosedJob = m.Job{
			Title: "Go Contractor", Description: "Expired listing.",
			Location: "Remote", IsRemote: true, ExperienceLevel: m.ExperienceLead, SalaryPeriod: m.SalaryHourly,
			RequiredSkills: pq.StringArray{"go"}, ApplicationDeadline: &lastWeek, IsActive: true,
			CompanyID: SeedBlueLedge.ID, JobTypeID: &contract,
		}
		for _, job := range []*m.Job{&SeedGoJob, &SeedFrontendJob, &SeedAnalystJob, &SeedClosedJob} {
			if err := tx.Omit("Company").Create(job).Error; err != nil {
				return fmt.Errorf("failed to seed job %s: %w", job.Title, err)
			}
		}

		return tx.Create(&m.Application{
			JobID:       SeedFrontendJob.ID,
			ApplicantID: SeedSeeker.ID,
			CoverLetter: "I have shipped three React apps and enjoy working on hiring products.",
			Status:      m.ApplicationPending,
		}).Error
	})
}

func seedSeeker(tx *gorm.DB, email, first, last, phone string) (m.User, error) {
	hashed, err := utilities.HashPassword(SeedPassword)
	if err != nil {
		return m.User{}, err
	}
	user := m.User{
		Email: email, Password: hashed, FirstName: first, LastName: last,
		Profile: m.Profile{Phone: phone, Location: "Nairobi", Skills: pq.StringArray{"go", "sql"}, ExperienceYears: 4},
	}
	if err := tx.Create(&user).Error; err != nil {
		return m.User{}, fmt.Errorf("failed to seed user %s: %w", email, err)
	}
	return user, nil
}

func loadSeed(db *DBinstanceStruct) error {
	load := func(dest any, query string, args ...any) error {
		return db.Where(query, args...).First(dest).Error
	}
	steps := []error{
		load(&SeedStaff, "email = ?", "staff@jobboard.dev"),
		load(&SeedSeeker, "email = ?", "jane@example.com"),
		load(&SeedOther, "email = ?", "john@example.com"),
		load(&SeedAcme, "name = ?", "Acme Cloud"),
		load(&SeedBlueLedge, "name = ?", "Blue Ledger"),
		load(&SeedGoJob, "title = ?", "Senior Go Engineer"),
		load(&SeedFrontendJob, "title = ?", "Frontend Developer"),
		load(&SeedAnalystJob, "title = ?", "Data Analyst"),
		load(&SeedClosedJob, "title = ?", "Go Contractor"),
		db.Find(&SeedIndustries).Error,
		db.Find(&SeedJobTypes).Error,
		db.Find(&SeedCategories).Error,
	}
	for _, err := range steps {
		if err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
	}
	return nil
}

// NewTestDB opens a fresh in memory sqlite database with the seed applied
func NewTestDB() (*DBinstanceStruct, error) {
	db, err := NewDBInstance(&DBConfig{Driver: DriverSQLite, SQLitePath: sqliteDsn(":memory:")})
	if err != nil {
		return nil, err
	}
	if err := Seed(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
