// Package model contain DTOs exchanged with the job board API, they double as gorm model for the reference server
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is an account, staff users can use the admin endpoints
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsStaff    bool      `json:"is_staff"`
	Profile    Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`
}

// BeforeCreate assigns a uuid when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile holds the editable details of a user
type Profile struct {
	ID              uint           `gorm:"primaryKey" json:"-"`
	UserID          uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Phone           string         `json:"phone"`
	Location        string         `json:"location"`
	Bio             string         `gorm:"type:text" json:"bio"`
	ExperienceYears int            `json:"experience_years"`
	Skills          pq.StringArray `gorm:"type:text" json:"skills"`
}

// ProfileInput is the body of a profile update, nil fields are left untouched
type ProfileInput struct {
	FirstName       *string  `json:"first_name,omitempty"`
	LastName        *string  `json:"last_name,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	ExperienceYears *int     `json:"experience_years,omitempty" binding:"omitempty,min=0,max=80"`
	Skills          []string `json:"skills,omitempty"`
}

// Apply copies every set field of in onto u
func (in ProfileInput) Apply(u *User) {
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Phone != nil {
		u.Profile.Phone = *in.Phone
	}
	if in.Location != nil {
		u.Profile.Location = *in.Location
	}
	if in.Bio != nil {
		u.Profile.Bio = *in.Bio
	}
	if in.ExperienceYears != nil {
		u.Profile.ExperienceYears = *in.ExperienceYears
	}
	if in.Skills != nil {
		u.Profile.Skills = pq.StringArray(in.Skills)
	}
}
