package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application
type ApplicationStatus string

// Application statuses
const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewed  ApplicationStatus = "reviewed"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// ApplicationStatuses lists every valid status
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending, ApplicationReviewed, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn,
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Final reports whether no further change is expected
func (s ApplicationStatus) Final() bool {
	return s == ApplicationAccepted || s == ApplicationRejected || s == ApplicationWithdrawn
}

// Application is a user's application to a job
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	JobID       uint              `gorm:"not null;index" json:"job_id"`
	Job         *Job              `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`
	ApplicantID uuid.UUID         `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Applicant   *User             `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"applicant,omitempty"`
	CoverLetter string            `gorm:"type:text" json:"cover_letter"`
	Status      ApplicationStatus `gorm:"type:text;not null" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
	Documents   []Document        `gorm:"many2many:application_documents" json:"documents"`
	AppliedAt   time.Time         `gorm:"autoCreateTime" json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// UpdateStatus moves the application to newStatus with an optional reviewer note
func (a *Application) UpdateStatus(newStatus ApplicationStatus, notes string) error {
	if !newStatus.Valid() {
		return fmt.Errorf("invalid status: %s", newStatus)
	}
	if a.Status == ApplicationWithdrawn {
		return fmt.Errorf("application %d was withdrawn", a.ID)
	}

	a.Status = newStatus
	if notes != "" {
		a.Notes = notes
	}
	return nil
}

// ApplicationInput is the body of POST /applications/
type ApplicationInput struct {
	JobID       uint   `json:"job_id" binding:"required"`
	CoverLetter string `json:"cover_letter"`
	DocumentIDs []uint `json:"document_ids"`
}

// StatusUpdate is the body of PATCH /applications/{id}/status/
type StatusUpdate struct {
	Status ApplicationStatus `json:"status" binding:"required"`
	Notes  string            `json:"notes,omitempty"`
}

// HasAppliedResponse is returned by GET /applications/check/
type HasAppliedResponse struct {
	HasApplied bool `json:"has_applied"`
}
