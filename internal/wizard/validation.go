package wizard

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Cover letter bounds, counted in characters after trimming
const (
	CoverLetterMin = 50
	CoverLetterMax = 5000
)

// PersonalInfo is the first step
type PersonalInfo struct {
	FullName string
	Email    string
	Phone    string
}

// DocumentsInfo is the second step
type DocumentsInfo struct {
	ResumeID         uint
	CoverLetter      string
	ExtraDocumentIDs []uint
}

func (d DocumentsInfo) input(jobID uint) model.ApplicationInput {
	ids := append([]uint{d.ResumeID}, d.ExtraDocumentIDs...)
	return model.ApplicationInput{
		JobID:       jobID,
		CoverLetter: strings.TrimSpace(d.CoverLetter),
		DocumentIDs: ids,
	}
}

// ValidationError lists the field errors of one step
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return fmt.Sprintf("invalid %s step: %s", e.Step, strings.Join(parts, "; "))
}

func newValidationError(step Step, fields map[string]string) *ValidationError {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Step: step, Fields: fields}
}

var (
	validate   = validator.New()
	phoneChars = regexp.MustCompile(`^\+?[0-9\s\-().]+$`)
)

// ValidatePersonal returns field errors of the personal step
func ValidatePersonal(p PersonalInfo) map[string]string {
	errs := map[string]string{}

	if strings.TrimSpace(p.FullName) == "" {
		errs["full_name"] = "Full name is required"
	}

	email := strings.TrimSpace(p.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if validate.Var(email, "email") != nil {
		errs["email"] = "Enter a valid email address"
	}

	if phone := strings.TrimSpace(p.Phone); phone != "" && !plausiblePhone(phone) {
		errs["phone"] = "Enter a valid phone number"
	}
	return errs
}

func plausiblePhone(phone string) bool {
	if !phoneChars.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7 && digits <= 15
}

// ValidateDocuments returns field errors of the documents step
func ValidateDocuments(d DocumentsInfo) map[string]string {
	errs := map[string]string{}

	if d.ResumeID == 0 {
		errs["resume"] = "Resume is required"
	}

	length := utf8.RuneCountInString(strings.TrimSpace(d.CoverLetter))
	switch {
	case length < CoverLetterMin:
		errs["cover_letter"] = fmt.Sprintf("Cover letter must be at least %d characters", CoverLetterMin)
	case length > CoverLetterMax:
		errs["cover_letter"] = fmt.Sprintf("Cover letter must be at most %d characters", CoverLetterMax)
	}
	return errs
}
