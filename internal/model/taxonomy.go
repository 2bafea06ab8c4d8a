package model

import (
	"fmt"
	"strings"
)

// Industry a company or job belongs to
type Industry struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// JobType is full-time, contract, internship ...
type JobType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
}

// Category groups jobs, categories may nest one level through ParentID
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ParentID    *uint  `gorm:"index" json:"parent_id"`
	JobsCount   int64  `gorm:"-" json:"jobs_count"`
}

// CategoryInput is the body of category create and update
type CategoryInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	ParentID    *uint   `json:"parent_id,omitempty"`
}

// TaxonomyKind tags a TaxonomyItem
type TaxonomyKind string

// Taxonomy kinds
const (
	TaxonomyIndustry TaxonomyKind = "industry"
	TaxonomyJobType  TaxonomyKind = "job_type"
	TaxonomyCategory TaxonomyKind = "category"
)

// TaxonomyItem is one entry of the combined taxonomy list shown in the admin categories tab
type TaxonomyItem struct {
	Kind        TaxonomyKind `json:"kind"`
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
}

// Item converts to a TaxonomyItem
func (i Industry) Item() TaxonomyItem {
	return TaxonomyItem{Kind: TaxonomyIndustry, ID: i.ID, Name: i.Name, Slug: i.Slug, Description: i.Description}
}

// Item converts to a TaxonomyItem
func (j JobType) Item() TaxonomyItem {
	return TaxonomyItem{Kind: TaxonomyJobType, ID: j.ID, Name: j.Name, Slug: j.Slug}
}

// Item converts to a TaxonomyItem
func (c Category) Item() TaxonomyItem {
	return TaxonomyItem{Kind: TaxonomyCategory, ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}

// ParseTaxonomyKind validates s
func ParseTaxonomyKind(s string) (TaxonomyKind, error) {
	switch kind := TaxonomyKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case TaxonomyIndustry, TaxonomyJobType, TaxonomyCategory:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown taxonomy kind: %s", s)
	}
}

// Slugify lower-cases s and joins words with dashes
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
