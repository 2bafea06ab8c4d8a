package model

import (
	"time"

	"github.com/google/uuid"
)

// File holds uploaded bytes. Content is kept in the database unless the
// object was pushed to cloud storage, then StorageObjectName is set instead.
type File struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	Content           []byte  `json:"-"`
	Extension         string  `json:"extension"`
	ContentType       string  `json:"content_type"`
	StorageObjectName *string `json:"-"`
}

// DocumentType is the role of an uploaded document
type DocumentType string

// Document types
const (
	DocumentResume      DocumentType = "resume"
	DocumentCoverLetter DocumentType = "cover_letter"
	DocumentPortfolio   DocumentType = "portfolio"
)

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	return t == DocumentResume || t == DocumentCoverLetter || t == DocumentPortfolio
}

// Document is a file a user uploaded to attach to applications
type Document struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	OwnerID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"owner"`
	Type        DocumentType `gorm:"type:text;not null" json:"document_type"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	Size        int64        `json:"size"`
	FileID      uint         `json:"-"`
	File        File         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UploadedAt  time.Time    `gorm:"autoCreateTime" json:"uploaded_at"`
}
