package service

import (
	"context"
	"fmt"
	"io"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// DocumentsPath is the document collection
const DocumentsPath = "/documents/"

// DocumentService uploads and manages resumes and other documents
type DocumentService struct {
	api API
}

// List returns the caller's documents
func (s *DocumentService) List(ctx context.Context, page int) (*model.Paginated[model.Document], error) {
	var docs model.Paginated[model.Document]
	if err := s.api.Get(ctx, DocumentsPath, pageValues(page, 0), &docs); err != nil {
		return nil, wrap("list documents", err)
	}
	return &docs, nil
}

// Upload sends file as a new document of docType
func (s *DocumentService) Upload(ctx context.Context, docType model.DocumentType, filename string, file io.Reader) (*model.Document, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("upload document: invalid document type %q", docType)
	}
	var doc model.Document
	err := s.api.Upload(ctx, DocumentsPath, "file", filename, file,
		map[string]string{"document_type": string(docType)}, &doc, apiclient.Invalidates(DocumentsPath))
	if err != nil {
		return nil, wrap("upload document", err)
	}
	return &doc, nil
}

// Delete removes document id
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	return wrap("delete document", s.api.Delete(ctx, itemPath(DocumentsPath, id), nil, apiclient.Invalidates(DocumentsPath)))
}

// Download returns the content and content type of document id
func (s *DocumentService) Download(ctx context.Context, id uint) ([]byte, string, error) {
	body, contentType, err := s.api.Download(ctx, itemPath(DocumentsPath, id, "download"))
	if err != nil {
		return nil, "", wrap("download document", err)
	}
	return body, contentType, nil
}
