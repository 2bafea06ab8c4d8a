package service

import (
	"context"
	"io"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// CompaniesPath is the company collection
const CompaniesPath = "/companies/"

// CompanyService reads and manages companies
type CompanyService struct {
	api API
}

// List returns one page of companies
func (s *CompanyService) List(ctx context.Context, q model.CompanyQuery) (*model.Paginated[model.Company], error) {
	var page model.Paginated[model.Company]
	if err := s.api.Get(ctx, CompaniesPath, q.Values(), &page); err != nil {
		return nil, wrap("list companies", err)
	}
	return &page, nil
}

// Get returns company id
func (s *CompanyService) Get(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	if err := s.api.Get(ctx, itemPath(CompaniesPath, id), nil, &company); err != nil {
		return nil, wrap("get company", err)
	}
	return &company, nil
}

// Create adds a company, staff only
func (s *CompanyService) Create(ctx context.Context, in model.CompanyInput) (*model.Company, error) {
	var company model.Company
	if err := s.api.Post(ctx, CompaniesPath, in, &company, s.invalidates()); err != nil {
		return nil, wrap("create company", err)
	}
	return &company, nil
}

// Update patches company id, staff only
func (s *CompanyService) Update(ctx context.Context, id uint, in model.CompanyInput) (*model.Company, error) {
	var company model.Company
	if err := s.api.Patch(ctx, itemPath(CompaniesPath, id), in, &company, s.invalidates()); err != nil {
		return nil, wrap("update company", err)
	}
	return &company, nil
}

// Delete removes company id and its jobs, staff only
func (s *CompanyService) Delete(ctx context.Context, id uint) error {
	return wrap("delete company", s.api.Delete(ctx, itemPath(CompaniesPath, id), nil, s.invalidates()))
}

// Activate company id
func (s *CompanyService) Activate(ctx context.Context, id uint) (*model.Company, error) {
	return s.action(ctx, id, "activate")
}

// Deactivate company id
func (s *CompanyService) Deactivate(ctx context.Context, id uint) (*model.Company, error) {
	return s.action(ctx, id, "deactivate")
}

// Verify marks company id as verified
func (s *CompanyService) Verify(ctx context.Context, id uint) (*model.Company, error) {
	return s.action(ctx, id, "verify")
}

// UploadLogo replaces the logo of company id
func (s *CompanyService) UploadLogo(ctx context.Context, id uint, filename string, logo io.Reader) (*model.Company, error) {
	var company model.Company
	if err := s.api.Upload(ctx, itemPath(CompaniesPath, id, "logo"), "logo", filename, logo, nil, &company, s.invalidates()); err != nil {
		return nil, wrap("upload logo", err)
	}
	return &company, nil
}

func (s *CompanyService) action(ctx context.Context, id uint, action string) (*model.Company, error) {
	var company model.Company
	if err := s.api.Post(ctx, itemPath(CompaniesPath, id, action), nil, &company, s.invalidates()); err != nil {
		return nil, wrap(action+" company", err)
	}
	return &company, nil
}

// jobs embed their company so both collections go stale together
func (s *CompanyService) invalidates() apiclient.CallOption {
	return apiclient.Invalidates(CompaniesPath, JobsPath, AdminStatsPath)
}
