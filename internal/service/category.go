package service

import (
	"context"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Taxonomy endpoint paths
const (
	CategoriesPath = "/categories/"
	IndustriesPath = "/industries/"
	JobTypesPath   = "/job-types/"
)

// taxonomyPageSize is large enough to read a whole taxonomy in one call
const taxonomyPageSize = 100

// CategoryService reads industries, job types and categories and manages categories
type CategoryService struct {
	api API
}

// List returns one page of categories
func (s *CategoryService) List(ctx context.Context, page, pageSize int) (*model.Paginated[model.Category], error) {
	var categories model.Paginated[model.Category]
	if err := s.api.Get(ctx, CategoriesPath, pageValues(page, pageSize), &categories); err != nil {
		return nil, wrap("list categories", err)
	}
	return &categories, nil
}

// Industries returns every industry
func (s *CategoryService) Industries(ctx context.Context) ([]model.Industry, error) {
	var industries model.Paginated[model.Industry]
	if err := s.api.Get(ctx, IndustriesPath, pageValues(1, taxonomyPageSize), &industries); err != nil {
		return nil, wrap("list industries", err)
	}
	return industries.Results, nil
}

// JobTypes returns every job type
func (s *CategoryService) JobTypes(ctx context.Context) ([]model.JobType, error) {
	var jobTypes model.Paginated[model.JobType]
	if err := s.api.Get(ctx, JobTypesPath, pageValues(1, taxonomyPageSize), &jobTypes); err != nil {
		return nil, wrap("list job types", err)
	}
	return jobTypes.Results, nil
}

// Taxonomy returns industries, job types and categories as one tagged list
func (s *CategoryService) Taxonomy(ctx context.Context) ([]model.TaxonomyItem, error) {
	industries, err := s.Industries(ctx)
	if err != nil {
		return nil, err
	}
	jobTypes, err := s.JobTypes(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.List(ctx, 1, taxonomyPageSize)
	if err != nil {
		return nil, err
	}

	items := make([]model.TaxonomyItem, 0, len(industries)+len(jobTypes)+len(categories.Results))
	for _, i := range industries {
		items = append(items, i.Item())
	}
	for _, j := range jobTypes {
		items = append(items, j.Item())
	}
	for _, c := range categories.Results {
		items = append(items, c.Item())
	}
	return items, nil
}

// Create adds a category, staff only
func (s *CategoryService) Create(ctx context.Context, in model.CategoryInput) (*model.Category, error) {
	var category model.Category
	if err := s.api.Post(ctx, CategoriesPath, in, &category, apiclient.Invalidates(CategoriesPath)); err != nil {
		return nil, wrap("create category", err)
	}
	return &category, nil
}

// Update patches category id, staff only
func (s *CategoryService) Update(ctx context.Context, id uint, in model.CategoryInput) (*model.Category, error) {
	var category model.Category
	if err := s.api.Patch(ctx, itemPath(CategoriesPath, id), in, &category, apiclient.Invalidates(CategoriesPath)); err != nil {
		return nil, wrap("update category", err)
	}
	return &category, nil
}

// Delete removes category id, staff only
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return wrap("delete category", s.api.Delete(ctx, itemPath(CategoriesPath, id), nil, apiclient.Invalidates(CategoriesPath, JobsPath)))
}
