package service

import (
	"context"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Job endpoint paths
const (
	JobsPath       = "/jobs/"
	FeaturedPath   = "/jobs/featured/"
	AdminStatsPath = "/admin/stats/"
)

// JobService reads and manages job posts
type JobService struct {
	api API
}

// List returns one page of jobs matching filter
func (s *JobService) List(ctx context.Context, filter model.JobFilter) (*model.Paginated[model.Job], error) {
	var page model.Paginated[model.Job]
	if err := s.api.Get(ctx, JobsPath, filter.Values(), &page); err != nil {
		return nil, wrap("list jobs", err)
	}
	return &page, nil
}

// Get returns job id
func (s *JobService) Get(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	if err := s.api.Get(ctx, itemPath(JobsPath, id), nil, &job); err != nil {
		return nil, wrap("get job", err)
	}
	return &job, nil
}

// Featured returns the featured jobs
func (s *JobService) Featured(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := s.api.Get(ctx, FeaturedPath, nil, &jobs); err != nil {
		return nil, wrap("featured jobs", err)
	}
	return jobs, nil
}

// Similar returns jobs close to job id
func (s *JobService) Similar(ctx context.Context, id uint) ([]model.Job, error) {
	var jobs []model.Job
	if err := s.api.Get(ctx, itemPath(JobsPath, id, "similar"), nil, &jobs); err != nil {
		return nil, wrap("similar jobs", err)
	}
	return jobs, nil
}

// Create posts a new job, staff only
func (s *JobService) Create(ctx context.Context, in model.JobInput) (*model.Job, error) {
	var job model.Job
	if err := s.api.Post(ctx, JobsPath, in, &job, apiclient.Invalidates(JobsPath, AdminStatsPath)); err != nil {
		return nil, wrap("create job", err)
	}
	return &job, nil
}

// Update patches job id, staff only
func (s *JobService) Update(ctx context.Context, id uint, in model.JobInput) (*model.Job, error) {
	var job model.Job
	if err := s.api.Patch(ctx, itemPath(JobsPath, id), in, &job, apiclient.Invalidates(JobsPath, AdminStatsPath)); err != nil {
		return nil, wrap("update job", err)
	}
	return &job, nil
}

// Delete removes job id, staff only
func (s *JobService) Delete(ctx context.Context, id uint) error {
	return wrap("delete job", s.api.Delete(ctx, itemPath(JobsPath, id), nil, apiclient.Invalidates(JobsPath, AdminStatsPath)))
}

// Activate opens job id for applications
func (s *JobService) Activate(ctx context.Context, id uint) (*model.Job, error) {
	return s.toggle(ctx, id, "activate")
}

// Deactivate closes job id
func (s *JobService) Deactivate(ctx context.Context, id uint) (*model.Job, error) {
	return s.toggle(ctx, id, "deactivate")
}

func (s *JobService) toggle(ctx context.Context, id uint, action string) (*model.Job, error) {
	var job model.Job
	if err := s.api.Post(ctx, itemPath(JobsPath, id, action), nil, &job, apiclient.Invalidates(JobsPath, AdminStatsPath)); err != nil {
		return nil, wrap(action+" job", err)
	}
	return &job, nil
}
