package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Application endpoint paths
const (
	ApplicationsPath     = "/applications/"
	ApplicationCheckPath = "/applications/check/"
)

// ApplicationService submits and tracks job applications
type ApplicationService struct {
	api API
}

// List returns the caller's applications, or every application for staff
func (s *ApplicationService) List(ctx context.Context, q model.ApplicationQuery) (*model.Paginated[model.Application], error) {
	var page model.Paginated[model.Application]
	if err := s.api.Get(ctx, ApplicationsPath, q.Values(), &page); err != nil {
		return nil, wrap("list applications", err)
	}
	return &page, nil
}

// Get returns application id
func (s *ApplicationService) Get(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := s.api.Get(ctx, itemPath(ApplicationsPath, id), nil, &app); err != nil {
		return nil, wrap("get application", err)
	}
	return &app, nil
}

// Submit creates an application
func (s *ApplicationService) Submit(ctx context.Context, in model.ApplicationInput) (*model.Application, error) {
	var app model.Application
	err := s.api.Post(ctx, ApplicationsPath, in, &app,
		apiclient.Invalidates(ApplicationsPath, itemPath(JobsPath, in.JobID), AdminStatsPath))
	if err != nil {
		return nil, wrap("submit application", err)
	}
	return &app, nil
}

// HasApplied reports whether the caller already applied to jobID, never cached
func (s *ApplicationService) HasApplied(ctx context.Context, jobID uint) (bool, error) {
	var resp model.HasAppliedResponse
	params := url.Values{"job": {strconv.FormatUint(uint64(jobID), 10)}}
	if err := s.api.Get(ctx, ApplicationCheckPath, params, &resp, apiclient.NoCache()); err != nil {
		return false, wrap("check application", err)
	}
	return resp.HasApplied, nil
}

// Withdraw withdraws application id
func (s *ApplicationService) Withdraw(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	if err := s.api.Post(ctx, itemPath(ApplicationsPath, id, "withdraw"), nil, &app, apiclient.Invalidates(ApplicationsPath, AdminStatsPath)); err != nil {
		return nil, wrap("withdraw application", err)
	}
	return &app, nil
}

// UpdateStatus sets the review status of application id, staff only
func (s *ApplicationService) UpdateStatus(ctx context.Context, id uint, update model.StatusUpdate) (*model.Application, error) {
	var app model.Application
	if err := s.api.Patch(ctx, itemPath(ApplicationsPath, id, "status"), update, &app, apiclient.Invalidates(ApplicationsPath, AdminStatsPath)); err != nil {
		return nil, wrap("update application status", err)
	}
	return &app, nil
}
