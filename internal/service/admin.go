package service

import (
	"context"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// AdminUsersPath lists users for staff
const AdminUsersPath = "/admin/users/"

// AdminService serves the admin dashboard
type AdminService struct {
	api API
}

// Stats returns the overview counters, always fresh
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := s.api.Get(ctx, AdminStatsPath, nil, &stats, apiclient.NoCache()); err != nil {
		return nil, wrap("admin stats", err)
	}
	return &stats, nil
}

// Users returns one page of users
func (s *AdminService) Users(ctx context.Context, q model.AdminQuery) (*model.Paginated[model.User], error) {
	var users model.Paginated[model.User]
	if err := s.api.Get(ctx, AdminUsersPath, q.Values(), &users); err != nil {
		return nil, wrap("admin users", err)
	}
	return &users, nil
}
