package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// RecommendationsPath serves jobs matched to the caller's profile
const RecommendationsPath = "/recommendations/"

// RecommendationService reads personalized job suggestions
type RecommendationService struct {
	api API
}

// List returns up to limit recommendations, best first. limit <= 0 uses the server default
func (s *RecommendationService) List(ctx context.Context, limit int) ([]model.Recommendation, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var recs []model.Recommendation
	if err := s.api.Get(ctx, RecommendationsPath, params, &recs, apiclient.NoCache()); err != nil {
		return nil, wrap("recommendations", err)
	}
	return recs, nil
}
