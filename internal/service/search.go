package service

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
)

// Search endpoint paths
const (
	SearchPath      = "/search/"
	SuggestionsPath = "/search/suggestions/"
)

// SearchService runs free text job searches and keeps the recent search list
type SearchService struct {
	api   API
	store storage.Store
}

// Search returns jobs matching query under filter, a non-empty query is recorded as a recent search
func (s *SearchService) Search(ctx context.Context, query string, filter model.JobFilter) (*model.Paginated[model.Job], error) {
	query = strings.TrimSpace(query)
	params := filter.Values()
	params.Del("search")
	if query != "" {
		params.Set("q", query)
	}

	var page model.Paginated[model.Job]
	if err := s.api.Get(ctx, SearchPath, params, &page); err != nil {
		return nil, wrap("search jobs", err)
	}

	s.Record(query)
	return &page, nil
}

// Suggestions returns completions for prefix
func (s *SearchService) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	var suggestions []string
	if err := s.api.Get(ctx, SuggestionsPath, url.Values{"q": {prefix}}, &suggestions); err != nil {
		return nil, wrap("search suggestions", err)
	}
	return suggestions, nil
}

// Record adds query to the recent searches, storage failures are logged only
func (s *SearchService) Record(query string) {
	if s.store == nil {
		return
	}
	if _, err := storage.AddRecentSearch(s.store, query); err != nil {
		log.Printf("failed to save recent search: %v", err)
	}
}

// Recent returns the recent searches, most recent first
func (s *SearchService) Recent() []string {
	if s.store == nil {
		return nil
	}
	return storage.RecentSearches(s.store)
}

// ClearRecent forgets every recent search
func (s *SearchService) ClearRecent() error {
	if s.store == nil {
		return nil
	}
	return storage.ClearRecentSearches(s.store)
}
