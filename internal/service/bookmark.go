package service

import (
	"context"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// BookmarksPath is the bookmark collection
const BookmarksPath = "/bookmarks/"

// BookmarkService saves jobs for later
type BookmarkService struct {
	api API
}

// List returns the caller's bookmarks
func (s *BookmarkService) List(ctx context.Context, page int) (*model.Paginated[model.Bookmark], error) {
	var bookmarks model.Paginated[model.Bookmark]
	if err := s.api.Get(ctx, BookmarksPath, pageValues(page, 0), &bookmarks, apiclient.NoCache()); err != nil {
		return nil, wrap("list bookmarks", err)
	}
	return &bookmarks, nil
}

// Add bookmarks jobID
func (s *BookmarkService) Add(ctx context.Context, jobID uint) (*model.Bookmark, error) {
	var bookmark model.Bookmark
	body := map[string]uint{"job_id": jobID}
	if err := s.api.Post(ctx, BookmarksPath, body, &bookmark, s.invalidates()); err != nil {
		return nil, wrap("add bookmark", err)
	}
	return &bookmark, nil
}

// Remove drops the bookmark of jobID
func (s *BookmarkService) Remove(ctx context.Context, jobID uint) error {
	return wrap("remove bookmark", s.api.Delete(ctx, itemPath(BookmarksPath, jobID), nil, s.invalidates()))
}

// Set bookmarks or un-bookmarks jobID
func (s *BookmarkService) Set(ctx context.Context, jobID uint, bookmarked bool) error {
	if bookmarked {
		_, err := s.Add(ctx, jobID)
		return err
	}
	return s.Remove(ctx, jobID)
}

// is_bookmarked is part of every cached job response
func (s *BookmarkService) invalidates() apiclient.CallOption {
	return apiclient.Invalidates(BookmarksPath, JobsPath, SearchPath)
}
