// Package service wraps the REST endpoints of the job board in typed domain calls
package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
)

// API is the part of apiclient.Client the services use
type API interface {
	Get(ctx context.Context, path string, params url.Values, out any, opts ...apiclient.CallOption) error
	Post(ctx context.Context, path string, body, out any, opts ...apiclient.CallOption) error
	Put(ctx context.Context, path string, body, out any, opts ...apiclient.CallOption) error
	Patch(ctx context.Context, path string, body, out any, opts ...apiclient.CallOption) error
	Delete(ctx context.Context, path string, out any, opts ...apiclient.CallOption) error
	Upload(ctx context.Context, path, field, filename string, file io.Reader, form map[string]string, out any, opts ...apiclient.CallOption) error
	Download(ctx context.Context, path string, opts ...apiclient.CallOption) ([]byte, string, error)
}

// Services groups every domain service over one API
type Services struct {
	Auth            *AuthService
	Jobs            *JobService
	Applications    *ApplicationService
	Documents       *DocumentService
	Companies       *CompanyService
	Categories      *CategoryService
	Admin           *AdminService
	Bookmarks       *BookmarkService
	Search          *SearchService
	Recommendations *RecommendationService
}

// New builds every service, store keeps recent searches
func New(api API, store storage.Store) *Services {
	return &Services{
		Auth:            &AuthService{api: api},
		Jobs:            &JobService{api: api},
		Applications:    &ApplicationService{api: api},
		Documents:       &DocumentService{api: api},
		Companies:       &CompanyService{api: api},
		Categories:      &CategoryService{api: api},
		Admin:           &AdminService{api: api},
		Bookmarks:       &BookmarkService{api: api},
		Search:          &SearchService{api: api, store: store},
		Recommendations: &RecommendationService{api: api},
	}
}

func itemPath(base string, id uint, action ...string) string {
	path := base + strconv.FormatUint(uint64(id), 10) + "/"
	for _, a := range action {
		path += a + "/"
	}
	return path
}

func pageValues(page, pageSize int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		v.Set("page_size", strconv.Itoa(pageSize))
	}
	return v
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
