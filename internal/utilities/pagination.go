package utilities

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// Page size bounds of list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the page and page_size query of a list request
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size, out of range values fall back to defaults
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{Page: 1, PageSize: DefaultPageSize}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(c.Query("page_size")); err == nil && n > 0 {
		p.PageSize = min(n, MaxPageSize)
	}
	return p
}

// Paginate counts query, loads the requested page into a Paginated envelope and
// fills next and previous with the request url pointing at the neighbour pages.
// Preloads apply to the page only so the count stays a plain COUNT(*).
func Paginate[T any](c *gin.Context, query *gorm.DB, preloads ...string) (model.Paginated[T], error) {
	p := ParsePagination(c)
	out := model.Paginated[T]{Results: []T{}}

	if err := query.Session(&gorm.Session{}).Count(&out.Count).Error; err != nil {
		return out, err
	}
	page := query.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
	for _, name := range preloads {
		page = page.Preload(name)
	}
	if err := page.Find(&out.Results).Error; err != nil {
		return out, err
	}

	if int64(p.Page*p.PageSize) < out.Count {
		out.Next = model.Ptr(pageURL(c.Request.URL, p.Page+1))
	}
	if p.Page > 1 {
		out.Previous = model.Ptr(pageURL(c.Request.URL, p.Page-1))
	}
	return out, nil
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	next := *u
	next.RawQuery = q.Encode()
	return next.RequestURI()
}
