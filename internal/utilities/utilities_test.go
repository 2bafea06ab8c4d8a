package utilities

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJSONName(t *testing.T) {
	cases := map[string]string{
		"Email":           "email",
		"PasswordConfirm": "password_confirm",
		"JobID":           "job_id",
		"DocumentIDs":     "document_ids",
	}
	for in, want := range cases {
		assert.Equal(t, want, jsonName(in), in)
	}
}

func TestBindingErrors(t *testing.T) {
	var body model.LoginRequest

	err := binding(t, "", &body)
	require.Error(t, err)
	assert.Contains(t, BindingErrors(err), "non_field_errors")

	err = binding(t, `{"email":"nope","password":""}`, &body)
	details := BindingErrors(err)
	assert.Equal(t, []string{"Enter a valid email address."}, details["email"])
	assert.Equal(t, []string{"This field is required."}, details["password"])
}

func binding(t *testing.T, raw string, v any) error {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(v)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("SeedPass123!")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("SeedPass123!", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestExtractBearerToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := ExtractBearerToken(c)
	assert.Error(t, err)

	c.Request.Header.Set("Authorization", "Bearer abc.def")
	token, err := ExtractBearerToken(c)
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	c.Request.Header.Set("Authorization", "Basic abcdefgh")
	_, err = ExtractBearerToken(c)
	assert.Error(t, err)
}

func TestParsePagination(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/jobs/?page=3&page_size=500", nil)
	assert.Equal(t, Pagination{Page: 3, PageSize: MaxPageSize}, ParsePagination(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/jobs/?page=-1&page_size=x", nil)
	assert.Equal(t, Pagination{Page: 1, PageSize: DefaultPageSize}, ParsePagination(c))
}

func TestPageURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/?search=go&page=2", nil)
	assert.Equal(t, "/api/v1/jobs/?page=3&search=go", pageURL(req.URL, 3))
}

func TestOrderClause(t *testing.T) {
	allowed := []string{"created_at", "title"}
	assert.Equal(t, "created_at DESC", OrderClause("-created_at", allowed, "id ASC"))
	assert.Equal(t, "title ASC", OrderClause("title", allowed, "id ASC"))
	assert.Equal(t, "id ASC", OrderClause("password; drop", allowed, "id ASC"))
	assert.Equal(t, "id ASC", OrderClause("", allowed, "id ASC"))
}

func TestSimulateAPICall(t *testing.T) {
	user := model.User{Email: "a@b.co"}
	rec, resp, err := SimulateAPICall(func(c *gin.Context) {
		u, err := ExtractUser(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	}, http.MethodGet, "/me", nil, &user)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.co", resp["email"])
}
