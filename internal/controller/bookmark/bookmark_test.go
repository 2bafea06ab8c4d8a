package bookmark

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/middleware"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.SetSecretKey("bookmark-test-secret")

	var err error
	testDB, err = database.NewTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

func newRouter() *gin.Engine {
	r := gin.New()
	bc := NewBookmarkController(testDB)
	group := r.Group("/bookmarks", middleware.RequireAuth(testDB))
	group.GET("/", bc.List)
	group.POST("/", bc.Add)
	group.DELETE("/:job_id/", bc.Remove)
	return r
}

func TestBookmarks(t *testing.T) {
	r := newRouter()
	access, err := auth.GetAccessToken(t, testDB, "jane@example.com", database.SeedPassword)
	require.NoError(t, err)
	path := fmt.Sprintf("/bookmarks/%d/", database.SeedGoJob.ID)
	t.Cleanup(func() { testDB.Where("job_id = ?", database.SeedGoJob.ID).Delete(&model.Bookmark{}) })

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/bookmarks/", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := testutil.MakeJSONRequest(gin.H{}, access, r, "/bookmarks/", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["details"], "job_id")

	rec, resp = testutil.MakeJSONRequest(gin.H{"job_id": 999999}, access, r, "/bookmarks/", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["details"], "job_id")

	body := gin.H{"job_id": database.SeedGoJob.ID}
	rec, _ = testutil.MakeJSONRequest(body, access, r, "/bookmarks/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = testutil.MakeJSONRequest(body, access, r, "/bookmarks/", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, access, r, "/bookmarks/", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var page model.Paginated[model.Bookmark]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.EqualValues(t, 1, page.Count)
	require.NotNil(t, page.Results[0].Job)
	assert.Equal(t, "Senior Go Engineer", page.Results[0].Job.Title)
	assert.Equal(t, "Acme Cloud", page.Results[0].Job.Company.Name)
	assert.True(t, page.Results[0].Job.IsBookmarked)

	other, err := auth.GetAccessToken(t, testDB, "john@example.com", database.SeedPassword)
	require.NoError(t, err)
	rec, _ = testutil.MakeJSONRequest(nil, other, r, path, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, access, r, path, http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, access, r, path, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
