package admin

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
	auth.SetSecretKey("admin-test-secret")

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
	ac := NewAdminController(testDB)
	group := r.Group("/admin", middleware.RequireAuth(testDB), middleware.CheckStaff())
	group.GET("/stats/", ac.Stats)
	group.GET("/users/", ac.Users)
	return r
}

func TestStats(t *testing.T) {
	r := newRouter()
	adminToken, err := auth.GetAccessToken(t, testDB, "staff@jobboard.dev", database.SeedPassword)
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, adminToken, r, "/admin/stats/", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.AdminStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))

	assert.EqualValues(t, 4, stats.TotalJobs)
	assert.EqualValues(t, 4, stats.ActiveJobs)
	assert.EqualValues(t, 2, stats.TotalCompanies)
	assert.EqualValues(t, 1, stats.VerifiedCompanies)
	assert.EqualValues(t, 1, stats.TotalApplications)
	assert.EqualValues(t, 1, stats.PendingApplications)
	assert.EqualValues(t, 3, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ApplicationsByStatus[model.ApplicationPending])
	assert.Contains(t, stats.ApplicationsByStatus, model.ApplicationWithdrawn)
}

func TestUsers(t *testing.T) {
	r := newRouter()
	adminToken, err := auth.GetAccessToken(t, testDB, "staff@jobboard.dev", database.SeedPassword)
	require.NoError(t, err)

	cases := []struct {
		query string
		want  int64
	}{
		{"", 3},
		{"search=DOE", 1},
		{"search=example.com", 2},
		{"is_staff=true", 1},
		{"is_staff=false&search=john", 1},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec, _ := testutil.MakeJSONRequest(nil, adminToken, r, "/admin/users/?"+tc.query, http.MethodGet)
			require.Equal(t, http.StatusOK, rec.Code)
			var page model.Paginated[model.User]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
			assert.Equal(t, tc.want, page.Count)
		})
	}

	rec, _ := testutil.MakeJSONRequest(nil, adminToken, r, "/admin/users/?search=jane", http.MethodGet)
	var page model.Paginated[model.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Nairobi", page.Results[0].Profile.Location)
}

func TestNonStaffForbidden(t *testing.T) {
	r := newRouter()
	token, err := auth.GetAccessToken(t, testDB, "jane@example.com", database.SeedPassword)
	require.NoError(t, err)

	for _, path := range []string{"/admin/stats/", "/admin/users/"} {
		rec, _ := testutil.MakeJSONRequest(nil, token, r, path, http.MethodGet)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
}
