package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/dashboard"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/server"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/state"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/storage"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.SetSecretKey("server-test-secret")
}

// newApp starts the API on a fresh seeded database and a client app pointed at it
func newApp(t *testing.T) (*state.App, *httptest.Server) {
	t.Helper()
	db, err := database.NewTestDB()
	require.NoError(t, err)
	blacklist := auth.NewInMemoryBlacklistStore(time.Minute)

	cfg := config.ServerConfig{AllowOrigin: "*", RateLimitPerSecond: 1000}
	ts := httptest.NewServer(server.NewRouter(db, cfg, nil, blacklist))

	app, err := state.NewApp(config.ClientConfig{
		BaseURL:              ts.URL + server.APIPrefix,
		Timeout:              5 * time.Second,
		CacheTTL:             time.Minute,
		CacheCleanUpInterval: time.Minute,
		RetryMaxAttempts:     1,
		StatePath:            ":memory:",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = app.Close()
		ts.Close()
		blacklist.Close()
		_ = db.Close()
	})
	return app, ts
}

func titles(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func TestHealth(t *testing.T) {
	_, ts := newApp(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestSeekerFlow(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()

	require.NoError(t, app.Session.Login(ctx, "Jane@Example.com", database.SeedPassword))
	session := app.Session.State()
	require.True(t, session.IsAuthenticated())
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.NotEmpty(t, storage.GetString(app.Store, storage.KeyAuthToken))

	remote := true
	require.NoError(t, app.Jobs.SetFilter(ctx, model.JobFilter{Remote: &remote}))
	jobs := app.Jobs.State()
	assert.EqualValues(t, 2, jobs.Count)
	assert.ElementsMatch(t, []string{"Senior Go Engineer", "Go Contractor"}, titles(jobs.Jobs))

	require.NoError(t, app.Jobs.ToggleBookmark(ctx, database.SeedGoJob.ID))
	bookmarks, err := app.Services.Bookmarks.List(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, bookmarks.Count)
	assert.Equal(t, database.SeedGoJob.ID, bookmarks.Results[0].JobID)

	require.NoError(t, app.Jobs.Refresh(ctx))
	for _, job := range app.Jobs.State().Jobs {
		assert.Equal(t, job.ID == database.SeedGoJob.ID, job.IsBookmarked, job.Title)
	}

	w := app.NewWizard(database.SeedAnalystJob.ID)
	assert.Equal(t, "Jane Doe", w.Personal().FullName)
	require.NoError(t, w.Next(ctx))
	_, err = w.AttachResume(ctx, app.Services.Documents, "jane.txt", strings.NewReader("Jane Doe\nSQL, Go"))
	require.NoError(t, err)
	w.SetCoverLetter(strings.Repeat("I enjoy turning ledgers into reports. ", 3))
	require.NoError(t, w.Next(ctx))
	require.Equal(t, wizard.StepReview, w.Step())
	require.NoError(t, w.Next(ctx))
	require.Equal(t, wizard.StepSuccess, w.Step())
	assert.Equal(t, model.ApplicationPending, w.Result().Status)
	require.Len(t, w.Result().Documents, 1)

	applied, err := app.Services.Applications.HasApplied(ctx, database.SeedAnalystJob.ID)
	require.NoError(t, err)
	assert.True(t, applied)

	again := app.NewWizard(database.SeedAnalystJob.ID)
	require.NoError(t, again.Next(ctx))
	again.SelectResume(*w.Resume())
	again.SetCoverLetter(strings.Repeat("Still keen on this role, please consider me. ", 2))
	require.NoError(t, again.Next(ctx))
	assert.ErrorIs(t, again.Next(ctx), wizard.ErrAlreadyApplied)
	assert.Equal(t, wizard.StepReview, again.Step())

	recs, err := app.Services.Recommendations.List(ctx, 10)
	require.NoError(t, err)
	for _, rec := range recs {
		assert.NotEqual(t, database.SeedAnalystJob.ID, rec.Job.ID, "applied jobs are not recommended")
	}

	require.NoError(t, app.Session.Logout(ctx))
	assert.Equal(t, state.StatusAnonymous, app.Session.State().Status)
	assert.Empty(t, storage.GetString(app.Store, storage.KeyAuthToken))
	assert.Empty(t, storage.GetString(app.Store, storage.KeyRefreshToken))
}

func TestValidationErrorsReachClient(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()

	_, err := app.Services.Auth.Register(ctx, model.RegisterRequest{
		Email: "jane@example.com", Password: "longenough1", PasswordConfirm: "longenough1", FirstName: "Jane",
	})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.NotEmpty(t, apiErr.FieldError("email"))

	_, err = app.Services.Jobs.Get(ctx, 999999)
	assert.True(t, apiclient.IsKind(err, apiclient.KindNotFound))
}

func TestForcedLogoutOnRevokedToken(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()
	require.NoError(t, app.Session.Login(ctx, "john@example.com", database.SeedPassword))

	require.NoError(t, app.Store.Set(storage.KeyAuthToken, "not-a-jwt"))
	_, err := app.Services.Auth.Profile(ctx)
	assert.True(t, apiclient.IsKind(err, apiclient.KindUnauthorized))

	assert.Eventually(t, func() bool {
		return app.Session.State().Status == state.StatusAnonymous
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, storage.GetString(app.Store, storage.KeyRefreshToken))
}

func TestStaffDashboard(t *testing.T) {
	app, _ := newApp(t)
	ctx := context.Background()
	require.NoError(t, app.Session.Login(ctx, "staff@jobboard.dev", database.SeedPassword))

	d := app.Dashboard()
	require.NoError(t, d.SelectTab(ctx, dashboard.TabOverview))
	overview, ok := d.State().Data.(dashboard.OverviewData)
	require.True(t, ok)
	assert.EqualValues(t, 4, overview.Stats.TotalJobs)
	assert.EqualValues(t, 1, overview.Stats.PendingApplications)

	var ids []uint
	for _, title := range []string{"Temp A", "Temp B", "Temp C"} {
		job, err := app.Services.Jobs.Create(ctx, model.JobInput{Title: &title, CompanyID: &database.SeedAcme.ID})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	result, err := d.BulkJobs(ctx, dashboard.BulkDeactivate, append(ids, 999999))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 1, result.Failed)

	result, err = d.BulkJobs(ctx, dashboard.BulkDelete, ids)
	require.NoError(t, err)
	assert.Equal(t, dashboard.BulkResult{Success: 3}, result)

	company, err := d.VerifyCompany(ctx, database.SeedBlueLedge.ID)
	require.NoError(t, err)
	assert.True(t, company.IsVerified)

	require.NoError(t, d.SelectTab(ctx, dashboard.TabCategories))
	categories, ok := d.State().Data.(dashboard.CategoriesData)
	require.True(t, ok)
	assert.NotEmpty(t, categories.Items)
}
