// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/admin"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/application"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/bookmark"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/category"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/company"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/file"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/job"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/middleware"
)

// APIPrefix is where every versioned endpoint lives
const APIPrefix = "/api/v1"

// NewRouter register each http endpoint of the job board API.
// storage may be nil to keep uploads in the database.
func NewRouter(db *database.DBinstanceStruct, cfg config.ServerConfig, storage file.StorageClient, blacklist auth.JwtBlacklistStore) http.Handler {
	r := gin.Default()

	allowOrigins := strings.Split(cfg.AllowOrigin, ",")
	r.Use(cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Retry-After", "Content-Disposition"},
		// Credentials are not allowed together with a wildcard origin
		AllowCredentials: cfg.AllowOrigin != "*",
	}))
	r.Use(middleware.SafeHeader(), middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		health := db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})

	lAuth := auth.NewLocalAuthHandler(db, blacklist)
	jobs := job.NewJobController(db)
	companies := company.NewCompanyController(db)
	categories := category.NewCategoryController(db)
	applications := application.NewApplicationController(db)
	bookmarks := bookmark.NewBookmarkController(db)
	files := file.NewFileController(db, storage)
	dashboard := admin.NewAdminController(db)

	limiter := middleware.RateLimiterMiddleware(cfg.RateLimitPerSecond)
	revoked := middleware.JwtBlacklistCheck(blacklist)
	uploadLimit := middleware.SizeLimit(file.MaxUploadBytes)

	v1 := r.Group(APIPrefix)
	{
		authRoute := v1.Group("/auth", limiter)
		{
			authRoute.POST("/register/", lAuth.Register)
			authRoute.POST("/login/", lAuth.Login)
			authRoute.POST("/refresh/", lAuth.Refresh)
			authRoute.POST("/logout/", lAuth.Logout)
		}

		// Anonymous or signed in
		public := v1.Group("", middleware.OptionalAuth(db), revoked, limiter)
		{
			public.GET("/jobs/", jobs.List)
			public.GET("/jobs/featured/", jobs.Featured)
			public.GET("/jobs/:id/", jobs.Get)
			public.GET("/jobs/:id/similar/", jobs.Similar)
			public.GET("/companies/", companies.List)
			public.GET("/companies/:id/", companies.Get)
			public.GET("/categories/", categories.List)
			public.GET("/industries/", categories.Industries)
			public.GET("/job-types/", categories.JobTypes)
			public.GET("/search/", jobs.Search)
			public.GET("/search/suggestions/", jobs.Suggestions)
			public.GET("/files/:id/", files.GetFile)
		}

		needAuth := v1.Group("", middleware.RequireAuth(db), revoked, limiter)
		{
			needAuth.GET("/auth/profile/", lAuth.Profile)
			needAuth.PATCH("/auth/profile/", lAuth.UpdateProfile)

			needAuth.GET("/recommendations/", jobs.Recommendations)

			needAuth.GET("/applications/", applications.List)
			needAuth.POST("/applications/", applications.Submit)
			needAuth.GET("/applications/check/", applications.Check)
			needAuth.GET("/applications/:id/", applications.Get)
			needAuth.POST("/applications/:id/withdraw/", applications.Withdraw)

			needAuth.GET("/documents/", files.ListDocuments)
			needAuth.POST("/documents/", uploadLimit, files.UploadDocument)
			needAuth.DELETE("/documents/:id/", files.DeleteDocument)
			needAuth.GET("/documents/:id/download/", files.DownloadDocument)

			needAuth.GET("/bookmarks/", bookmarks.List)
			needAuth.POST("/bookmarks/", bookmarks.Add)
			needAuth.DELETE("/bookmarks/:job_id/", bookmarks.Remove)
		}

		needStaff := needAuth.Group("", middleware.CheckStaff())
		{
			needStaff.POST("/jobs/", jobs.Create)
			needStaff.PATCH("/jobs/:id/", jobs.Update)
			needStaff.DELETE("/jobs/:id/", jobs.Delete)
			needStaff.POST("/jobs/:id/activate/", jobs.Activate)
			needStaff.POST("/jobs/:id/deactivate/", jobs.Deactivate)

			needStaff.POST("/companies/", companies.Create)
			needStaff.PATCH("/companies/:id/", companies.Update)
			needStaff.DELETE("/companies/:id/", companies.Delete)
			needStaff.POST("/companies/:id/activate/", companies.Activate)
			needStaff.POST("/companies/:id/deactivate/", companies.Deactivate)
			needStaff.POST("/companies/:id/verify/", companies.Verify)
			needStaff.POST("/companies/:id/logo/", uploadLimit, files.UploadCompanyLogo)

			needStaff.POST("/categories/", categories.Create)
			needStaff.PATCH("/categories/:id/", categories.Update)
			needStaff.DELETE("/categories/:id/", categories.Delete)

			needStaff.PATCH("/applications/:id/status/", applications.UpdateStatus)

			needStaff.GET("/admin/stats/", dashboard.Stats)
			needStaff.GET("/admin/users/", dashboard.Users)
		}
	}

	return r
}
