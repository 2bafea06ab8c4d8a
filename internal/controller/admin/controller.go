// Package admin provides the staff only dashboard endpoints.
package admin

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

type AdminController struct {
	DB *database.DBinstanceStruct
}

func NewAdminController(db *database.DBinstanceStruct) *AdminController {
	return &AdminController{
		DB: db,
	}
}

// Stats function counts jobs, companies, applications and users for the overview tab
// @Summary Dashboard statistics
// @Description Only staff can access this endpoints
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.AdminStats
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as staff"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/stats/ [get]
func (ac *AdminController) Stats(c *gin.Context) {
	stats := model.AdminStats{ApplicationsByStatus: map[model.ApplicationStatus]int64{}}
	for _, status := range model.ApplicationStatuses {
		stats.ApplicationsByStatus[status] = 0
	}

	counts := []struct {
		table any
		where string
		args  []any
		dest  *int64
	}{
		{&model.Job{}, "", nil, &stats.TotalJobs},
		{&model.Job{}, "is_active = ?", []any{true}, &stats.ActiveJobs},
		{&model.Company{}, "", nil, &stats.TotalCompanies},
		{&model.Company{}, "is_verified = ?", []any{true}, &stats.VerifiedCompanies},
		{&model.Application{}, "", nil, &stats.TotalApplications},
		{&model.Application{}, "status = ?", []any{model.ApplicationPending}, &stats.PendingApplications},
		{&model.User{}, "", nil, &stats.TotalUsers},
	}
	for _, count := range counts {
		query := ac.DB.Model(count.table)
		if count.where != "" {
			query = query.Where(count.where, count.args...)
		}
		if err := query.Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
			return
		}
	}

	var rows []struct {
		Status model.ApplicationStatus
		Total  int64
	}
	if err := ac.DB.Model(&model.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	for _, row := range rows {
		stats.ApplicationsByStatus[row.Status] = row.Total
	}

	c.JSON(http.StatusOK, stats)
}

// Users function query users based on given query "search" and "is_staff"
// @Summary List users
// @Description Only staff can access this endpoints
// @Description If no query given, the server will return all users
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Case insensitive match on email, first and last name"
// @Param is_staff query bool false "Only staff or non staff users"
// @Success 200 {object} model.Paginated[model.User]
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as staff"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/users/ [get]
func (ac *AdminController) Users(c *gin.Context) {
	result := ac.DB.Model(&model.User{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		result = result.Where("(LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)", like, like, like)
	}
	if staff, ok := utilities.QueryBool(c, "is_staff"); ok {
		result = result.Where("is_staff = ?", staff)
	}

	page, err := utilities.Paginate[model.User](c, result.Order("date_joined DESC").Order("email ASC"), "Profile")
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}
