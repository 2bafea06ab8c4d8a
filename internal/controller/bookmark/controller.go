// Package bookmark provides HTTP handlers for saved jobs.
package bookmark

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// BookmarkController handles bookmark related endpoints
type BookmarkController struct {
	DB *database.DBinstanceStruct
}

// NewBookmarkController creates a new instance of BookmarkController
func NewBookmarkController(db *database.DBinstanceStruct) *BookmarkController {
	return &BookmarkController{
		DB: db,
	}
}

// AddRequest is the body of bookmark add
type AddRequest struct {
	JobID uint `json:"job_id" binding:"required"`
}

// List returns the caller's bookmarks, newest first
// @Summary List bookmarks
// @Tags Bookmark
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Paginated[model.Bookmark]
// @Failure 401 {object} utilities.ErrorResponse "Unauthorized"
// @Router /bookmarks/ [get]
func (bc *BookmarkController) List(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := bc.DB.Model(&model.Bookmark{}).Where("user_id = ?", user.ID).Order("created_at DESC").Order("id DESC")
	page, err := utilities.Paginate[model.Bookmark](c, query, "Job", "Job.Company")
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	for i := range page.Results {
		if page.Results[i].Job != nil {
			page.Results[i].Job.IsBookmarked = true
		}
	}
	c.JSON(http.StatusOK, page)
}

// Add bookmarks a job. Adding an existing bookmark returns it with 200.
// @Summary Add bookmark
// @Tags Bookmark
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param bookmark body AddRequest true "Job to bookmark"
// @Success 201 {object} model.Bookmark
// @Success 200 {object} model.Bookmark "Already bookmarked"
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid input"
// @Router /bookmarks/ [post]
func (bc *BookmarkController) Add(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}

	var job model.Job
	if err := bc.DB.Select("id").First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
				Error:   "Invalid job",
				Details: map[string][]string{"job_id": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.JobID)}},
			})
			return
		}
		utilities.RespondDBError(c, err, "Job")
		return
	}

	bookmark := model.Bookmark{UserID: user.ID, JobID: req.JobID}
	result := bc.DB.Where(bookmark).FirstOrCreate(&bookmark)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save bookmark: %s", result.Error.Error()),
		})
		return
	}

	status := http.StatusOK
	if result.RowsAffected > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, bookmark)
}

// Remove drops the caller's bookmark of job_id
// @Summary Remove bookmark
// @Tags Bookmark
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job_id path int true "Bookmarked job id"
// @Success 204 "Removed"
// @Failure 404 {object} utilities.ErrorResponse "Bookmark not found"
// @Router /bookmarks/{job_id}/ [delete]
func (bc *BookmarkController) Remove(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	jobID, ok := utilities.ParamID(c, "job_id")
	if !ok {
		return
	}

	result := bc.DB.Where("user_id = ? AND job_id = ?", user.ID, jobID).Delete(&model.Bookmark{})
	if result.Error == nil && result.RowsAffected == 0 {
		result.Error = gorm.ErrRecordNotFound
	}
	if result.Error != nil {
		utilities.RespondDBError(c, result.Error, "Bookmark")
		return
	}
	c.Status(http.StatusNoContent)
}
