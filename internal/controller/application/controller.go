// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

var applicationPreloads = []string{"Job", "Job.Company", "Documents"}

var errAlreadyApplied = errors.New("You have already applied to this job.")

func (ac *ApplicationController) preloaded(staff bool) *gorm.DB {
	db := ac.DB.DB
	for _, name := range applicationPreloads {
		db = db.Preload(name)
	}
	if staff {
		db = db.Preload("Applicant")
	}
	return db
}

// List returns the applications of the signed in user, staff see every application
// @Summary List applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Only applications in this status"
// @Param job query int false "Only applications to this job"
// @Success 200 {object} model.Paginated[model.Application]
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /applications/ [get]
func (ac *ApplicationController) List(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := ac.DB.Model(&model.Application{})
	if !user.IsStaff {
		query = query.Where("applicant_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if jobID, err := strconv.ParseUint(c.Query("job"), 10, 64); err == nil {
		query = query.Where("job_id = ?", jobID)
	}
	query = query.Order("applied_at DESC").Order("id DESC")

	preloads := applicationPreloads
	if user.IsStaff {
		preloads = append([]string{"Applicant"}, preloads...)
	}
	page, err := utilities.Paginate[model.Application](c, query, preloads...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Submit creates an application of the signed in user.
// The job must be open and the documents must belong to the user.
// @Summary Submit application
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body model.ApplicationInput true "Application information"
// @Success 201 {object} model.Application "Successfully apply to job"
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid application, closed job or already applied"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/ [post]
func (ac *ApplicationController) Submit(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var in model.ApplicationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}

	var job model.Job
	if err := ac.DB.First(&job, in.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
				Error:   "Invalid application",
				Details: map[string][]string{"job_id": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", in.JobID)}},
			})
			return
		}
		utilities.RespondDBError(c, err, "Job")
		return
	}
	if !job.IsActive || job.Expired(time.Now()) {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   "Invalid application",
			Details: map[string][]string{"job_id": {"This job is no longer accepting applications."}},
		})
		return
	}

	documents := []model.Document{}
	if len(in.DocumentIDs) > 0 {
		if err := ac.DB.Where("id IN ? AND owner_id = ?", in.DocumentIDs, user.ID).Find(&documents).Error; err != nil {
			utilities.RespondDBError(c, err, "Document")
			return
		}
	}
	if len(documents) != len(uniqueIDs(in.DocumentIDs)) {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   "Invalid application",
			Details: map[string][]string{"document_ids": {"One or more documents do not exist."}},
		})
		return
	}

	application := model.Application{
		JobID:       job.ID,
		ApplicantID: user.ID,
		CoverLetter: in.CoverLetter,
		Status:      model.ApplicationPending,
		Documents:   documents,
	}
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Application{}).
			Where("job_id = ? AND applicant_id = ? AND status <> ?", job.ID, user.ID, model.ApplicationWithdrawn).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errAlreadyApplied
		}
		if err := tx.Omit("Job", "Applicant", "Documents.*").Create(&application).Error; err != nil {
			return err
		}
		return tx.Model(&model.Job{}).Where("id = ?", job.ID).
			UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1)).Error
	})
	switch {
	case errors.Is(err, errAlreadyApplied):
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   err.Error(),
			Details: map[string][]string{"non_field_errors": {err.Error()}},
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	ac.respond(c, http.StatusCreated, application.ID, false)
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Check reports whether the signed in user has a live application to job
// @Summary Check application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job query int true "Job id"
// @Success 200 {object} model.HasAppliedResponse
// @Failure 400 {object} utilities.ErrorResponse "Missing job"
// @Router /applications/check/ [get]
func (ac *ApplicationController) Check(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	jobID, err := strconv.ParseUint(c.Query("job"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "job query parameter is required"})
		return
	}

	var n int64
	if err := ac.DB.Model(&model.Application{}).
		Where("job_id = ? AND applicant_id = ? AND status <> ?", jobID, user.ID, model.ApplicationWithdrawn).
		Count(&n).Error; err != nil {
		utilities.RespondDBError(c, err, "Application")
		return
	}
	c.JSON(http.StatusOK, model.HasAppliedResponse{HasApplied: n > 0})
}

// load finds application id visible to the signed in user, others' applications are reported missing
func (ac *ApplicationController) load(c *gin.Context) (model.User, model.Application, bool) {
	var app model.Application
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return user, app, false
	}
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return user, app, false
	}
	if err := ac.DB.First(&app, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Application")
		return user, app, false
	}
	if app.ApplicantID != user.ID && !user.IsStaff {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return user, app, false
	}
	return user, app, true
}

func (ac *ApplicationController) respond(c *gin.Context, status int, id uint, staff bool) {
	var app model.Application
	if err := ac.preloaded(staff).First(&app, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Application")
		return
	}
	c.JSON(status, app)
}

// Get returns application id
// @Summary Get application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 200 {object} model.Application
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/ [get]
func (ac *ApplicationController) Get(c *gin.Context) {
	user, app, ok := ac.load(c)
	if !ok {
		return
	}
	ac.respond(c, http.StatusOK, app.ID, user.IsStaff)
}

// Withdraw withdraws an application of the signed in user that is not final yet
// @Summary Withdraw application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ErrorResponse "Application already decided"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/withdraw/ [post]
func (ac *ApplicationController) Withdraw(c *gin.Context) {
	user, app, ok := ac.load(c)
	if !ok {
		return
	}
	if app.ApplicantID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only the applicant can withdraw an application"})
		return
	}
	if app.Status.Final() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Application is already %s", app.Status),
		})
		return
	}

	if err := ac.DB.Model(&app).Update("status", model.ApplicationWithdrawn).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to withdraw application: %s", err.Error()),
		})
		return
	}
	ac.respond(c, http.StatusOK, app.ID, false)
}

// UpdateStatus moves application id to a new review status
// @Summary Update application status
// @Description Staff only
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application id"
// @Param status body model.StatusUpdate true "New status and optional notes"
// @Success 200 {object} model.Application
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid status"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Router /applications/{id}/status/ [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	_, app, ok := ac.load(c)
	if !ok {
		return
	}

	var update model.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	if err := app.UpdateStatus(update.Status, update.Notes); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
			Error:   err.Error(),
			Details: map[string][]string{"status": {err.Error()}},
		})
		return
	}

	if err := ac.DB.Model(&app).Select("status", "notes").Updates(&app).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}
	ac.respond(c, http.StatusOK, app.ID, true)
}
