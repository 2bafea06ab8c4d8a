// Package job provides HTTP handlers for job post related operations.
package job

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// JobController handles job post related endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

// Number of jobs returned by the featured and similar endpoints
const (
	featuredLimit = 10
	similarLimit  = 5
)

var jobPreloads = []string{"Company", "Industry", "JobType", "Categories"}

var jobOrdering = []string{
	"created_at", "title", "salary_min", "salary_max", "views_count", "applications_count", "application_deadline",
}

const defaultJobOrder = "is_featured DESC, created_at DESC"

func isStaff(c *gin.Context) bool {
	user, err := utilities.ExtractUser(c)
	return err == nil && user.IsStaff
}

func (jc *JobController) preloaded() *gorm.DB {
	db := jc.DB.DB
	for _, name := range jobPreloads {
		db = db.Preload(name)
	}
	return db
}

// filtered builds the job query of list and search. Only staff can see inactive jobs.
func (jc *JobController) filtered(c *gin.Context, search string) *gorm.DB {
	query := jc.DB.Model(&model.Job{})

	if isStaff(c) {
		if active, ok := utilities.QueryBool(c, "is_active"); ok {
			query = query.Where("is_active = ?", active)
		}
	} else {
		query = query.Where("is_active = ?", true)
	}

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ? OR company_id IN (SELECT id FROM companies WHERE LOWER(name) LIKE ?))",
			like, like, like, like,
		)
	}

	if ids := uintValues(c.QueryArray("category")); len(ids) > 0 {
		query = query.Where("id IN (SELECT job_id FROM job_categories WHERE category_id IN ?)", ids)
	}

	if locations := c.QueryArray("location"); len(locations) > 0 {
		conds := make([]string, 0, len(locations))
		args := make([]any, 0, len(locations))
		for _, loc := range locations {
			conds = append(conds, "LOWER(location) LIKE ?")
			args = append(args, "%"+strings.ToLower(strings.TrimSpace(loc))+"%")
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if levels := c.QueryArray("experience_level"); len(levels) > 0 {
		query = query.Where("experience_level IN ?", levels)
	}

	if remote, ok := utilities.QueryBool(c, "is_remote"); ok {
		query = query.Where("is_remote = ?", remote)
	}

	// salary bounds keep jobs whose range overlaps the requested one
	if n, err := strconv.Atoi(c.Query("salary_min")); err == nil {
		query = query.Where("COALESCE(salary_max, salary_min) >= ?", n)
	}
	if n, err := strconv.Atoi(c.Query("salary_max")); err == nil {
		query = query.Where("COALESCE(salary_min, salary_max) <= ?", n)
	}

	if types := c.QueryArray("job_type"); len(types) > 0 {
		lowered := make([]string, len(types))
		for i, t := range types {
			lowered[i] = strings.ToLower(strings.TrimSpace(t))
		}
		query = query.Where("job_type_id IN (SELECT id FROM job_types WHERE slug IN ? OR LOWER(name) IN ?)", lowered, lowered)
	}

	return query.Order(utilities.OrderClause(c.Query("ordering"), jobOrdering, defaultJobOrder)).Order("id DESC")
}

func uintValues(raw []string) []uint {
	out := make([]uint, 0, len(raw))
	for _, s := range raw {
		if n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err == nil {
			out = append(out, uint(n))
		}
	}
	return out
}

// markBookmarked sets IsBookmarked on jobs for the signed in user
func (jc *JobController) markBookmarked(c *gin.Context, jobs []model.Job) error {
	user, err := utilities.ExtractUser(c)
	if err != nil || len(jobs) == 0 {
		return nil
	}
	ids := make([]uint, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}

	var saved []uint
	if err := jc.DB.Model(&model.Bookmark{}).
		Where("user_id = ? AND job_id IN ?", user.ID, ids).
		Pluck("job_id", &saved).Error; err != nil {
		return err
	}
	set := make(map[uint]bool, len(saved))
	for _, id := range saved {
		set[id] = true
	}
	for i := range jobs {
		jobs[i].IsBookmarked = set[jobs[i].ID]
	}
	return nil
}

func (jc *JobController) respondPage(c *gin.Context, query *gorm.DB) {
	page, err := utilities.Paginate[model.Job](c, query, jobPreloads...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}
	if err := jc.markBookmarked(c, page.Results); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// List fetches a page of jobs that match the query
// @Summary List jobs
// @Description Every query is optional. category, location, experience_level and job_type may repeat.
// @Description is_active is honoured for staff only, other callers always see active jobs.
// @Tags Job
// @Produce json
// @Param search query string false "Case insensitive match on title, description, location and company name"
// @Param ordering query string false "created_at, title, salary_min, salary_max, views_count, prefix - for descending"
// @Success 200 {object} model.Paginated[model.Job]
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/ [get]
func (jc *JobController) List(c *gin.Context) {
	jc.respondPage(c, jc.filtered(c, c.Query("search")))
}

// Featured returns the newest featured active jobs as a plain array
// @Summary List featured jobs
// @Tags Job
// @Produce json
// @Success 200 {array} model.Job
// @Router /jobs/featured/ [get]
func (jc *JobController) Featured(c *gin.Context) {
	jobs := []model.Job{}
	if err := jc.preloaded().
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("created_at DESC").Limit(featuredLimit).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}
	if err := jc.markBookmarked(c, jobs); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// visibleJob loads job id, an inactive job is reported missing to non staff
func (jc *JobController) visibleJob(c *gin.Context) (model.Job, bool) {
	var job model.Job
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return job, false
	}
	if err := jc.preloaded().First(&job, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Job")
		return job, false
	}
	if !job.IsActive && !isStaff(c) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return job, false
	}
	return job, true
}

// Get returns job detail and counts the view
// @Summary Get job detail
// @Tags Job
// @Produce json
// @Param id path int true "Job id"
// @Success 200 {object} model.Job
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/ [get]
func (jc *JobController) Get(c *gin.Context) {
	job, ok := jc.visibleJob(c)
	if !ok {
		return
	}

	if err := jc.DB.Model(&model.Job{}).Where("id = ?", job.ID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to count view: %s", err.Error()),
		})
		return
	}
	job.ViewsCount++

	jobs := []model.Job{job}
	if err := jc.markBookmarked(c, jobs); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs[0])
}

// Similar returns active jobs sharing a category, the industry or the experience level of job id
// @Summary List similar jobs
// @Tags Job
// @Produce json
// @Param id path int true "Job id"
// @Success 200 {array} model.Job
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/similar/ [get]
func (jc *JobController) Similar(c *gin.Context) {
	job, ok := jc.visibleJob(c)
	if !ok {
		return
	}

	categoryIDs := make([]uint, 0, len(job.Categories))
	for _, cat := range job.Categories {
		categoryIDs = append(categoryIDs, cat.ID)
	}

	conds := []string{"experience_level = ?"}
	args := []any{job.ExperienceLevel}
	if job.IndustryID != nil {
		conds = append(conds, "industry_id = ?")
		args = append(args, *job.IndustryID)
	}
	if len(categoryIDs) > 0 {
		conds = append(conds, "id IN (SELECT job_id FROM job_categories WHERE category_id IN ?)")
		args = append(args, categoryIDs)
	}

	jobs := []model.Job{}
	if err := jc.preloaded().
		Where("is_active = ? AND id <> ?", true, job.ID).
		Where("("+strings.Join(conds, " OR ")+")", args...).
		Order(defaultJobOrder).Limit(similarLimit).
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve jobs: %s", err.Error()),
		})
		return
	}
	if err := jc.markBookmarked(c, jobs); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// checkReferences validates the company, industry, job type and categories named by in
func (jc *JobController) checkReferences(in model.JobInput, details map[string][]string) ([]model.Category, error) {
	exists := func(table any, id uint) (bool, error) {
		var n int64
		err := jc.DB.Model(table).Where("id = ?", id).Count(&n).Error
		return n > 0, err
	}
	refs := []struct {
		field string
		id    *uint
		table any
	}{
		{"company_id", in.CompanyID, &model.Company{}},
		{"industry_id", in.IndustryID, &model.Industry{}},
		{"job_type_id", in.JobTypeID, &model.JobType{}},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		ok, err := exists(ref.table, *ref.id)
		if err != nil {
			return nil, err
		}
		if !ok {
			details[ref.field] = append(details[ref.field], fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *ref.id))
		}
	}

	if in.CategoryIDs == nil {
		return nil, nil
	}
	categories := []model.Category{}
	if len(in.CategoryIDs) > 0 {
		if err := jc.DB.Where("id IN ?", in.CategoryIDs).Find(&categories).Error; err != nil {
			return nil, err
		}
	}
	if len(categories) != len(uniqueIDs(in.CategoryIDs)) {
		details["category_ids"] = append(details["category_ids"], "One or more categories do not exist.")
	}
	return categories, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// save writes job and, when categories is not nil, replaces its categories
func (jc *JobController) save(job *model.Job, categories []model.Category) error {
	return jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(job).Error; err != nil {
			return err
		}
		switch {
		case categories == nil:
			return nil
		case len(categories) == 0:
			return tx.Model(job).Association("Categories").Clear()
		default:
			return tx.Model(job).Omit("Categories.*").Association("Categories").Replace(categories)
		}
	})
}

func (jc *JobController) respondJob(c *gin.Context, status int, id uint) {
	var job model.Job
	if err := jc.preloaded().First(&job, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}
	c.JSON(status, job)
}

// Create adds a job post
// @Summary Create job post
// @Description Staff only. title and company_id are required.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param job body model.JobInput true "Job information"
// @Success 201 {object} model.Job "Successfully create job post"
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid job"
// @Failure 403 {object} utilities.ErrorResponse "Not staff"
// @Router /jobs/ [post]
func (jc *JobController) Create(c *gin.Context) {
	var in model.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}

	details := in.Validate()
	if in.Title == nil {
		details["title"] = append(details["title"], "This field is required.")
	}
	if in.CompanyID == nil {
		details["company_id"] = append(details["company_id"], "This field is required.")
	}
	categories, err := jc.checkReferences(in, details)
	if err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid job", Details: details})
		return
	}

	job := model.Job{
		IsActive:        true,
		SalaryCurrency:  "USD",
		SalaryPeriod:    model.SalaryYearly,
		ExperienceLevel: model.ExperienceEntry,
	}
	in.Apply(&job)

	if err := jc.save(&job, categories); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job post: %s", err.Error()),
		})
		return
	}
	jc.respondJob(c, http.StatusCreated, job.ID)
}

// Update patches job id
// @Summary Update job post
// @Description Staff only. Fields left out are not changed, category_ids replaces the categories.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Param job body model.JobInput true "Fields to change"
// @Success 200 {object} model.Job
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid job"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/ [patch]
func (jc *JobController) Update(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var job model.Job
	if err := jc.DB.First(&job, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}

	var in model.JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	details := in.Validate()
	categories, err := jc.checkReferences(in, details)
	if err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}
	in.Apply(&job)
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		details["salary_max"] = append(details["salary_max"], "Must be greater than or equal to salary_min.")
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid job", Details: details})
		return
	}

	if err := jc.save(&job, categories); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job post: %s", err.Error()),
		})
		return
	}
	jc.respondJob(c, http.StatusOK, job.ID)
}

// Delete removes job id together with its applications and bookmarks
// @Summary Delete job post
// @Tags Job
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Success 204 "Deleted"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{id}/ [delete]
func (jc *JobController) Delete(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}

	err := jc.DB.Transaction(func(tx *gorm.DB) error {
		if err := database.ClearJobLinks(tx, []uint{id}); err != nil {
			return err
		}
		result := tx.Delete(&model.Job{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate opens job id for applications
// @Summary Activate job post
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Success 200 {object} model.Job
// @Router /jobs/{id}/activate/ [post]
func (jc *JobController) Activate(c *gin.Context) {
	jc.setActive(c, true)
}

// Deactivate hides job id from non staff
// @Summary Deactivate job post
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job id"
// @Success 200 {object} model.Job
// @Router /jobs/{id}/deactivate/ [post]
func (jc *JobController) Deactivate(c *gin.Context) {
	jc.setActive(c, false)
}

func (jc *JobController) setActive(c *gin.Context, active bool) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	result := jc.DB.Model(&model.Job{}).Where("id = ?", id).Update("is_active", active)
	if result.Error == nil && result.RowsAffected == 0 {
		result.Error = gorm.ErrRecordNotFound
	}
	if result.Error != nil {
		utilities.RespondDBError(c, result.Error, "Job")
		return
	}
	jc.respondJob(c, http.StatusOK, id)
}
