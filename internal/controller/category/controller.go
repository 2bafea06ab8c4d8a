// Package category provides HTTP handlers for categories, industries and job types.
package category

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// CategoryController handles taxonomy related endpoints
type CategoryController struct {
	DB *database.DBinstanceStruct
}

// NewCategoryController creates a new instance of CategoryController
func NewCategoryController(db *database.DBinstanceStruct) *CategoryController {
	return &CategoryController{
		DB: db,
	}
}

var errDuplicate = errors.New("A category with this name or slug already exists.")

// List returns a page of categories with the number of active jobs in each
// @Summary List categories
// @Tags Category
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} model.Paginated[model.Category]
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /categories/ [get]
func (cc *CategoryController) List(c *gin.Context) {
	page, err := utilities.Paginate[model.Category](c, cc.DB.Model(&model.Category{}).Order("name ASC"))
	if err == nil {
		err = cc.countJobs(page.Results)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (cc *CategoryController) countJobs(categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]uint, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}

	var rows []struct {
		CategoryID uint
		Total      int64
	}
	err := cc.DB.Table("job_categories").
		Select("job_categories.category_id AS category_id, COUNT(*) AS total").
		Joins("JOIN jobs ON jobs.id = job_categories.job_id").
		Where("job_categories.category_id IN ? AND jobs.is_active = ?", ids, true).
		Group("job_categories.category_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	totals := make(map[uint]int64, len(rows))
	for _, row := range rows {
		totals[row.CategoryID] = row.Total
	}
	for i := range categories {
		categories[i].JobsCount = totals[categories[i].ID]
	}
	return nil
}

func (cc *CategoryController) validate(in model.CategoryInput, self uint, creating bool) (map[string][]string, error) {
	details := map[string][]string{}
	switch {
	case creating && in.Name == nil:
		details["name"] = []string{"This field is required."}
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		details["name"] = []string{"This field may not be blank."}
	}
	if in.ParentID != nil {
		if *in.ParentID == self {
			details["parent_id"] = []string{"A category cannot be its own parent."}
		} else {
			var count int64
			if err := cc.DB.Model(&model.Category{}).Where("id = ?", *in.ParentID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count == 0 {
				details["parent_id"] = []string{fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.ParentID)}
			}
		}
	}
	return details, nil
}

// apply copies in onto cat, the slug follows the name unless given
func apply(in model.CategoryInput, cat *model.Category) {
	if in.Name != nil {
		cat.Name = strings.TrimSpace(*in.Name)
		if in.Slug == nil {
			cat.Slug = model.Slugify(cat.Name)
		}
	}
	if in.Slug != nil {
		cat.Slug = model.Slugify(*in.Slug)
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	if in.ParentID != nil {
		cat.ParentID = in.ParentID
	}
}

func (cc *CategoryController) checkUnique(cat model.Category) error {
	var count int64
	err := cc.DB.Model(&model.Category{}).
		Where("(LOWER(name) = ? OR slug = ?) AND id <> ?", strings.ToLower(cat.Name), cat.Slug, cat.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errDuplicate
	}
	return nil
}

func (cc *CategoryController) save(c *gin.Context, cat *model.Category, status int) {
	if err := cc.checkUnique(*cat); err != nil {
		if errors.Is(err, errDuplicate) {
			c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{
				Error:   "Category already exist",
				Details: map[string][]string{"name": {err.Error()}},
			})
			return
		}
		utilities.RespondDBError(c, err, "Category")
		return
	}
	if err := cc.DB.Save(cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save category: %s", err.Error()),
		})
		return
	}
	c.JSON(status, cat)
}

// Create adds a category
// @Summary Create category
// @Tags Category
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param category body model.CategoryInput true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid input"
// @Router /categories/ [post]
func (cc *CategoryController) Create(c *gin.Context) {
	var in model.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	details, err := cc.validate(in, 0, true)
	if err != nil {
		utilities.RespondDBError(c, err, "Category")
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid category", Details: details})
		return
	}

	var cat model.Category
	apply(in, &cat)
	cc.save(c, &cat, http.StatusCreated)
}

// Update patches category id
// @Summary Update category
// @Tags Category
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Category id"
// @Param category body model.CategoryInput true "Fields to change"
// @Success 200 {object} model.Category
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid input"
// @Failure 404 {object} utilities.ErrorResponse "Category not found"
// @Router /categories/{id}/ [patch]
func (cc *CategoryController) Update(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var cat model.Category
	if err := cc.DB.First(&cat, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Category")
		return
	}

	var in model.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	details, err := cc.validate(in, id, false)
	if err != nil {
		utilities.RespondDBError(c, err, "Category")
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid category", Details: details})
		return
	}

	apply(in, &cat)
	cc.save(c, &cat, http.StatusOK)
}

// Delete removes category id, jobs lose the category and child categories become top level
// @Summary Delete category
// @Tags Category
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Category id"
// @Success 204 "Deleted"
// @Failure 404 {object} utilities.ErrorResponse "Category not found"
// @Router /categories/{id}/ [delete]
func (cc *CategoryController) Delete(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM job_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error == nil && result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return result.Error
	})
	if err != nil {
		utilities.RespondDBError(c, err, "Category")
		return
	}
	c.Status(http.StatusNoContent)
}

// Industries returns a page of industries
// @Summary List industries
// @Tags Category
// @Produce json
// @Success 200 {object} model.Paginated[model.Industry]
// @Router /industries/ [get]
func (cc *CategoryController) Industries(c *gin.Context) {
	listAll[model.Industry](c, cc.DB.Model(&model.Industry{}))
}

// JobTypes returns a page of job types
// @Summary List job types
// @Tags Category
// @Produce json
// @Success 200 {object} model.Paginated[model.JobType]
// @Router /job-types/ [get]
func (cc *CategoryController) JobTypes(c *gin.Context) {
	listAll[model.JobType](c, cc.DB.Model(&model.JobType{}))
}

func listAll[T any](c *gin.Context, query *gorm.DB) {
	page, err := utilities.Paginate[T](c, query.Order("name ASC"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}
