// Package company provides HTTP handlers for employer operations.
package company

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// CompanyController handles company related endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

func isStaff(c *gin.Context) bool {
	user, err := utilities.ExtractUser(c)
	return err == nil && user.IsStaff
}

// List returns a page of companies. Non staff only see active companies.
// @Summary List companies
// @Tags Company
// @Produce json
// @Param search query string false "Case insensitive match on name and location"
// @Param is_verified query bool false "Only verified or unverified companies"
// @Param is_active query bool false "Staff only"
// @Success 200 {object} model.Paginated[model.Company]
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/ [get]
func (cc *CompanyController) List(c *gin.Context) {
	query := cc.DB.Model(&model.Company{})
	if isStaff(c) {
		if active, ok := utilities.QueryBool(c, "is_active"); ok {
			query = query.Where("is_active = ?", active)
		}
	} else {
		query = query.Where("is_active = ?", true)
	}
	if verified, ok := utilities.QueryBool(c, "is_verified"); ok {
		query = query.Where("is_verified = ?", verified)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(location) LIKE ?)", like, like)
	}

	page, err := utilities.Paginate[model.Company](c, query.Order("name ASC").Order("id ASC"), "Industry")
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get returns company id
// @Summary Get company
// @Tags Company
// @Produce json
// @Param id path int true "Company id"
// @Success 200 {object} model.Company
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id}/ [get]
func (cc *CompanyController) Get(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var company model.Company
	if err := cc.DB.Preload("Industry").First(&company, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}
	if !company.IsActive && !isStaff(c) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
		return
	}
	c.JSON(http.StatusOK, company)
}

func (cc *CompanyController) validate(in model.CompanyInput, creating bool) (map[string][]string, error) {
	details := map[string][]string{}
	switch {
	case in.Name == nil && creating:
		details["name"] = append(details["name"], "This field is required.")
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		details["name"] = append(details["name"], "This field may not be blank.")
	}
	if in.IndustryID != nil {
		var n int64
		if err := cc.DB.Model(&model.Industry{}).Where("id = ?", *in.IndustryID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			details["industry_id"] = append(details["industry_id"], fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.IndustryID))
		}
	}
	return details, nil
}

func (cc *CompanyController) respond(c *gin.Context, status int, id uint) {
	var company model.Company
	if err := cc.DB.Preload("Industry").First(&company, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}
	c.JSON(status, company)
}

// Create adds a company
// @Summary Create company
// @Description Staff only, name is required
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param company body model.CompanyInput true "Company information"
// @Success 201 {object} model.Company
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid company"
// @Router /companies/ [post]
func (cc *CompanyController) Create(c *gin.Context) {
	var in model.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	details, err := cc.validate(in, true)
	if err != nil {
		utilities.RespondDBError(c, err, "Industry")
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid company", Details: details})
		return
	}

	company := model.Company{IsActive: true}
	in.Apply(&company)
	if err := cc.DB.Omit("Industry", "LogoFile").Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}
	cc.respond(c, http.StatusCreated, company.ID)
}

// Update patches company id
// @Summary Update company
// @Description Staff only, fields left out are not changed
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Param company body model.CompanyInput true "Fields to change"
// @Success 200 {object} model.Company
// @Failure 400 {object} utilities.ValidationErrorResponse "Invalid company"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id}/ [patch]
func (cc *CompanyController) Update(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	var company model.Company
	if err := cc.DB.First(&company, id).Error; err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}

	var in model.CompanyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utilities.ValidationFailed(c, err)
		return
	}
	details, err := cc.validate(in, false)
	if err != nil {
		utilities.RespondDBError(c, err, "Industry")
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, utilities.ValidationErrorResponse{Error: "Invalid company", Details: details})
		return
	}

	in.Apply(&company)
	if err := cc.DB.Omit("Industry", "LogoFile").Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}
	cc.respond(c, http.StatusOK, company.ID)
}

// Delete removes company id, its jobs with their applications and its logo
// @Summary Delete company
// @Tags Company
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Success 204 "Deleted"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Router /companies/{id}/ [delete]
func (cc *CompanyController) Delete(c *gin.Context) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		var company model.Company
		if err := tx.First(&company, id).Error; err != nil {
			return err
		}
		var jobIDs []uint
		if err := tx.Model(&model.Job{}).Where("company_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		if err := database.ClearJobLinks(tx, jobIDs); err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&model.Job{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&company).Error; err != nil {
			return err
		}
		if company.LogoFileID != nil {
			return tx.Delete(&model.File{}, *company.LogoFileID).Error
		}
		return nil
	})
	if err != nil {
		utilities.RespondDBError(c, err, "Company")
		return
	}
	c.Status(http.StatusNoContent)
}

// Activate company id
// @Summary Activate company
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Success 200 {object} model.Company
// @Router /companies/{id}/activate/ [post]
func (cc *CompanyController) Activate(c *gin.Context) {
	cc.setFlag(c, "is_active", true)
}

// Deactivate company id
// @Summary Deactivate company
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Success 200 {object} model.Company
// @Router /companies/{id}/deactivate/ [post]
func (cc *CompanyController) Deactivate(c *gin.Context) {
	cc.setFlag(c, "is_active", false)
}

// Verify marks company id as verified
// @Summary Verify company
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Company id"
// @Success 200 {object} model.Company
// @Router /companies/{id}/verify/ [post]
func (cc *CompanyController) Verify(c *gin.Context) {
	cc.setFlag(c, "is_verified", true)
}

func (cc *CompanyController) setFlag(c *gin.Context, column string, value bool) {
	id, ok := utilities.ParamID(c, "id")
	if !ok {
		return
	}
	result := cc.DB.Model(&model.Company{}).Where("id = ?", id).Update(column, value)
	if result.Error == nil && result.RowsAffected == 0 {
		result.Error = gorm.ErrRecordNotFound
	}
	if result.Error != nil {
		utilities.RespondDBError(c, result.Error, "Company")
		return
	}
	cc.respond(c, http.StatusOK, id)
}
