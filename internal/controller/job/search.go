package job

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

const suggestionLimit = 10

// Search runs a free text job search, every list filter applies as well
// @Summary Search jobs
// @Tags Search
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} model.Paginated[model.Job]
// @Router /search/ [get]
func (jc *JobController) Search(c *gin.Context) {
	jc.respondPage(c, jc.filtered(c, c.Query("q")))
}

// Suggestions completes q from active job titles and company names
// @Summary Search suggestions
// @Tags Search
// @Produce json
// @Param q query string true "Prefix to complete"
// @Success 200 {array} string
// @Router /search/suggestions/ [get]
func (jc *JobController) Suggestions(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q == "" {
		c.JSON(http.StatusOK, []string{})
		return
	}
	like := "%" + q + "%"

	var titles, companies []string
	if err := jc.DB.Model(&model.Job{}).
		Where("is_active = ? AND LOWER(title) LIKE ?", true, like).
		Distinct().Order("title").Limit(suggestionLimit).
		Pluck("title", &titles).Error; err != nil {
		utilities.RespondDBError(c, err, "Suggestion")
		return
	}
	if err := jc.DB.Model(&model.Company{}).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, like).
		Distinct().Order("name").Limit(suggestionLimit).
		Pluck("name", &companies).Error; err != nil {
		utilities.RespondDBError(c, err, "Suggestion")
		return
	}

	suggestions := make([]string, 0, suggestionLimit)
	seen := map[string]bool{}
	for _, s := range append(titles, companies...) {
		key := strings.ToLower(s)
		if seen[key] || len(suggestions) == suggestionLimit {
			continue
		}
		seen[key] = true
		suggestions = append(suggestions, s)
	}
	c.JSON(http.StatusOK, suggestions)
}
