package job

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// Recommendation limits
const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

// Score weights
const (
	requiredSkillWeight  = 0.7
	preferredSkillWeight = 0.1
	locationWeight       = 0.1
	experienceWeight     = 0.1
)

// experienceFor maps years of experience to the level a user most likely fits
func experienceFor(years int) model.ExperienceLevel {
	switch {
	case years >= 12:
		return model.ExperienceExecutive
	case years >= 8:
		return model.ExperienceLead
	case years >= 5:
		return model.ExperienceSenior
	case years >= 2:
		return model.ExperienceMid
	default:
		return model.ExperienceEntry
	}
}

func skillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			set[s] = true
		}
	}
	return set
}

func matched(skills []string, have map[string]bool) []string {
	var out []string
	for _, s := range skills {
		if have[strings.ToLower(strings.TrimSpace(s))] {
			out = append(out, s)
		}
	}
	return out
}

// score rates job for profile, a zero score means no overlap at all
func score(job model.Job, profile model.Profile) model.Recommendation {
	rec := model.Recommendation{Job: job, Reasons: []string{}}
	have := skillSet(profile.Skills)

	if len(job.RequiredSkills) > 0 {
		if m := matched(job.RequiredSkills, have); len(m) > 0 {
			rec.Score += requiredSkillWeight * float64(len(m)) / float64(len(job.RequiredSkills))
			rec.Reasons = append(rec.Reasons, "Matches your skills: "+strings.Join(m, ", "))
		}
	}
	if m := matched(job.PreferredSkills, have); len(m) > 0 {
		rec.Score += preferredSkillWeight
		rec.Reasons = append(rec.Reasons, "Nice to have: "+strings.Join(m, ", "))
	}
	if rec.Score == 0 {
		return rec
	}

	switch {
	case job.IsRemote:
		rec.Score += locationWeight
		rec.Reasons = append(rec.Reasons, "Remote friendly")
	case profile.Location != "" && strings.EqualFold(job.Location, profile.Location):
		rec.Score += locationWeight
		rec.Reasons = append(rec.Reasons, "Located in "+job.Location)
	}
	if job.ExperienceLevel == experienceFor(profile.ExperienceYears) {
		rec.Score += experienceWeight
		rec.Reasons = append(rec.Reasons, fmt.Sprintf("Fits your %d years of experience", profile.ExperienceYears))
	}

	rec.Score = math.Round(rec.Score*100) / 100
	return rec
}

// Recommendations ranks open jobs against the skills of the signed in user.
// Jobs already applied to and jobs past their deadline are left out.
// @Summary Recommended jobs
// @Tags Search
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param limit query int false "Maximum number of results, default 10"
// @Success 200 {array} model.Recommendation
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /recommendations/ [get]
func (jc *JobController) Recommendations(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	limit := defaultRecommendations
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = min(n, maxRecommendations)
	}

	var jobs []model.Job
	if err := jc.preloaded().
		Where("is_active = ?", true).
		Where("application_deadline IS NULL OR application_deadline >= ?", time.Now()).
		Where("id NOT IN (SELECT job_id FROM applications WHERE applicant_id = ? AND status <> ?)", user.ID, model.ApplicationWithdrawn).
		Find(&jobs).Error; err != nil {
		utilities.RespondDBError(c, err, "Job")
		return
	}
	if err := jc.markBookmarked(c, jobs); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	recs := make([]model.Recommendation, 0, len(jobs))
	for _, job := range jobs {
		if rec := score(job, user.Profile); rec.Score > 0 {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Job.CreatedAt.After(recs[j].Job.CreatedAt)
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	c.JSON(http.StatusOK, recs)
}
