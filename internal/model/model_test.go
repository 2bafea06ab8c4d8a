package model

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobFilter_Values(t *testing.T) {
	f := JobFilter{
		Categories:       []uint{3, 7},
		Locations:        []string{"Nairobi"},
		ExperienceLevels: []ExperienceLevel{ExperienceMid, ExperienceSenior},
		Remote:           Ptr(true),
		SalaryMin:        Ptr(1000),
		JobTypes:         []string{"full-time"},
		Search:           "golang",
		Ordering:         "-created_at",
		Page:             2,
		PageSize:         10,
	}

	v := f.Values()

	assert.Equal(t, []string{"3", "7"}, v["category"])
	assert.Equal(t, []string{"Nairobi"}, v["location"])
	assert.Equal(t, []string{"mid", "senior"}, v["experience_level"])
	assert.Equal(t, "true", v.Get("is_remote"))
	assert.Equal(t, "1000", v.Get("salary_min"))
	assert.False(t, v.Has("salary_max"))
	assert.Equal(t, "full-time", v.Get("job_type"))
	assert.Equal(t, "golang", v.Get("search"))
	assert.Equal(t, "-created_at", v.Get("ordering"))
	assert.False(t, v.Has("is_active"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "10", v.Get("page_size"))
}

func TestJobFilter_ValuesEmpty(t *testing.T) {
	assert.Equal(t, url.Values{}, JobFilter{}.Values())
}

func TestJobFilter_CloneIsDeep(t *testing.T) {
	f := JobFilter{Categories: []uint{1}, Remote: Ptr(false)}
	c := f.Clone()

	c.Categories[0] = 9
	*c.Remote = true

	assert.Equal(t, uint(1), f.Categories[0])
	assert.False(t, *f.Remote)
}

func TestApplicationQuery_Values(t *testing.T) {
	v := ApplicationQuery{Status: ApplicationPending, JobID: 4, Page: 1}.Values()
	assert.Equal(t, "pending", v.Get("status"))
	assert.Equal(t, "4", v.Get("job"))
	assert.Equal(t, "1", v.Get("page"))
	assert.False(t, v.Has("page_size"))
}

func TestApplication_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		current ApplicationStatus
		next    ApplicationStatus
		wantErr bool
	}{
		{"pending to reviewed", ApplicationPending, ApplicationReviewed, false},
		{"reviewed to accepted", ApplicationReviewed, ApplicationAccepted, false},
		{"unknown status", ApplicationPending, ApplicationStatus("hired"), true},
		{"withdrawn is final", ApplicationWithdrawn, ApplicationReviewed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Application{Status: tt.current}
			err := a.UpdateStatus(tt.next, "note")
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.current, a.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, a.Status)
			assert.Equal(t, "note", a.Notes)
		})
	}
}

func TestJobInput_Validate(t *testing.T) {
	errs := JobInput{
		Title:           Ptr(""),
		SalaryMin:       Ptr(500),
		SalaryMax:       Ptr(100),
		ExperienceLevel: Ptr(ExperienceLevel("guru")),
	}.Validate()

	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "salary_max")
	assert.Contains(t, errs, "experience_level")
	assert.Empty(t, JobInput{Title: Ptr("Go dev")}.Validate())
}

func TestJobInput_ApplyLeavesNilFields(t *testing.T) {
	j := Job{Title: "old", Location: "Nairobi"}
	JobInput{Title: Ptr("new"), RequiredSkills: []string{"go"}}.Apply(&j)

	assert.Equal(t, "new", j.Title)
	assert.Equal(t, "Nairobi", j.Location)
	assert.Equal(t, []string{"go"}, []string(j.RequiredSkills))
}

func TestJob_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Job{}.Expired(now))
	assert.True(t, Job{ApplicationDeadline: Ptr(now.Add(-time.Hour))}.Expired(now))
	assert.False(t, Job{ApplicationDeadline: Ptr(now.Add(time.Hour))}.Expired(now))
}

func TestJob_SalaryRange(t *testing.T) {
	j := Job{SalaryMin: Ptr(10), SalaryMax: Ptr(20), SalaryCurrency: "USD", SalaryPeriod: SalaryMonthly}
	assert.Equal(t, "10-20 USD/monthly", j.SalaryRange())
	assert.Equal(t, "", Job{}.SalaryRange())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "software-engineering", Slugify("  Software Engineering "))
	assert.Equal(t, "c-net", Slugify("C# / .NET"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestParseTaxonomyKind(t *testing.T) {
	kind, err := ParseTaxonomyKind(" Job_Type ")
	require.NoError(t, err)
	assert.Equal(t, TaxonomyJobType, kind)

	_, err = ParseTaxonomyKind("tag")
	assert.Error(t, err)
}

func TestProfileInput_Apply(t *testing.T) {
	u := User{FirstName: "Ann"}
	ProfileInput{LastName: Ptr("Lee"), Skills: []string{"go", "sql"}}.Apply(&u)

	assert.Equal(t, "Ann Lee", u.FullName())
	assert.Equal(t, []string{"go", "sql"}, []string(u.Profile.Skills))
}

func TestPaginated_HasNext(t *testing.T) {
	assert.False(t, Paginated[Job]{}.HasNext())
	assert.True(t, Paginated[Job]{Next: Ptr("http://x/?page=2")}.HasNext())
}
