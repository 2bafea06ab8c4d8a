package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/apiclient"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/dashboard"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/wizard"
)

const dateLayout = "2006-01-02"

func table(out io.Writer, header string, rows func(w io.Writer)) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	tw.Flush()
}

func printJobs(out io.Writer, jobs []model.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return
	}
	table(out, "ID\tTITLE\tCOMPANY\tLOCATION\tSALARY\tFLAGS", func(w io.Writer) {
		for _, j := range jobs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company.Name, jobLocation(j), j.SalaryRange(), jobFlags(j))
		}
	})
}

func jobLocation(j model.Job) string {
	switch {
	case j.IsRemote && j.Location != "":
		return j.Location + " (remote)"
	case j.IsRemote:
		return "remote"
	default:
		return j.Location
	}
}

func jobFlags(j model.Job) string {
	var flags []string
	if !j.IsActive {
		flags = append(flags, "inactive")
	}
	if j.IsFeatured {
		flags = append(flags, "featured")
	}
	if j.IsUrgent {
		flags = append(flags, "urgent")
	}
	if j.IsBookmarked {
		flags = append(flags, "saved")
	}
	return strings.Join(flags, ",")
}

func printJobDetail(out io.Writer, j model.Job) {
	fmt.Fprintf(out, "%s at %s\n", j.Title, j.Company.Name)
	fmt.Fprintf(out, "Location: %s\n", jobLocation(j))
	if salary := j.SalaryRange(); salary != "" {
		fmt.Fprintf(out, "Salary: %s\n", salary)
	}
	if j.ExperienceLevel != "" {
		fmt.Fprintf(out, "Experience: %s\n", j.ExperienceLevel)
	}
	if j.JobType != nil {
		fmt.Fprintf(out, "Type: %s\n", j.JobType.Name)
	}
	if len(j.Categories) > 0 {
		names := make([]string, len(j.Categories))
		for i, cat := range j.Categories {
			names[i] = cat.Name
		}
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(names, ", "))
	}
	if len(j.RequiredSkills) > 0 {
		fmt.Fprintf(out, "Required skills: %s\n", strings.Join(j.RequiredSkills, ", "))
	}
	if j.ApplicationDeadline != nil {
		fmt.Fprintf(out, "Apply by: %s\n", j.ApplicationDeadline.Format(dateLayout))
	}
	if flags := jobFlags(j); flags != "" {
		fmt.Fprintf(out, "Flags: %s\n", flags)
	}
	if j.Description != "" {
		fmt.Fprintf(out, "\n%s\n", j.Description)
	}
}

func printPageFooter(out io.Writer, count int64, page int, hasMore bool) {
	switch {
	case page > 0 && hasMore:
		fmt.Fprintf(out, "%d total, page %d, more with -page %d\n", count, page, page+1)
	case page > 0:
		fmt.Fprintf(out, "%d total, page %d\n", count, page)
	default:
		fmt.Fprintf(out, "%d total\n", count)
	}
}

func printUser(out io.Writer, u model.User) {
	fmt.Fprintf(out, "%s <%s>\n", u.FullName(), u.Email)
	if u.IsStaff {
		fmt.Fprintln(out, "Staff account")
	}
	if u.Profile.Location != "" {
		fmt.Fprintf(out, "Location: %s\n", u.Profile.Location)
	}
	if len(u.Profile.Skills) > 0 {
		fmt.Fprintf(out, "Skills: %s\n", strings.Join(u.Profile.Skills, ", "))
	}
	fmt.Fprintf(out, "Experience: %d years\n", u.Profile.ExperienceYears)
}

func printApplications(out io.Writer, apps []model.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(out, "No applications")
		return
	}
	table(out, "ID\tJOB\tSTATUS\tAPPLIED", func(w io.Writer) {
		for _, a := range apps {
			title := fmt.Sprintf("#%d", a.JobID)
			if a.Job != nil {
				title = a.Job.Title
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, title, a.Status, a.AppliedAt.Format(dateLayout))
		}
	})
}

func printDocuments(out io.Writer, docs []model.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents")
		return
	}
	table(out, "ID\tTYPE\tNAME\tSIZE", func(w io.Writer) {
		for _, d := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", d.ID, d.Type, d.FileName, d.Size)
		}
	})
}

func printCompanies(out io.Writer, companies []model.Company) {
	if len(companies) == 0 {
		fmt.Fprintln(out, "No companies")
		return
	}
	table(out, "ID\tNAME\tLOCATION\tVERIFIED\tACTIVE", func(w io.Writer) {
		for _, co := range companies {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\n", co.ID, co.Name, co.Location, co.IsVerified, co.IsActive)
		}
	})
}

func printTaxonomy(out io.Writer, items []model.TaxonomyItem) {
	table(out, "KIND\tID\tNAME\tSLUG", func(w io.Writer) {
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", item.Kind, item.ID, item.Name, item.Slug)
		}
	})
}

func printRecommendations(out io.Writer, recs []model.Recommendation) {
	if len(recs) == 0 {
		fmt.Fprintln(out, "No recommendations yet, add skills to your profile")
		return
	}
	table(out, "ID\tTITLE\tSCORE\tWHY", func(w io.Writer) {
		for _, r := range recs {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", r.Job.ID, r.Job.Title, r.Score, strings.Join(r.Reasons, "; "))
		}
	})
}

func printStats(out io.Writer, s model.AdminStats) {
	table(out, "METRIC\tVALUE", func(w io.Writer) {
		fmt.Fprintf(w, "jobs\t%d (%d active)\n", s.TotalJobs, s.ActiveJobs)
		fmt.Fprintf(w, "companies\t%d (%d verified)\n", s.TotalCompanies, s.VerifiedCompanies)
		fmt.Fprintf(w, "applications\t%d (%d pending)\n", s.TotalApplications, s.PendingApplications)
		fmt.Fprintf(w, "users\t%d\n", s.TotalUsers)
		statuses := make([]string, 0, len(s.ApplicationsByStatus))
		for status := range s.ApplicationsByStatus {
			statuses = append(statuses, string(status))
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			fmt.Fprintf(w, "  %s\t%d\n", status, s.ApplicationsByStatus[model.ApplicationStatus(status)])
		}
	})
}

func printReview(out io.Writer, w *wizard.Wizard) {
	p, d := w.Personal(), w.Documents()
	fmt.Fprintf(out, "Applying to job %d as %s <%s>\n", w.JobID(), p.FullName, p.Email)
	if resume := w.Resume(); resume != nil {
		fmt.Fprintf(out, "Resume: %s\n", resume.FileName)
	}
	fmt.Fprintf(out, "Cover letter: %d characters\n", len([]rune(d.CoverLetter)))
}

func printBulkResult(out io.Writer, action dashboard.BulkAction, r dashboard.BulkResult) {
	fmt.Fprintf(out, "%s: %d succeeded, %d failed\n", action, r.Success, r.Failed)
	for _, e := range r.Errors {
		fmt.Fprintf(out, "  %d: %s\n", e.ID, describe(e.Err))
	}
}

// describe turns an error into one line for the terminal, field errors included
func describe(err error) string {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	msg := apiErr.Message
	if len(apiErr.Details) == 0 {
		return msg
	}
	fields := make([]string, 0, len(apiErr.Details))
	for field := range apiErr.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msg += fmt.Sprintf("\n  %s: %s", field, strings.Join(apiErr.Details[field], " "))
	}
	return msg
}
