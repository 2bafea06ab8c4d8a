package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/wizard"
)

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		*email = c.prompt("Email: ")
	}
	if *password == "" {
		*password = c.prompt("Password: ")
	}

	if err := c.app.Session.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", c.app.Session.State().User.Email)
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := newFlags("register")
	var req model.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.FirstName, "first-name", "", "first name")
	fs.StringVar(&req.LastName, "last-name", "", "last name")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if req.Email == "" || req.FirstName == "" {
		return errUsage
	}
	req.Password = c.prompt("Password: ")
	req.PasswordConfirm = c.prompt("Confirm password: ")

	if err := c.app.Session.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Welcome, %s\n", c.app.Session.State().User.FullName())
	return nil
}

func (c *cli) logout(ctx context.Context, args []string) error {
	if err := c.app.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami(ctx context.Context, args []string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	user, err := c.app.Session.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	printUser(c.out, *user)
	return nil
}

func (c *cli) jobs(ctx context.Context, args []string) error {
	fs := newFlags("jobs")
	var filter model.JobFilter
	var locations, categories, levels, types, remote string
	var salaryMin, salaryMax, page int
	fs.StringVar(&filter.Search, "search", "", "free text")
	fs.StringVar(&locations, "location", "", "comma separated locations")
	fs.StringVar(&categories, "category", "", "comma separated category ids")
	fs.StringVar(&levels, "level", "", "comma separated experience levels")
	fs.StringVar(&types, "type", "", "comma separated job type slugs")
	fs.StringVar(&remote, "remote", "", "true or false")
	fs.IntVar(&salaryMin, "salary-min", 0, "minimum salary")
	fs.IntVar(&salaryMax, "salary-max", 0, "maximum salary")
	fs.StringVar(&filter.Ordering, "ordering", "", "ordering field, prefix - for descending")
	fs.IntVar(&page, "page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var err error
	filter.Locations = splitList(locations)
	filter.JobTypes = splitList(types)
	if filter.Categories, err = parseIDs(categories); err != nil {
		return err
	}
	for _, level := range splitList(levels) {
		if !model.ExperienceLevel(level).Valid() {
			return fmt.Errorf("invalid experience level %q", level)
		}
		filter.ExperienceLevels = append(filter.ExperienceLevels, model.ExperienceLevel(level))
	}
	if filter.Remote, err = optionalBool(remote); err != nil {
		return err
	}
	filter.SalaryMin = optionalInt(salaryMin)
	filter.SalaryMax = optionalInt(salaryMax)

	if err := c.app.Jobs.SetFilter(ctx, filter); err != nil {
		return err
	}
	if page > 1 {
		if err := c.app.Jobs.Fetch(ctx, page, false); err != nil {
			return err
		}
	}
	st := c.app.Jobs.State()
	printJobs(c.out, st.Jobs)
	printPageFooter(c.out, st.Count, st.Page, st.HasMore())
	return nil
}

func (c *cli) job(ctx context.Context, args []string) error {
	fs := newFlags("job")
	similar := fs.Bool("similar", false, "list similar jobs too")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}

	job, err := c.app.Services.Jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	printJobDetail(c.out, *job)

	if !*similar {
		return nil
	}
	jobs, err := c.app.Services.Jobs.Similar(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "\nSimilar jobs:")
	printJobs(c.out, jobs)
	return nil
}

func (c *cli) search(ctx context.Context, args []string) error {
	fs := newFlags("search")
	suggest := fs.Bool("suggest", false, "print suggestions instead of results")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	query := strings.Join(rest, " ")
	if strings.TrimSpace(query) == "" {
		return errUsage
	}

	if *suggest {
		suggestions, err := c.app.Services.Search.Suggestions(ctx, query)
		if err != nil {
			return err
		}
		for _, s := range suggestions {
			fmt.Fprintln(c.out, s)
		}
		return nil
	}

	result, err := c.app.Services.Search.Search(ctx, query, model.JobFilter{})
	if err != nil {
		return err
	}
	printJobs(c.out, result.Results)
	printPageFooter(c.out, result.Count, 1, result.HasNext())
	return nil
}

func (c *cli) recent(ctx context.Context, args []string) error {
	fs := newFlags("recent")
	clearAll := fs.Bool("clear", false, "forget recent searches")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *clearAll {
		return c.app.Services.Search.ClearRecent()
	}
	for _, q := range c.app.Services.Search.Recent() {
		fmt.Fprintln(c.out, q)
	}
	return nil
}

// apply walks the application wizard, prompting for whatever flags leave out
func (c *cli) apply(ctx context.Context, args []string) error {
	fs := newFlags("apply")
	resumePath := fs.String("resume", "", "resume file to upload")
	resumeID := fs.Uint("resume-id", 0, "id of an uploaded resume")
	coverLetter := fs.String("cover-letter", "", "cover letter text")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	jobID, err := parseID(rest[0])
	if err != nil {
		return err
	}
	if err := c.requireSession(); err != nil {
		return err
	}

	w := c.app.NewWizard(jobID)
	personal := w.Personal()
	if personal.FullName == "" {
		personal.FullName = c.prompt("Full name: ")
	}
	if personal.Email == "" {
		personal.Email = c.prompt("Email: ")
	}
	w.SetPersonal(personal)
	if err := w.Next(ctx); err != nil {
		return err
	}

	switch {
	case *resumeID != 0:
		doc, err := c.findDocument(ctx, uint(*resumeID))
		if err != nil {
			return err
		}
		w.SelectResume(*doc)
	default:
		if *resumePath == "" {
			*resumePath = c.prompt("Resume file: ")
		}
		f, err := os.Open(*resumePath)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := w.AttachResume(ctx, c.app.Services.Documents, filepath.Base(*resumePath), f); err != nil {
			return err
		}
	}
	if *coverLetter == "" {
		*coverLetter = c.prompt("Cover letter: ")
	}
	w.SetCoverLetter(*coverLetter)
	if err := w.Next(ctx); err != nil {
		return err
	}

	printReview(c.out, w)
	if !strings.EqualFold(c.prompt("Submit application? (yes/no): "), "yes") {
		fmt.Fprintln(c.out, "Application not submitted")
		return nil
	}
	if err := w.Next(ctx); err != nil {
		if errors.Is(err, wizard.ErrAlreadyApplied) {
			return fmt.Errorf("you have already applied to job %d", jobID)
		}
		return err
	}
	fmt.Fprintf(c.out, "Application %d submitted, status %s\n", w.Result().ID, w.Result().Status)
	return nil
}

func (c *cli) findDocument(ctx context.Context, id uint) (*model.Document, error) {
	for page := 1; ; page++ {
		docs, err := c.app.Services.Documents.List(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs.Results {
			if doc.ID == id {
				return &doc, nil
			}
		}
		if !docs.HasNext() {
			return nil, fmt.Errorf("document %d not found", id)
		}
	}
}

func (c *cli) applications(ctx context.Context, args []string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	fs := newFlags("applications")
	var q model.ApplicationQuery
	status := fs.String("status", "", "filter by status")
	fs.IntVar(&q.Page, "page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	q.Status = model.ApplicationStatus(*status)

	result, err := c.app.Services.Applications.List(ctx, q)
	if err != nil {
		return err
	}
	printApplications(c.out, result.Results)
	printPageFooter(c.out, result.Count, q.Page, result.HasNext())
	return nil
}

func (c *cli) withdraw(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	app, err := c.app.Services.Applications.Withdraw(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Application %d is now %s\n", app.ID, app.Status)
	return nil
}

func (c *cli) documents(ctx context.Context, args []string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	fs := newFlags("documents")
	page := fs.Int("page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	result, err := c.app.Services.Documents.List(ctx, *page)
	if err != nil {
		return err
	}
	printDocuments(c.out, result.Results)
	printPageFooter(c.out, result.Count, *page, result.HasNext())
	return nil
}

func (c *cli) upload(ctx context.Context, args []string) error {
	fs := newFlags("upload")
	docType := fs.String("type", string(model.DocumentResume), "document type")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	f, err := os.Open(rest[0])
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := c.app.Services.Documents.Upload(ctx, model.DocumentType(*docType), filepath.Base(rest[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Uploaded %s as document %d\n", doc.FileName, doc.ID)
	return nil
}

func (c *cli) bookmarks(ctx context.Context, args []string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	fs := newFlags("bookmarks")
	page := fs.Int("page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	result, err := c.app.Services.Bookmarks.List(ctx, *page)
	if err != nil {
		return err
	}
	jobs := make([]model.Job, 0, len(result.Results))
	for _, b := range result.Results {
		if b.Job != nil {
			jobs = append(jobs, *b.Job)
		}
	}
	printJobs(c.out, jobs)
	printPageFooter(c.out, result.Count, *page, result.HasNext())
	return nil
}

func (c *cli) bookmark(ctx context.Context, args []string) error {
	fs := newFlags("bookmark")
	remove := fs.Bool("remove", false, "remove the bookmark")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	id, err := parseID(rest[0])
	if err != nil {
		return err
	}
	if err := c.app.Services.Bookmarks.Set(ctx, id, !*remove); err != nil {
		return err
	}
	if *remove {
		fmt.Fprintf(c.out, "Removed bookmark on job %d\n", id)
	} else {
		fmt.Fprintf(c.out, "Bookmarked job %d\n", id)
	}
	return nil
}

func (c *cli) recommend(ctx context.Context, args []string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	fs := newFlags("recommend")
	limit := fs.Int("limit", 10, "number of recommendations")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	recs, err := c.app.Services.Recommendations.List(ctx, *limit)
	if err != nil {
		return err
	}
	printRecommendations(c.out, recs)
	return nil
}
