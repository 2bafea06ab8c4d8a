package main

import (
	"context"
	"fmt"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/dashboard"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

type adminCommand func(c *cli, ctx context.Context, d *dashboard.Dashboard, args []string) error

var adminCommands = map[string]adminCommand{
	"stats":        (*cli).adminStats,
	"jobs":         (*cli).adminJobs,
	"companies":    (*cli).adminCompanies,
	"applications": (*cli).adminApplications,
	"categories":   (*cli).adminCategories,
	"bulk":         (*cli).adminBulk,
}

func (c *cli) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	sub, ok := adminCommands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownCommand, "admin "+args[0])
	}
	if err := c.requireStaff(); err != nil {
		return err
	}
	return sub(c, ctx, c.app.Dashboard(), args[1:])
}

// showTab prints whatever the dashboard loaded last
func (c *cli) showTab(d *dashboard.Dashboard) error {
	st := d.State()
	if st.Error != "" {
		return fmt.Errorf("%s", st.Error)
	}
	switch data := st.Data.(type) {
	case dashboard.OverviewData:
		printStats(c.out, data.Stats)
	case dashboard.JobsData:
		printJobs(c.out, data.Page.Results)
		printPageFooter(c.out, data.Page.Count, 0, data.Page.HasNext())
	case dashboard.CompaniesData:
		printCompanies(c.out, data.Page.Results)
		printPageFooter(c.out, data.Page.Count, 0, data.Page.HasNext())
	case dashboard.ApplicationsData:
		printApplications(c.out, data.Page.Results)
		printPageFooter(c.out, data.Page.Count, 0, data.Page.HasNext())
	case dashboard.CategoriesData:
		printTaxonomy(c.out, data.Items)
	}
	return nil
}

func (c *cli) adminStats(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	if err := d.SelectTab(ctx, dashboard.TabOverview); err != nil {
		return err
	}
	return c.showTab(d)
}

func (c *cli) adminJobs(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	fs := newFlags("admin jobs")
	var filter model.JobFilter
	active := fs.String("active", "", "true or false")
	fs.StringVar(&filter.Search, "search", "", "free text")
	fs.IntVar(&filter.Page, "page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	var err error
	if filter.IsActive, err = optionalBool(*active); err != nil {
		return err
	}
	if err := d.SetQuery(ctx, dashboard.JobsQuery{JobFilter: filter}); err != nil {
		return err
	}
	return c.showTab(d)
}

func (c *cli) adminCompanies(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	fs := newFlags("admin companies")
	var q model.CompanyQuery
	verified := fs.String("verified", "", "true or false")
	active := fs.String("active", "", "true or false")
	verify := fs.Uint("verify", 0, "verify the company with this id")
	fs.StringVar(&q.Search, "search", "", "name search")
	fs.IntVar(&q.Page, "page", 1, "page number")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	if *verify != 0 {
		company, err := d.VerifyCompany(ctx, uint(*verify))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Verified %s\n", company.Name)
		return nil
	}

	var err error
	if q.IsVerified, err = optionalBool(*verified); err != nil {
		return err
	}
	if q.IsActive, err = optionalBool(*active); err != nil {
		return err
	}
	if err := d.SetQuery(ctx, dashboard.CompaniesQuery{CompanyQuery: q}); err != nil {
		return err
	}
	return c.showTab(d)
}

func (c *cli) adminApplications(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	fs := newFlags("admin applications")
	var q model.ApplicationQuery
	status := fs.String("status", "", "filter by status")
	job := fs.Uint("job", 0, "filter by job id")
	set := fs.String("set", "", "set the status of the application given as argument")
	notes := fs.String("notes", "", "notes stored with -set")
	fs.IntVar(&q.Page, "page", 1, "page number")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}

	if *set != "" {
		if len(rest) != 1 {
			return errUsage
		}
		id, err := parseID(rest[0])
		if err != nil {
			return err
		}
		app, err := d.UpdateApplicationStatus(ctx, id, model.ApplicationStatus(*set), *notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Application %d is now %s\n", app.ID, app.Status)
		return nil
	}

	q.Status = model.ApplicationStatus(*status)
	q.JobID = uint(*job)
	if err := d.SetQuery(ctx, dashboard.ApplicationsQuery{ApplicationQuery: q}); err != nil {
		return err
	}
	return c.showTab(d)
}

func (c *cli) adminCategories(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	if err := d.SelectTab(ctx, dashboard.TabCategories); err != nil {
		return err
	}
	return c.showTab(d)
}

// adminBulk runs: admin bulk [-companies] activate|deactivate|delete id,id,...
func (c *cli) adminBulk(ctx context.Context, d *dashboard.Dashboard, args []string) error {
	fs := newFlags("admin bulk")
	companies := fs.Bool("companies", false, "act on companies instead of jobs")
	rest, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return errUsage
	}
	action, err := dashboard.ParseBulkAction(rest[0])
	if err != nil {
		return err
	}
	ids, err := parseIDs(rest[1])
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errUsage
	}

	var result dashboard.BulkResult
	if *companies {
		result, err = d.BulkCompanies(ctx, action, ids)
	} else {
		result, err = d.BulkJobs(ctx, action, ids)
	}
	if err != nil {
		return err
	}
	printBulkResult(c.out, action, result)
	return nil
}
