package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/services/job"
)

// JobsCommand returns the jobs subcommand group.
func JobsCommand() *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "Search and apply to jobs",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls", "search"},
				Usage:   "Search open jobs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search text"},
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location filter"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "Page number"},
					&cli.IntFlag{Name: "page-size", Value: 20, Usage: "Page size"},
				},
				Action: jobsList,
			},
			{
				Name:      "get",
				Usage:     "Show job details",
				ArgsUsage: "JOB_ID",
				Action:    jobsGet,
			},
			{
				Name:      "apply",
				Usage:     "Apply to a job",
				ArgsUsage: "JOB_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cover-letter", Usage: "Cover letter text"},
				},
				Action: jobsApply,
			},
		},
	}
}

// ApplicationsCommand returns the applications subcommand group.
func ApplicationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "applications",
		Aliases: []string{"apps"},
		Usage:   "Track your job applications",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your applications",
				Action:  applicationsList,
			},
			{
				Name:      "withdraw",
				Usage:     "Withdraw an application",
				ArgsUsage: "APPLICATION_ID",
				Action:    applicationsWithdraw,
			},
		},
	}
}

func jobsList(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.JobsHook
	defer rt.follow(hook.Subscribe, "Searching")()

	page, err := hook.Search(c.Context, job.Filter{
		Query:    c.String("query"),
		Location: c.String("location"),
		Page:     c.Int("page"),
		PageSize: c.Int("page-size"),
	})
	if err != nil {
		return err
	}

	if rt.format != output.FormatTable {
		return rt.render(page, nil)
	}

	headers := []string{"ID", "TITLE", "COMPANY", "LOCATION"}
	if rt.wide {
		headers = append(headers, "SALARY", "POSTED", "APPLIED")
	}
	table := &output.Table{Headers: headers}
	for _, j := range page.Items {
		row := []string{j.ID.String(), j.Title, j.Company, j.Location}
		if rt.wide {
			row = append(row, j.Salary, j.PostedAt, yesNo(j.Applied))
		}
		table.AddRow(row...)
	}
	if err := table.Render(rt.out); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "\nTotal: %d jobs (page %d)\n", page.Total, page.Page)
	return nil
}

func jobsGet(c *cli.Context) error {
	id, err := requireID(c, "job ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.JobsHook
	defer rt.follow(hook.Subscribe, "Loading job")()

	j, err := hook.Job(c.Context, id)
	if err != nil {
		return err
	}

	table := &output.Table{}
	table.AddRow("ID:", j.ID.String())
	table.AddRow("TITLE:", j.Title)
	table.AddRow("COMPANY:", j.Company)
	table.AddRow("LOCATION:", j.Location)
	if j.Salary != "" {
		table.AddRow("SALARY:", j.Salary)
	}
	if j.PostedAt != "" {
		table.AddRow("POSTED:", j.PostedAt)
	}
	table.AddRow("APPLIED:", yesNo(j.Applied))
	if j.Description != "" {
		table.AddRow("DESCRIPTION:", j.Description)
	}
	return rt.render(j, table)
}

func jobsApply(c *cli.Context) error {
	id, err := requireID(c, "job ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.JobsHook
	defer rt.follow(hook.Subscribe, "Submitting application")()

	app, err := hook.Apply(c.Context, job.ApplyRequest{
		JobID:       id,
		CoverLetter: c.String("cover-letter"),
	})
	if err != nil {
		return err
	}
	return rt.render(app, applicationsTable([]job.Application{app}))
}

func applicationsList(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.JobsHook
	defer rt.follow(hook.Subscribe, "Loading applications")()

	apps, err := hook.Applications(c.Context)
	if err != nil {
		return err
	}
	return rt.render(apps, applicationsTable(apps))
}

func applicationsWithdraw(c *cli.Context) error {
	id, err := requireID(c, "application ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.JobsHook
	defer rt.follow(hook.Subscribe, "Withdrawing")()

	return hook.Withdraw(c.Context, id)
}

func applicationsTable(apps []job.Application) *output.Table {
	table := &output.Table{Headers: []string{"ID", "JOB", "TITLE", "STATUS", "CREATED"}}
	for _, a := range apps {
		table.AddRow(a.ID.String(), a.JobID.String(), a.JobTitle, a.Status, a.CreatedAt)
	}
	return table
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
