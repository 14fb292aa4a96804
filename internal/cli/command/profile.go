package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/services"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
)

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show and edit your profile",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show your profile",
				Action: profileShow,
			},
			{
				Name:  "update",
				Usage: "Update profile fields; unset flags keep their value",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "headline", Usage: "One line headline"},
					&cli.StringFlag{Name: "summary", Usage: "Summary"},
					&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Location"},
					&cli.IntFlag{Name: "years", Usage: "Years of experience"},
				},
				Action: profileUpdate,
			},
			{
				Name:   "completion",
				Usage:  "Show how complete your profile is",
				Action: profileCompletion,
			},
		},
	}
}

func profileShow(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Loading profile")()

	p, err := hook.Profile(c.Context)
	if err != nil {
		return err
	}
	return rt.render(p, profileTable(p))
}

func profileUpdate(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Saving profile")()

	// The backend replaces the whole profile.
	current, err := hook.Profile(c.Context)
	if err != nil {
		return err
	}
	req := profile.UpdateRequest{
		Headline:          current.Headline,
		Summary:           current.Summary,
		Location:          current.Location,
		YearsOfExperience: current.YearsOfExperience,
	}
	if c.IsSet("headline") {
		req.Headline = c.String("headline")
	}
	if c.IsSet("summary") {
		req.Summary = c.String("summary")
	}
	if c.IsSet("location") {
		req.Location = c.String("location")
	}
	if c.IsSet("years") {
		req.YearsOfExperience = c.Int("years")
	}

	p, err := hook.Update(c.Context, req)
	if err != nil {
		return err
	}
	return rt.render(p, profileTable(p))
}

func profileCompletion(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Loading")()

	comp, err := hook.Completion(c.Context)
	if err != nil {
		return err
	}

	table := &output.Table{}
	table.AddRow("COMPLETE:", fmt.Sprintf("%d%%", comp.Percentage))
	if len(comp.Missing) > 0 {
		table.AddRow("MISSING:", strings.Join(comp.Missing, ", "))
	}
	return rt.render(comp, table)
}

func profileTable(p profile.Profile) *output.Table {
	table := &output.Table{}
	table.AddRow("HEADLINE:", p.Headline)
	table.AddRow("LOCATION:", p.Location)
	table.AddRow("EXPERIENCE:", years(p.YearsOfExperience))
	table.AddRow("SUMMARY:", p.Summary)
	if p.UpdatedAt != "" {
		table.AddRow("UPDATED:", p.UpdatedAt)
	}
	return table
}

// requireID returns the first argument as an ID.
func requireID(c *cli.Context, what string) (services.ID, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return services.ID(id), nil
}

func years(n int) string {
	if n == 1 {
		return "1 year"
	}
	return strconv.Itoa(n) + " years"
}
