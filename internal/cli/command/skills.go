package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/services/profile"
)

// SkillsCommand returns the skills subcommand group.
func SkillsCommand() *cli.Command {
	return &cli.Command{
		Name:    "skills",
		Aliases: []string{"skill"},
		Usage:   "Manage the skills on your profile",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your skills",
				Action:  skillsList,
			},
			{
				Name:      "get",
				Usage:     "Show one skill",
				ArgsUsage: "SKILL_ID",
				Action:    skillsGet,
			},
			{
				Name:  "add",
				Usage: "Add a skill",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Skill name", Required: true},
					levelFlag(),
					&cli.IntFlag{Name: "years", Usage: "Years of experience"},
				},
				Action: skillsAdd,
			},
			{
				Name:      "update",
				Usage:     "Update a skill; unset flags keep their value",
				ArgsUsage: "SKILL_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Skill name"},
					levelFlag(),
					&cli.IntFlag{Name: "years", Usage: "Years of experience"},
				},
				Action: skillsUpdate,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm", "delete"},
				Usage:     "Remove a skill",
				ArgsUsage: "SKILL_ID",
				Action:    skillsRemove,
			},
		},
	}
}

func levelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "level",
		Usage: "beginner, intermediate, advanced or expert",
	}
}

func skillsList(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Loading skills")()

	skills, err := hook.Skills(c.Context)
	if err != nil {
		return err
	}

	table := &output.Table{Headers: []string{"ID", "NAME", "LEVEL", "YEARS"}}
	for _, s := range skills {
		table.AddRow(s.ID.String(), s.Name, s.Level, strconv.Itoa(s.YearsOfExperience))
	}
	return rt.render(skills, table)
}

func skillsGet(c *cli.Context) error {
	id, err := requireID(c, "skill ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Loading skill")()

	s, err := hook.Skill(c.Context, id)
	if err != nil {
		return err
	}
	return rt.render(s, skillTable(s))
}

func skillsAdd(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Adding skill")()

	s, err := hook.AddSkill(c.Context, profile.SkillInput{
		Name:              c.String("name"),
		Level:             c.String("level"),
		YearsOfExperience: c.Int("years"),
	})
	if err != nil {
		return err
	}
	return rt.render(s, skillTable(s))
}

func skillsUpdate(c *cli.Context) error {
	id, err := requireID(c, "skill ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Updating skill")()

	current, err := hook.Skill(c.Context, id)
	if err != nil {
		return err
	}
	in := profile.SkillInput{
		Name:              current.Name,
		Level:             current.Level,
		YearsOfExperience: current.YearsOfExperience,
	}
	if c.IsSet("name") {
		in.Name = c.String("name")
	}
	if c.IsSet("level") {
		in.Level = c.String("level")
	}
	if c.IsSet("years") {
		in.YearsOfExperience = c.Int("years")
	}

	s, err := hook.UpdateSkill(c.Context, id, in)
	if err != nil {
		return err
	}
	return rt.render(s, skillTable(s))
}

func skillsRemove(c *cli.Context) error {
	id, err := requireID(c, "skill ID")
	if err != nil {
		return err
	}
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	hook := rt.client.ProfileHook
	defer rt.follow(hook.Subscribe, "Removing skill")()

	return hook.DeleteSkill(c.Context, id)
}

func skillTable(s profile.Skill) *output.Table {
	table := &output.Table{}
	table.AddRow("ID:", s.ID.String())
	table.AddRow("NAME:", s.Name)
	table.AddRow("LEVEL:", s.Level)
	table.AddRow("EXPERIENCE:", years(s.YearsOfExperience))
	return table
}
