package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gosuri/uitable"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var projectCommand = &cli.Command{
	Name:  "project",
	Usage: "Manage IT projects",
	Subcommands: []*cli.Command{
		{
			Name:  "bulk-get",
			Usage: "Retrieve several projects in full",
			Flags: []cli.Flag{
				cliFlagIDs,
				cliFlagOutput,
			},
			Action: projectBulkGet,
		},
		{
			Name:  "create",
			Usage: "Create a new project",
			Flags: []cli.Flag{
				cliFlagFile,
			},
			Action: projectCreate,
		},
		{
			Name:  "delete",
			Usage: "Delete a single project",
			Flags: []cli.Flag{
				cliFlagID,
				cliFlagYes,
			},
			Action: projectDelete,
		},
		{
			Name:  "get",
			Usage: "Retrieve a project",
			Flags: []cli.Flag{
				cliFlagID,
				cliFlagOutput,
			},
			Action: projectGet,
		},
		{
			Name:  "list",
			Usage: "Retrieve all projects",
			Flags: []cli.Flag{
				cliFlagOutput,
				&cli.StringFlag{
					Name:    flagUnit,
					Aliases: []string{"u"},
					Usage: "Show budgets in the specified unit; supported units: 원, " +
						"천원, 백만원, 억원",
					Value: portal.UnitWon,
				},
			},
			Action: projectList,
		},
		{
			Name:  "update",
			Usage: "Update a project",
			Flags: []cli.Flag{
				cliFlagFile,
			},
			Action: projectUpdate,
		},
	},
}

func projectTable(projects []portal.Project, unit string) *uitable.Table {
	table := uitable.New()
	table.AddRow("ID", "NAME", "TYPE", "DEPARTMENT", "YEAR", "BUDGET", "STATUS")
	for _, project := range projects {
		budgetYear := ""
		if project.BudgetYear != 0 {
			budgetYear = strconv.Itoa(project.BudgetYear)
		}
		table.AddRow(
			project.ID,
			project.Name,
			project.Type,
			project.OwnerDept,
			budgetYear,
			portal.FormatBudget(project.Budget, unit),
			project.Status,
		)
	}
	return table
}

func projectList(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	projects, err := read(c, session, session.client.Projects().List)
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	return printOutput(
		output,
		projects,
		func() *uitable.Table {
			return projectTable(projects, c.String(flagUnit))
		},
	)
}

func projectGet(c *cli.Context) error {
	id := c.String(flagID)
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	project, err := read(
		c,
		session,
		func(ctx context.Context) (portal.ProjectDetail, error) {
			return session.client.Projects().Get(ctx, id)
		},
	)
	if err != nil {
		return err
	}

	return printOutput(
		output,
		project,
		func() *uitable.Table {
			return projectTable([]portal.Project{project.Project}, portal.UnitWon)
		},
	)
}

func projectBulkGet(c *cli.Context) error {
	ids := c.StringSlice(flagID)
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	details, err := read(
		c,
		session,
		func(ctx context.Context) ([]portal.ProjectDetail, error) {
			return session.client.Projects().GetBulk(ctx, ids)
		},
	)
	if err != nil {
		return err
	}

	return printOutput(
		output,
		details,
		func() *uitable.Table {
			projects := make([]portal.Project, len(details))
			for i, detail := range details {
				projects[i] = detail.Project
			}
			return projectTable(projects, portal.UnitWon)
		},
	)
}

func projectCreate(c *cli.Context) error {
	filename := c.String(flagFile)

	projectBytes, err := readResourceFile(filename)
	if err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	// Raw JSON is sent so that validation applies to what's in the file and
	// not to a project that was scrubbed of unknown fields by unmarshaling.
	project, err := session.client.Projects().CreateFromBytes(c.Context, projectBytes)
	if err != nil {
		return err
	}

	fmt.Printf("Created project %q.\n", project.ID)

	return nil
}

func projectUpdate(c *cli.Context) error {
	filename := c.String(flagFile)

	projectBytes, err := readResourceFile(filename)
	if err != nil {
		return err
	}

	// We unmarshal just so that we can get the project ID.
	project := portal.Project{}
	if err = json.Unmarshal(projectBytes, &project); err != nil {
		return errors.Wrapf(err, "error unmarshaling project file %s", filename)
	}
	if project.ID == "" {
		return errors.New("project definition does not specify an ID")
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	if _, err = session.client.Projects().UpdateFromBytes(
		c.Context,
		project.ID,
		projectBytes,
	); err != nil {
		return err
	}

	fmt.Printf("Updated project %q.\n", project.ID)

	return nil
}

func projectDelete(c *cli.Context) error {
	id := c.String(flagID)

	confirmed, err := confirmed(c)
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.client.Projects().Delete(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("Project %q deleted.\n", id)

	return nil
}
