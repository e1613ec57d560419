package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/urfave/cli/v2"
)

var orgCommand = &cli.Command{
	Name:  "org",
	Usage: "Browse the organization directory",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Retrieve all departments",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: orgList,
		},
		{
			Name:  "tree",
			Usage: "Show departments as a tree",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: orgTree,
		},
		{
			Name:  "users",
			Usage: "Retrieve the employees of a department",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagOrg,
					Usage:    "The code of the department (required)",
					Required: true,
				},
				cliFlagOutput,
			},
			Action: orgUsers,
		},
	},
}

func orgList(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	orgs, err := read(c, session, session.client.Organizations().List)
	if err != nil {
		return err
	}

	return printOutput(
		output,
		orgs,
		func() *uitable.Table {
			table := uitable.New()
			table.AddRow("CODE", "NAME", "PARENT")
			for _, org := range orgs {
				parent := ""
				if org.ParentCode != nil {
					parent = *org.ParentCode
				}
				table.AddRow(org.Code, org.Name, parent)
			}
			return table
		},
	)
}

func orgTree(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	orgs, err := read(c, session, session.client.Organizations().List)
	if err != nil {
		return err
	}
	roots := portal.BuildOrgTree(orgs)

	return printOutput(
		output,
		roots,
		func() *uitable.Table {
			table := uitable.New()
			table.AddRow("DEPARTMENT", "CODE")
			addOrgRows(table, roots, 0)
			return table
		},
	)
}

func addOrgRows(table *uitable.Table, nodes []*portal.OrgNode, depth int) {
	for _, node := range nodes {
		table.AddRow(strings.Repeat("  ", depth)+node.Label, node.Key)
		addOrgRows(table, node.Children, depth+1)
	}
}

func orgUsers(c *cli.Context) error {
	orgCode := c.String(flagOrg)
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	users, err := read(
		c,
		session,
		func(ctx context.Context) ([]portal.OrgUser, error) {
			return session.client.Organizations().ListUsers(ctx, orgCode)
		},
	)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No employees found.")
		return nil
	}

	return printOutput(
		output,
		users,
		func() *uitable.Table {
			table := uitable.New()
			table.AddRow("ID", "NAME", "POSITION", "DEPARTMENT", "TEAM")
			for _, user := range users {
				position, team := "", ""
				if user.Position != nil {
					position = *user.Position
				}
				if user.TeamName != nil {
					team = *user.TeamName
				}
				table.AddRow(user.ID, user.Name, position, user.DeptName, team)
			}
			return table
		},
	)
}
