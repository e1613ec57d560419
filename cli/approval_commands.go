package main

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/urfave/cli/v2"
)

var approvalCommand = &cli.Command{
	Name:  "approval",
	Usage: "Manage approval applications",
	Subcommands: []*cli.Command{
		{
			Name:  "approve",
			Usage: "Record your decision on one or more applications",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     flagID,
					Aliases:  []string{"i"},
					Usage:    "Decide on the specified applications; may be repeated (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagDecision,
					Aliases: []string{"d"},
					Usage: fmt.Sprintf(
						"The decision to record; one of %s or %s",
						portal.DecisionApprove,
						portal.DecisionReject,
					),
					Value: portal.DecisionApprove,
				},
				&cli.StringFlag{
					Name:  flagOpinion,
					Usage: "An opinion to record with the decision",
				},
			},
			Action: approvalApprove,
		},
		{
			Name:  "create",
			Usage: "Submit a record for approval",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagName,
					Aliases:  []string{"n"},
					Usage:    "The name of the application (required)",
					Required: true,
				},
				&cli.StringSliceFlag{
					Name:     flagApprover,
					Aliases:  []string{"a"},
					Usage:    "Employee numbers of the approvers, in order; may be repeated (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:  flagSourceTable,
					Usage: "The table of the record being submitted",
				},
				&cli.StringFlag{
					Name:  flagSourceID,
					Usage: "The management number of the record being submitted",
				},
				&cli.StringFlag{
					Name:  flagOpinion,
					Usage: "The requester's opinion",
				},
			},
			Action: approvalCreate,
		},
		{
			Name:  "list",
			Usage: "Retrieve all approval applications",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: approvalList,
		},
	},
}

func approvalList(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	approvals, err := read(c, session, session.client.Approvals().List)
	if err != nil {
		return err
	}

	if len(approvals) == 0 {
		fmt.Println("No approval applications found.")
		return nil
	}

	return printOutput(
		output,
		approvals,
		func() *uitable.Table {
			table := uitable.New()
			table.AddRow("ID", "NAME", "STATUS", "REQUESTER", "DATE", "APPROVERS")
			for _, approval := range approvals {
				approvers := make([]string, len(approval.Approvers))
				for i, approver := range approval.Approvers {
					approvers[i] = approver.ID
					if approver.Decision != "" {
						approvers[i] = fmt.Sprintf("%s(%s)", approver.ID, approver.Decision)
					}
				}
				table.AddRow(
					approval.ID,
					approval.Name,
					approval.Status,
					approval.RequesterID,
					approval.RequestDate,
					strings.Join(approvers, " > "),
				)
			}
			return table
		},
	)
}

func approvalCreate(c *cli.Context) error {
	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	approval, err := session.client.Approvals().Create(
		c.Context,
		portal.CreateApplicationRequest{
			Name:        c.String(flagName),
			SourceTable: c.String(flagSourceTable),
			SourceID:    c.String(flagSourceID),
			RequesterID: session.store.Identity().ID,
			Opinion:     c.String(flagOpinion),
			ApproverIDs: c.StringSlice(flagApprover),
		},
	)
	if err != nil {
		return err
	}

	fmt.Printf("Submitted application %q (%s).\n", approval.ID, approval.Status)

	return nil
}

func approvalApprove(c *cli.Context) error {
	ids := c.StringSlice(flagID)
	decision := c.String(flagDecision)
	opinion := c.String(flagOpinion)

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	approverID := session.store.Identity().ID
	items := make([]portal.BulkApprovalItem, len(ids))
	for i, id := range ids {
		items[i] = portal.BulkApprovalItem{
			ApplicationID: id,
			ApproverID:    approverID,
			Opinion:       opinion,
			Decision:      decision,
		}
	}
	if err := session.client.Approvals().BulkApprove(c.Context, items); err != nil {
		return err
	}

	fmt.Printf("Recorded %s on %d application(s).\n", decision, len(ids))

	return nil
}
