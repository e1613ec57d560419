package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var costCommand = &cli.Command{
	Name:  "cost",
	Usage: "Manage IT operating costs",
	Subcommands: []*cli.Command{
		{
			Name:  "bulk-get",
			Usage: "Retrieve several IT costs",
			Flags: []cli.Flag{
				cliFlagIDs,
				cliFlagOutput,
			},
			Action: costBulkGet,
		},
		{
			Name:  "create",
			Usage: "Create a new IT cost",
			Flags: []cli.Flag{
				cliFlagFile,
			},
			Action: costCreate,
		},
		{
			Name:  "delete",
			Usage: "Delete a single IT cost",
			Flags: []cli.Flag{
				cliFlagID,
				cliFlagYes,
			},
			Action: costDelete,
		},
		{
			Name:  "get",
			Usage: "Retrieve an IT cost",
			Flags: []cli.Flag{
				cliFlagID,
				cliFlagOutput,
			},
			Action: costGet,
		},
		{
			Name:  "list",
			Usage: "Retrieve all IT costs",
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
			Action: costList,
		},
		{
			Name:  "update",
			Usage: "Update an IT cost",
			Flags: []cli.Flag{
				cliFlagFile,
			},
			Action: costUpdate,
		},
	},
}

func costTable(costs []portal.ItCost, unit string) *uitable.Table {
	table := uitable.New()
	table.AddRow("ID", "CATEGORY", "CONTRACT", "VENDOR", "CYCLE", "BUDGET")
	for _, cost := range costs {
		table.AddRow(
			cost.ID,
			cost.ExpenseCategory,
			cost.ContractName,
			cost.Vendor,
			cost.PaymentCycle,
			portal.FormatBudget(cost.Budget, unit),
		)
	}
	return table
}

func costList(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	costs, err := read(c, session, session.client.Costs().List)
	if err != nil {
		return err
	}

	if len(costs) == 0 {
		fmt.Println("No IT costs found.")
		return nil
	}

	return printOutput(
		output,
		costs,
		func() *uitable.Table {
			return costTable(costs, c.String(flagUnit))
		},
	)
}

func costGet(c *cli.Context) error {
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

	cost, err := read(
		c,
		session,
		func(ctx context.Context) (portal.ItCost, error) {
			return session.client.Costs().Get(ctx, id)
		},
	)
	if err != nil {
		return err
	}

	return printOutput(
		output,
		cost,
		func() *uitable.Table {
			return costTable([]portal.ItCost{cost}, portal.UnitWon)
		},
	)
}

func costBulkGet(c *cli.Context) error {
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

	costs, err := read(
		c,
		session,
		func(ctx context.Context) ([]portal.ItCost, error) {
			return session.client.Costs().GetBulk(ctx, ids)
		},
	)
	if err != nil {
		return err
	}

	return printOutput(
		output,
		costs,
		func() *uitable.Table {
			return costTable(costs, portal.UnitWon)
		},
	)
}

func costCreate(c *cli.Context) error {
	filename := c.String(flagFile)

	costBytes, err := readResourceFile(filename)
	if err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	cost, err := session.client.Costs().CreateFromBytes(c.Context, costBytes)
	if err != nil {
		return err
	}

	fmt.Printf("Created IT cost %q.\n", cost.ID)

	return nil
}

func costUpdate(c *cli.Context) error {
	filename := c.String(flagFile)

	costBytes, err := readResourceFile(filename)
	if err != nil {
		return err
	}

	// We unmarshal just so that we can get the IT cost ID.
	cost := portal.ItCost{}
	if err = json.Unmarshal(costBytes, &cost); err != nil {
		return errors.Wrapf(err, "error unmarshaling IT cost file %s", filename)
	}
	if cost.ID == "" {
		return errors.New("IT cost definition does not specify an ID")
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	if _, err = session.client.Costs().UpdateFromBytes(
		c.Context,
		cost.ID,
		costBytes,
	); err != nil {
		return err
	}

	fmt.Printf("Updated IT cost %q.\n", cost.ID)

	return nil
}

func costDelete(c *cli.Context) error {
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

	if err := session.client.Costs().Delete(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("IT cost %q deleted.\n", id)

	return nil
}
