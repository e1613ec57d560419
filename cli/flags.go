package main

import "github.com/urfave/cli/v2"

const (
	flagApprover    = "approver"
	flagDebug       = "debug"
	flagDecision    = "decision"
	flagDeptHead    = "dept-head"
	flagDrafterRank = "drafter-rank"
	flagFile        = "file"
	flagForce       = "force"
	flagID          = "id"
	flagInsecure    = "insecure"
	flagName        = "name"
	flagOpinion     = "opinion"
	flagOrg         = "org"
	flagOutput      = "output"
	flagOutputFile  = "output-file"
	flagPassword    = "password"
	flagServer      = "server"
	flagSourceID    = "source-id"
	flagSourceTable = "source-table"
	flagTeamLead    = "team-lead"
	flagUnit        = "unit"
	flagYes         = "yes"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
	cliFlagFile = &cli.StringFlag{
		Name:      flagFile,
		Aliases:   []string{"f"},
		Usage:     "A YAML or JSON file that describes the resource (required)",
		Required:  true,
		TakesFile: true,
	}
	cliFlagID = &cli.StringFlag{
		Name:     flagID,
		Aliases:  []string{"i"},
		Usage:    "The management number of the resource (required)",
		Required: true,
	}
	cliFlagIDs = &cli.StringSliceFlag{
		Name:     flagID,
		Aliases:  []string{"i"},
		Usage:    "The management numbers of the resources; may be repeated (required)",
		Required: true,
	}
	cliFlagYes = &cli.BoolFlag{
		Name:    flagYes,
		Aliases: []string{"y"},
		Usage:   "Non-interactively confirm deletion",
	}
)
