package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/itportal/itportal/report"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "Write a budget request for one or more projects as a PDF",
	Flags: []cli.Flag{
		cliFlagIDs,
		&cli.StringFlag{
			Name:      flagOutputFile,
			Aliases:   []string{"f"},
			Usage:     "Write the PDF to the specified file",
			Value:     "report.pdf",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  flagDrafterRank,
			Usage: "Your rank, as shown on the approval line",
		},
		&cli.StringFlag{
			Name:  flagTeamLead,
			Usage: `The team lead on the approval line, as "name/rank"`,
		},
		&cli.StringFlag{
			Name:  flagDeptHead,
			Usage: `The department head on the approval line, as "name/rank"`,
		},
	},
	Action: reportGenerate,
}

// parseSigner parses "name/rank". Either part may be empty.
func parseSigner(s string) report.Signer {
	parts := strings.SplitN(s, "/", 2)
	signer := report.Signer{
		Name: strings.TrimSpace(parts[0]),
	}
	if len(parts) == 2 {
		signer.Rank = strings.TrimSpace(parts[1])
	}
	return signer
}

func getFontDir() (string, error) {
	env, err := getEnvironment()
	if err != nil {
		return "", err
	}
	if env.FontDir != "" {
		return env.FontDir, nil
	}
	itportalHome, err := getHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(itportalHome, "fonts"), nil
}

func reportGenerate(c *cli.Context) error {
	ids := c.StringSlice(flagID)
	filename := c.String(flagOutputFile)

	fontDir, err := getFontDir()
	if err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	projects, err := read(
		c,
		session,
		func(ctx context.Context) ([]portal.ProjectDetail, error) {
			return session.client.Projects().GetBulk(ctx, ids)
		},
	)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return errors.New("none of the specified projects were found")
	}

	identity := session.store.Identity()
	line := report.ApprovalLine{
		Drafter: report.Signer{
			ID:   identity.ID,
			Name: identity.Name,
			Rank: c.String(flagDrafterRank),
			Date: time.Now().Format("2006-01-02"),
		},
		TeamLead: parseSigner(c.String(flagTeamLead)),
		DeptHead: parseSigner(c.String(flagDeptHead)),
	}

	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "error creating %s", filename)
	}
	defer f.Close()
	if err := report.Generate(
		f,
		projects,
		line,
		&report.Options{
			FontDir: fontDir,
		},
	); err != nil {
		return err
	}

	fmt.Printf("Wrote a report on %d project(s) to %s.\n", len(projects), filename)

	return nil
}
