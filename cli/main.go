package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/itportal/itportal/internal/signals"
	"github.com/itportal/itportal/internal/version"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "itportal"
	app.Usage = "Manage IT projects, IT costs and their approvals"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
		&cli.BoolFlag{
			Name:  flagDebug,
			Usage: "Log to stderr, verbosely",
		},
	}
	app.Before = configureLogging
	app.Commands = []*cli.Command{
		approvalCommand,
		costCommand,
		loginCommand,
		logoutCommand,
		orgCommand,
		projectCommand,
		reportCommand,
		whoamiCommand,
	}
	return app
}

func main() {
	// glog registers its flags with the standard library's flag package.
	// They're set programmatically in configureLogging instead of being parsed
	// from the command line.
	if err := flag.CommandLine.Parse(nil); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
	if err := newApp().RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
