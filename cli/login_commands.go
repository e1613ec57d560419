package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gosuri/uitable"
	"github.com/itportal/itportal/sdk/auth"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to the IT Portal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Log into the API server at the specified address " +
				"(required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     flagID,
			Aliases:  []string{"i"},
			Usage:    "Log in with the specified employee number (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage: "Specify the password non-interactively; prompted for when " +
				"omitted",
		},
		&cli.BoolFlag{
			Name: flagForce,
			Usage: "Log in even if a session is already established; the " +
				"existing session is replaced",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Log out of the IT Portal",
	Action: logout,
}

var whoamiCommand = &cli.Command{
	Name:  "whoami",
	Usage: "Show who is logged in",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: whoami,
}

func login(c *cli.Context) error {
	address := c.String(flagServer)
	id := c.String(flagID)
	password := c.String(flagPassword)

	session, err := newSession(c, address)
	if err != nil {
		return err
	}
	defer session.close()

	if session.store.IsAuthenticated() && !c.Bool(flagForce) {
		identity := session.store.Identity()
		fmt.Printf(
			"You are already logged in as %s (%s); use --%s to log in again.\n",
			identity.Name,
			identity.ID,
			flagForce,
		)
		return nil
	}

	for password == "" {
		if !terminal.IsTerminal(int(os.Stdin.Fd())) {
			return errors.Errorf(
				"no password was specified; use --%s when stdin is not a terminal",
				flagPassword,
			)
		}
		prompt := &survey.Password{
			Message: "Password",
		}
		if err := survey.AskOne(prompt, &password); err != nil {
			return err
		}
	}

	// A live session is only replaced after it has been revoked.
	if session.store.IsAuthenticated() {
		session.store.Logout(c.Context)
	}

	if err := session.store.Login(
		c.Context,
		auth.Credentials{
			ID:     id,
			Secret: password,
		},
	); err != nil {
		return err
	}

	if err := saveConfig(
		&config{
			APIAddress: address,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	identity := session.store.Identity()
	fmt.Printf("You are logged in as %s (%s).\n", identity.Name, identity.ID)

	return nil
}

func logout(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	apiAddress, err := getAPIAddress()
	if err != nil {
		return err
	}
	session, err := newSession(c, apiAddress)
	if err != nil {
		return err
	}
	defer session.close()

	// Logout clears the local session even when the API server rejects the
	// request.
	session.store.Logout(c.Context)

	if err := deleteConfig(); err != nil {
		return errors.Wrap(err, "error deleting configuration")
	}

	fmt.Println("Logout was successful.")

	return nil
}

func whoami(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	session, err := getSession(c)
	if err != nil {
		return err
	}
	defer session.close()

	identity := session.store.Identity()
	return printOutput(
		output,
		struct {
			auth.Identity `json:",inline"`
			APIAddress    string `json:"apiAddress"`
		}{
			Identity:   *identity,
			APIAddress: session.apiAddress,
		},
		func() *uitable.Table {
			table := uitable.New()
			table.AddRow("ID", "NAME", "SERVER")
			table.AddRow(identity.ID, identity.Name, session.apiAddress)
			return table
		},
	)
}
