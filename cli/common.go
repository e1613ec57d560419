package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/ghodss/yaml"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/itportal/itportal/sdk/reactive"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func confirmed(c *cli.Context) (bool, error) {
	confirmed := c.Bool(flagYes)
	if confirmed {
		return true, nil
	}
	if err := survey.AskOne(
		&survey.Confirm{
			Message: "This action cannot be undone. Are you sure?",
		},
		&confirmed,
	); err != nil {
		return false, errors.Wrap(err, "error confirming action")
	}
	fmt.Println()
	return confirmed, nil
}

// readResourceFile returns the contents of a YAML or JSON file as JSON.
func readResourceFile(filename string) ([]byte, error) {
	resourceBytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading file %s", filename)
	}
	if strings.HasSuffix(filename, ".yaml") ||
		strings.HasSuffix(filename, ".yml") {
		if resourceBytes, err = yaml.YAMLToJSON(resourceBytes); err != nil {
			return nil, errors.Wrapf(err, "error converting file %s to JSON", filename)
		}
	}
	return resourceBytes, nil
}

func isUnauthenticated(err error) bool {
	_, ok := errors.Cause(err).(*meta.ErrAuthentication)
	return ok
}

// read performs a read bound to the session's access token. A read rejected
// with a 401 has already caused a refresh by the time it returns; if the
// session survived, the new token has scheduled another fetch and its result
// is returned instead.
func read[T any](
	c *cli.Context,
	session *portalSession,
	fetch func(context.Context) (T, error),
) (T, error) {
	query := reactive.Bind(c.Context, session.store, fetch)
	defer query.Close()
	value, err := query.Next(c.Context)
	if err != nil && isUnauthenticated(err) && session.store.IsAuthenticated() {
		value, err = query.Next(c.Context)
	}
	return value, err
}
