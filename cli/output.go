package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
)

func validateOutputFormat(outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "table":
	case "yaml":
	case "json":
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

// formatOutput renders obj in the specified format. table builds the table
// format lazily.
func formatOutput(
	outputFormat string,
	obj interface{},
	table func() *uitable.Table,
) (string, error) {
	switch strings.ToLower(outputFormat) {
	case "yaml":
		yamlBytes, err := yaml.Marshal(obj)
		if err != nil {
			return "", errors.Wrap(err, "error formatting output as YAML")
		}
		return string(yamlBytes), nil
	case "json":
		prettyJSON, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "error formatting output as JSON")
		}
		return string(prettyJSON), nil
	}
	return table().String(), nil
}

func printOutput(
	outputFormat string,
	obj interface{},
	table func() *uitable.Table,
) error {
	out, err := formatOutput(outputFormat, obj, table)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
