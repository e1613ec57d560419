package main

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/itportal/itportal/internal/file"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const envconfigPrefix = "ITPORTAL"

// Supported values of ITPORTAL_STORAGE.
const (
	storageFile    = "file"
	storageMemory  = "memory"
	storageMongoDB = "mongodb"
	storageRedis   = "redis"
)

type config struct {
	APIAddress string `json:"apiAddress"`
}

// environment is read from ITPORTAL_* environment variables.
type environment struct {
	// Home overrides ~/.itportal.
	Home string `envconfig:"HOME"`
	// APIAddress overrides the address saved by `itportal login`.
	APIAddress string `envconfig:"API_ADDRESS"`
	// Storage selects where the session is kept between invocations.
	Storage string `envconfig:"STORAGE" default:"file"`
	// FontDir is where the report's Korean fonts are found. Defaults to
	// <home>/fonts.
	FontDir string `envconfig:"FONT_DIR"`
}

func getEnvironment() (environment, error) {
	env := environment{}
	err := envconfig.Process(envconfigPrefix, &env)
	return env, errors.Wrap(err, "error reading environment")
}

func getConfig() (*config, error) {
	itportalHome, err := getHome()
	if err != nil {
		return nil, errors.Wrapf(err, "error finding itportal home")
	}
	configFile := filepath.Join(itportalHome, "config")
	if !file.Exists(configFile) {
		return nil, errors.Errorf(
			"no itportal configuration was found at %s; please use "+
				"`itportal login` to continue",
			configFile,
		)
	}

	configBytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading itportal config file at %s",
			configFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing itportal config file at %s",
			configFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	itportalHome, err := getHome()
	if err != nil {
		return errors.Wrapf(err, "error finding itportal home")
	}
	if err = os.MkdirAll(itportalHome, 0755); err != nil {
		return errors.Wrapf(err, "error creating itportal home at %s", itportalHome)
	}
	configFile := filepath.Join(itportalHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(configFile, configBytes, 0644); err != nil {
		return errors.Wrapf(err, "error writing to %s", configFile)
	}
	return nil
}

func deleteConfig() error {
	itportalHome, err := getHome()
	if err != nil {
		return errors.Wrapf(err, "error finding itportal home")
	}
	configFile := filepath.Join(itportalHome, "config")

	if err := os.Remove(configFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "error deleting configuration")
	}

	return nil
}

// getAPIAddress returns the address of the API server, preferring
// ITPORTAL_API_ADDRESS over the saved configuration.
func getAPIAddress() (string, error) {
	env, err := getEnvironment()
	if err != nil {
		return "", err
	}
	if env.APIAddress != "" {
		return env.APIAddress, nil
	}
	config, err := getConfig()
	if err != nil {
		return "", errors.Wrapf(err, "error retrieving configuration")
	}
	return config.APIAddress, nil
}

func getHome() (string, error) {
	env, err := getEnvironment()
	if err != nil {
		return "", err
	}
	if env.Home != "" {
		return env.Home, nil
	}
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}
	return filepath.Join(homeDir, ".itportal"), nil
}

// configureLogging points glog at <home>/logs, or at stderr when --debug is
// set.
func configureLogging(c *cli.Context) error {
	if c.Bool(flagDebug) {
		if err := flag.Set("logtostderr", "true"); err != nil {
			return errors.Wrap(err, "error configuring logging")
		}
		return errors.Wrap(flag.Set("v", "2"), "error configuring logging")
	}
	itportalHome, err := getHome()
	if err != nil {
		return err
	}
	logDir := filepath.Join(itportalHome, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return errors.Wrapf(err, "error creating log directory %s", logDir)
	}
	return errors.Wrap(flag.Set("log_dir", logDir), "error configuring logging")
}
