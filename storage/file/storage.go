// Package file provides Storage backed by a directory on the local file
// system, one file per key. It is what the CLI uses by default, so that a
// session survives from one command invocation to the next.
package file

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Storage keeps each key in its own file, readable and writable only by the
// current user.
type Storage struct {
	dir string
}

// DefaultDir returns ~/.itportal/session.
func DefaultDir() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error finding user's home directory")
	}
	return filepath.Join(homeDir, ".itportal", "session"), nil
}

// NewStorage returns Storage rooted at dir. When dir is empty, DefaultDir()
// is used. The directory is created on first write.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return &Storage{
		dir: dir,
	}, nil
}

// Dir returns the directory the Storage is rooted at.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) Get(_ context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	valueBytes, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "error reading %s", path)
	}
	return string(valueBytes), true, nil
}

// Set writes value to a temporary file and renames it into place, so a
// reader never observes a half-written value.
func (s *Storage) Set(_ context.Context, key string, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(s.dir, 0700); err != nil {
		return errors.Wrapf(err, "error creating directory %s", s.dir)
	}
	tmp, err := ioutil.TempFile(s.dir, "."+key+"-")
	if err != nil {
		return errors.Wrapf(err, "error creating temporary file in %s", s.dir)
	}
	defer os.Remove(tmp.Name()) // nolint: errcheck
	if _, err = tmp.WriteString(value); err != nil {
		tmp.Close() // nolint: errcheck
		return errors.Wrapf(err, "error writing %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "error closing %s", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), 0600); err != nil {
		return errors.Wrapf(err, "error setting permissions on %s", tmp.Name())
	}
	return errors.Wrapf(
		os.Rename(tmp.Name(), path),
		"error moving value into %s",
		path,
	)
}

func (s *Storage) Remove(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "error removing %s", path)
	}
	return nil
}

func (s *Storage) path(key string) (string, error) {
	if key == "" ||
		strings.ContainsAny(key, `/\`) ||
		strings.HasPrefix(key, ".") {
		return "", errors.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
