package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/itportal/itportal/sdk/auth"
	"github.com/itportal/itportal/sdk/portal"
	"github.com/itportal/itportal/storage/file"
	"github.com/itportal/itportal/storage/memory"
	"github.com/itportal/itportal/storage/mongodb"
	"github.com/itportal/itportal/storage/redis"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// portalSession is everything a command needs to talk to the API on behalf
// of the logged in user.
type portalSession struct {
	apiAddress string
	store      *auth.SessionStore
	client     portal.APIClient
	close      func()
}

// expiryNotice is the Navigator the CLI hands to the SDK. Being sent to the
// login route means the session is gone, so the user is told, once.
type expiryNotice struct {
	once sync.Once
	out  io.Writer
}

func (e *expiryNotice) Navigate(route string) {
	if route != auth.LoginRoute {
		return
	}
	e.once.Do(func() {
		fmt.Fprintln(
			e.out,
			"\nYour session has expired. Please use `itportal login` to continue.",
		)
	})
}

// getStorage returns the session Storage selected by ITPORTAL_STORAGE and a
// function that releases it.
func getStorage(ctx context.Context) (auth.Storage, func(), error) {
	env, err := getEnvironment()
	if err != nil {
		return nil, nil, err
	}
	switch env.Storage {
	case storageFile, "":
		dir := ""
		if env.Home != "" {
			dir = filepath.Join(env.Home, "session")
		}
		storage, err := file.NewStorage(dir)
		return storage, func() {}, err
	case storageMemory:
		return memory.NewStorage(), func() {}, nil
	case storageRedis:
		storage, err := redis.NewStorageFromEnvironment(ctx)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(); err != nil {
				glog.Warningf("error closing redis session storage: %s", err)
			}
		}, nil
	case storageMongoDB:
		storage, err := mongodb.NewStorageFromEnvironment(ctx)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {
			if err := storage.Close(context.Background()); err != nil {
				glog.Warningf("error closing mongodb session storage: %s", err)
			}
		}, nil
	}
	return nil, nil, errors.Errorf("unknown session storage %q", env.Storage)
}

// newSession restores whatever session was persisted for the API server at
// the specified address. The session may or may not be authenticated.
func newSession(c *cli.Context, apiAddress string) (*portalSession, error) {
	storage, closeStorage, err := getStorage(c.Context)
	if err != nil {
		return nil, errors.Wrap(err, "error opening session storage")
	}
	store := auth.NewSessionStore(
		apiAddress,
		storage,
		&auth.SessionStoreOptions{
			AllowInsecure: c.Bool(flagInsecure),
		},
	)
	store.RestoreSession(c.Context)
	return &portalSession{
		apiAddress: apiAddress,
		store:      store,
		client: portal.NewAPIClient(
			apiAddress,
			store,
			&expiryNotice{out: os.Stderr},
			&portal.APIClientOptions{
				AllowInsecure: c.Bool(flagInsecure),
			},
		),
		close: closeStorage,
	}, nil
}

// getSession is the guard every command but login passes through. It fails
// unless a restored session is authenticated.
func getSession(c *cli.Context) (*portalSession, error) {
	apiAddress, err := getAPIAddress()
	if err != nil {
		return nil, err
	}
	session, err := newSession(c, apiAddress)
	if err != nil {
		return nil, err
	}
	if !session.store.IsAuthenticated() {
		session.close()
		return nil, errors.New(
			"you are not logged in; please use `itportal login` to continue",
		)
	}
	return session, nil
}
