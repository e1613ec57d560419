package auth

import "context"

// Storage is durable key/value storage that outlives the process, used to
// mirror a Session so that it can be restored later. Implementations live in
// the storage/ packages of this module.
//
// No atomicity across keys is assumed. A SessionStore copes with any subset
// of its keys being present.
type Storage interface {
	// Get returns the value stored under key. found is false, and err is nil,
	// when nothing is stored under key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value string) error
	// Remove deletes the value stored under key. Removing a key that does not
	// exist is not an error.
	Remove(ctx context.Context, key string) error
}
