// Package meta holds the types shared by every IT Portal API client: the
// typed errors that non-2xx responses are decoded into.
package meta
