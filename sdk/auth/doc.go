// Package auth holds the client side of IT Portal authentication: the
// SessionStore that owns the current session and mirrors it into durable
// Storage, the SessionsClient for the login, logout and refresh endpoints,
// and the Gateway that authenticates every other API call and coordinates
// token refreshes when the API answers 401.
package auth
