package auth

// LoginRoute is the entry point a user is sent to after a forced logout.
const LoginRoute = "/login"

// Navigator redirects the user's view to a named route. A Gateway uses one
// to send the user to LoginRoute once their session can no longer be
// refreshed.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts an ordinary function to the Navigator interface.
type NavigatorFunc func(route string)

// Navigate calls fn(route).
func (fn NavigatorFunc) Navigate(route string) {
	fn(route)
}
