// Package fakeapi provides an in-process stand-in for the IT Portal API. It
// issues, rotates, expires and revokes tokens the way the real API does,
// stores projects, costs and applications in memory, and counts the calls
// made to every endpoint so that tests can assert on the traffic a client
// produced.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/itportal/itportal/sdk/meta"
)

type user struct {
	password string
	name     string
}

// Server is a fake IT Portal API listening on a loopback address. Its URL
// field is the API address to hand to clients.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	users         map[string]user
	accessTokens  map[string]string
	refreshTokens map[string]string
	tokenSeq      int
	calls         map[string]int
	failRefresh   bool
	refreshHook   func()
	logoutStatus  int
	collections   map[string]*collection
	organizations []Organization
	orgUsers      map[string][]OrgUser
}

// New starts and returns a Server. Callers must Close it.
func New() *Server {
	s := &Server{
		users:         map[string]user{},
		accessTokens:  map[string]string{},
		refreshTokens: map[string]string{},
		calls:         map[string]int{},
		collections: map[string]*collection{
			Projects:     newCollection("prjMngNo", "PRJ"),
			Costs:        newCollection("itMngcNo", "COST"),
			Applications: newCollection("apfMngNo", "APF"),
		},
		orgUsers: map[string][]OrgUser{},
	}
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(s.countCalls)
	s.registerAuthEndpoints(router)
	s.registerResourceEndpoints(router)
	s.Server = httptest.NewServer(router)
	return s
}

// AddUser registers credentials the login endpoint will accept.
func (s *Server) AddUser(id, password, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = user{
		password: password,
		name:     name,
	}
}

// IssueTokens mints a valid token pair for the specified user without a
// login call, as if the user had logged in earlier.
func (s *Server) IssueTokens(id string) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueTokens(id)
}

// ExpireAccessTokens invalidates every access token issued so far. Refresh
// tokens remain valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTokens = map[string]string{}
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = map[string]string{}
}

// FailRefresh makes the refresh endpoint answer 401 to every request while
// fail is true.
func (s *Server) FailRefresh(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = fail
}

// OnRefresh registers a function the refresh endpoint calls before it
// answers. Tests use it to hold a refresh open.
func (s *Server) OnRefresh(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshHook = fn
}

// SetLogoutStatus forces the logout endpoint to answer with the specified
// status code. Zero restores normal behavior.
func (s *Server) SetLogoutStatus(statusCode int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutStatus = statusCode
}

// Calls returns the number of requests received for the specified method and
// route, e.g. Calls(http.MethodPost, "/api/auth/refresh").
func (s *Server) Calls(method, route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey(method, route)]
}

// TotalCalls returns the number of requests received for every route.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, count := range s.calls {
		total += count
	}
	return total
}

// ValidAccessToken returns true if the specified access token would be
// accepted.
func (s *Server) ValidAccessToken(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accessTokens[token]
	return ok
}

func (s *Server) issueTokens(id string) (string, string) {
	s.tokenSeq++
	accessToken := fmt.Sprintf("access-%s-%d", id, s.tokenSeq)
	refreshToken := fmt.Sprintf("refresh-%s-%d", id, s.tokenSeq)
	s.accessTokens[accessToken] = id
	s.refreshTokens[refreshToken] = id
	return accessToken, refreshToken
}

func (s *Server) countCalls(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.mu.Lock()
		s.calls[callKey(r.Method, route)]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// tokenAuthFilter rejects requests that do not carry a valid bearer token.
func (s *Server) tokenAuthFilter(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.principal(r); !ok {
			writeAPIResponse(
				w,
				http.StatusUnauthorized,
				&meta.ErrAuthentication{Reason: "Token expired"},
			)
			return
		}
		handle(w, r)
	}
}

func (s *Server) principal(r *http.Request) (string, bool) {
	headerValue := r.Header.Get("Authorization")
	if !strings.HasPrefix(headerValue, "Bearer ") {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.accessTokens[strings.TrimPrefix(headerValue, "Bearer ")]
	return id, ok
}

func callKey(method, route string) string {
	return method + " " + route
}
