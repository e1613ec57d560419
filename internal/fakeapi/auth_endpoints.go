package fakeapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/itportal/itportal/sdk/meta"
)

type loginRequest struct {
	ID       string `json:"eno"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ID           string `json:"eno"`
	Name         string `json:"empNm"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) registerAuthEndpoints(router *mux.Router) {
	// Log in
	router.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)

	// Log out
	router.HandleFunc("/api/auth/logout", s.logout).Methods(http.MethodPost)

	// Refresh
	router.HandleFunc("/api/auth/refresh", s.refresh).Methods(http.MethodPost)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req := loginRequest{}
	s.serveRequest(
		inboundRequest{
			w:          w,
			r:          r,
			reqBodyObj: &req,
			endpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				defer s.mu.Unlock()
				u, ok := s.users[req.ID]
				if !ok || u.password != req.Password {
					return nil, &meta.ErrAuthentication{Reason: "Invalid credentials"}
				}
				accessToken, refreshToken := s.issueTokens(req.ID)
				return loginResponse{
					AccessToken:  accessToken,
					RefreshToken: refreshToken,
					ID:           req.ID,
					Name:         u.name,
				}, nil
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	forcedStatus := s.logoutStatus
	s.mu.Unlock()
	if forcedStatus != 0 {
		writeAPIResponse(w, forcedStatus, nil)
		return
	}
	s.serveRequest(
		inboundRequest{
			w: w,
			r: r,
			endpointLogic: func() (interface{}, error) {
				if _, ok := s.principal(r); !ok {
					return nil, &meta.ErrAuthentication{Reason: "Token expired"}
				}
				s.mu.Lock()
				defer s.mu.Unlock()
				delete(
					s.accessTokens,
					strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
				)
				return nil, nil
			},
			successCode: http.StatusOK,
		},
	)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	req := refreshRequest{}
	s.serveRequest(
		inboundRequest{
			w:          w,
			r:          r,
			reqBodyObj: &req,
			endpointLogic: func() (interface{}, error) {
				s.mu.Lock()
				hook := s.refreshHook
				s.mu.Unlock()
				if hook != nil {
					hook()
				}
				s.mu.Lock()
				defer s.mu.Unlock()
				id, ok := s.refreshTokens[req.RefreshToken]
				if s.failRefresh || !ok {
					return nil, &meta.ErrAuthentication{Reason: "Invalid refresh token"}
				}
				// Refresh tokens are single use.
				delete(s.refreshTokens, req.RefreshToken)
				accessToken, refreshToken := s.issueTokens(id)
				return tokenPair{
					AccessToken:  accessToken,
					RefreshToken: refreshToken,
				}, nil
			},
			successCode: http.StatusOK,
		},
	)
}
