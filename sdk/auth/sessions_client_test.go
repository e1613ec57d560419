package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/itportal/itportal/sdk/internal/restmachinery"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/stretchr/testify/require"
)

func TestNewSessionsClient(t *testing.T) {
	client := NewSessionsClient("https://portal.example.com/", false)
	require.IsType(t, &sessionsClient{}, client)
	require.Equal(
		t,
		"https://portal.example.com",
		client.(*sessionsClient).APIAddress,
	)
}

func TestSessionsClientLogin(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/"+LoginPath, r.URL.Path)
			require.NotEmpty(t, r.Header.Get(restmachinery.RequestIDHeader))
			creds := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, map[string]string{"eno": "E001", "password": "x"}, creds)
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(
				`{"accessToken":"A1","refreshToken":"R1","eno":"E001","empNm":"Kim"}`,
			))
			require.NoError(t, err)
		}),
	)
	defer server.Close()
	client := NewSessionsClient(server.URL, false)
	resp, err := client.Login(
		context.Background(),
		Credentials{ID: "E001", Secret: "x"},
	)
	require.NoError(t, err)
	require.Equal(
		t,
		LoginResponse{
			AccessToken:  "A1",
			RefreshToken: "R1",
			UserID:       "E001",
			DisplayName:  "Kim",
		},
		resp,
	)
	require.Equal(t, Identity{ID: "E001", Name: "Kim"}, resp.Identity())
}

func TestSessionsClientLogout(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/"+LogoutPath, r.URL.Path)
			if r.Header.Get("Authorization") != "Bearer A1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}),
	)
	defer server.Close()
	client := NewSessionsClient(server.URL, false)
	require.NoError(t, client.Logout(context.Background(), "A1"))
	err := client.Logout(context.Background(), "stale")
	require.IsType(t, &meta.ErrAuthentication{}, err)
}

func TestSessionsClientRefresh(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/"+RefreshPath, r.URL.Path)
			require.Empty(t, r.Header.Get("Authorization"))
			req := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, map[string]string{"refreshToken": "R1"}, req)
			w.WriteHeader(http.StatusOK)
			_, err := w.Write([]byte(`{"accessToken":"A2","refreshToken":"R2"}`))
			require.NoError(t, err)
		}),
	)
	defer server.Close()
	client := NewSessionsClient(server.URL, false)
	tokens, err := client.Refresh(context.Background(), "R1")
	require.NoError(t, err)
	require.Equal(t, TokenPair{AccessToken: "A2", RefreshToken: "R2"}, tokens)
}
