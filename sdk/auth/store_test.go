package auth

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itportal/itportal/internal/fakeapi"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/itportal/itportal/storage/memory"
	"github.com/stretchr/testify/require"
)

type fakeSessionsClient struct {
	loginFn      func(context.Context, Credentials) (LoginResponse, error)
	logoutFn     func(context.Context, string) error
	refreshFn    func(context.Context, string) (TokenPair, error)
	logoutCalls  int32
	refreshCalls int32
}

func (f *fakeSessionsClient) Login(
	ctx context.Context,
	credentials Credentials,
) (LoginResponse, error) {
	return f.loginFn(ctx, credentials)
}

func (f *fakeSessionsClient) Logout(ctx context.Context, token string) error {
	atomic.AddInt32(&f.logoutCalls, 1)
	if f.logoutFn == nil {
		return nil
	}
	return f.logoutFn(ctx, token)
}

func (f *fakeSessionsClient) Refresh(
	ctx context.Context,
	refreshToken string,
) (TokenPair, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	return f.refreshFn(ctx, refreshToken)
}

// failingStorage wraps another Storage and fails the operations it is told
// to.
type failingStorage struct {
	Storage
	failSet    bool
	failRemove bool
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("disk full")
	}
	return f.Storage.Set(ctx, key, value)
}

func (f *failingStorage) Remove(ctx context.Context, key string) error {
	if f.failRemove {
		return errors.New("read-only file system")
	}
	return f.Storage.Remove(ctx, key)
}

func scenarioOneClient() *fakeSessionsClient {
	return &fakeSessionsClient{
		loginFn: func(context.Context, Credentials) (LoginResponse, error) {
			return LoginResponse{
				AccessToken:  "A1",
				RefreshToken: "R1",
				UserID:       "E001",
				DisplayName:  "Kim",
			}, nil
		},
	}
}

func requireEmptySession(t *testing.T, store *SessionStore, storage Storage) {
	require.True(t, store.Session().IsEmpty())
	require.False(t, store.IsAuthenticated())
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, IdentityKey} {
		_, found, err := storage.Get(context.Background(), key)
		require.NoError(t, err)
		require.False(t, found, key)
	}
}

func requireStored(t *testing.T, storage Storage, key, expected string) {
	value, found, err := storage.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found, key)
	require.Equal(t, expected, value)
}

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore("https://portal.example.com", memory.NewStorage(), nil)
	require.NotNil(t, store.sessionsClient)
	require.Equal(t, 10*time.Second, store.storageTimeout)
	require.True(t, store.Session().IsEmpty())
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		storage := memory.NewStorage()
		store := newSessionStore(scenarioOneClient(), storage, 0)
		err := store.Login(ctx, Credentials{ID: "E001", Secret: "x"})
		require.NoError(t, err)
		require.Equal(
			t,
			Session{
				AccessToken:  "A1",
				RefreshToken: "R1",
				Identity:     &Identity{ID: "E001", Name: "Kim"},
			},
			store.Session(),
		)
		require.True(t, store.IsAuthenticated())
		requireStored(t, storage, AccessTokenKey, "A1")
		requireStored(t, storage, RefreshTokenKey, "R1")
		requireStored(t, storage, IdentityKey, `{"eno":"E001","empNm":"Kim"}`)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		storage := memory.NewStorage()
		rejection := &meta.ErrAuthentication{Reason: "Invalid credentials"}
		store := newSessionStore(
			&fakeSessionsClient{
				loginFn: func(context.Context, Credentials) (LoginResponse, error) {
					return LoginResponse{}, rejection
				},
			},
			storage,
			0,
		)
		err := store.Login(ctx, Credentials{ID: "E001", Secret: "wrong"})
		require.Same(t, rejection, err)
		requireEmptySession(t, store, storage)
	})

	t.Run("response without access token", func(t *testing.T) {
		storage := memory.NewStorage()
		store := newSessionStore(
			&fakeSessionsClient{
				loginFn: func(context.Context, Credentials) (LoginResponse, error) {
					return LoginResponse{UserID: "E001"}, nil
				},
			},
			storage,
			0,
		)
		err := store.Login(ctx, Credentials{ID: "E001", Secret: "x"})
		require.Error(t, err)
		requireEmptySession(t, store, storage)
	})

	t.Run("storage failure", func(t *testing.T) {
		storage := &failingStorage{Storage: memory.NewStorage(), failSet: true}
		store := newSessionStore(scenarioOneClient(), storage, 0)
		err := store.Login(ctx, Credentials{ID: "E001", Secret: "x"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "error persisting session")
		// The in-memory session is usable for the rest of the process
		require.True(t, store.IsAuthenticated())
	})

	t.Run("incomplete responses", func(t *testing.T) {
		testCases := []struct {
			name string
			resp LoginResponse
		}{
			{
				name: "without refresh token",
				resp: LoginResponse{AccessToken: "A2", UserID: "E002", DisplayName: "Lee"},
			},
			{
				name: "without employee number",
				resp: LoginResponse{AccessToken: "A2", RefreshToken: "R2", DisplayName: "Lee"},
			},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				storage := memory.NewStorage()
				client := scenarioOneClient()
				store := newSessionStore(client, storage, 0)
				require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
				before := store.Session()

				client.loginFn = func(context.Context, Credentials) (LoginResponse, error) {
					return testCase.resp, nil
				}
				require.Error(t, store.Login(ctx, Credentials{ID: "E002", Secret: "y"}))
				require.Equal(t, before, store.Session())

				restored := newSessionStore(client, storage, 0)
				restored.RestoreSession(ctx)
				require.Equal(t, before, restored.Session())
			})
		}
	})

	t.Run("replacing a session", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		store := newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		client.loginFn = func(context.Context, Credentials) (LoginResponse, error) {
			return LoginResponse{
				AccessToken:  "A2",
				RefreshToken: "R2",
				UserID:       "E002",
				DisplayName:  "Lee",
			}, nil
		}
		require.NoError(t, store.Login(ctx, Credentials{ID: "E002", Secret: "y"}))

		restored := newSessionStore(client, storage, 0)
		restored.RestoreSession(ctx)
		require.Equal(
			t,
			Session{
				AccessToken:  "A2",
				RefreshToken: "R2",
				Identity:     &Identity{ID: "E002", Name: "Lee"},
			},
			restored.Session(),
		)
		require.Equal(t, store.Session(), restored.Session())
	})

	t.Run("against the API", func(t *testing.T) {
		srv := fakeapi.New()
		defer srv.Close()
		srv.AddUser("E001", "x", "Kim")
		storage := memory.NewStorage()
		store := NewSessionStore(srv.URL, storage, nil)

		err := store.Login(ctx, Credentials{ID: "E001", Secret: "nope"})
		require.IsType(t, &meta.ErrAuthentication{}, err)
		require.False(t, store.IsAuthenticated())

		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		require.True(t, store.IsAuthenticated())
		require.True(t, srv.ValidAccessToken(store.AccessToken()))
		require.Equal(t, &Identity{ID: "E001", Name: "Kim"}, store.Identity())
		require.Equal(t, 2, srv.Calls(http.MethodPost, "/api/auth/login"))
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("server-side success", func(t *testing.T) {
		srv := fakeapi.New()
		defer srv.Close()
		srv.AddUser("E001", "x", "Kim")
		storage := memory.NewStorage()
		store := NewSessionStore(srv.URL, storage, nil)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		accessToken := store.AccessToken()

		store.Logout(ctx)
		requireEmptySession(t, store, storage)
		require.False(t, srv.ValidAccessToken(accessToken))
		require.Equal(t, 1, srv.Calls(http.MethodPost, "/api/auth/logout"))
	})

	t.Run("server-side failure", func(t *testing.T) {
		srv := fakeapi.New()
		defer srv.Close()
		srv.AddUser("E001", "x", "Kim")
		srv.SetLogoutStatus(http.StatusInternalServerError)
		storage := memory.NewStorage()
		store := NewSessionStore(srv.URL, storage, nil)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		store.Logout(ctx)
		requireEmptySession(t, store, storage)
	})

	t.Run("network call times out", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		client.logoutFn = func(ctx context.Context, _ string) error {
			<-ctx.Done()
			return ctx.Err()
		}
		store := newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		store.Logout(timeoutCtx)
		requireEmptySession(t, store, storage)
	})

	t.Run("network call panics", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		client.logoutFn = func(context.Context, string) error {
			panic("boom")
		}
		store := newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		require.Panics(t, func() { store.Logout(ctx) })
		requireEmptySession(t, store, storage)
	})

	t.Run("storage failure", func(t *testing.T) {
		storage := &failingStorage{Storage: memory.NewStorage()}
		store := newSessionStore(scenarioOneClient(), storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		storage.failRemove = true
		store.Logout(ctx)
		require.True(t, store.Session().IsEmpty())
	})

	t.Run("no session", func(t *testing.T) {
		storage := memory.NewStorage()
		client := &fakeSessionsClient{}
		store := newSessionStore(client, storage, 0)
		store.Logout(ctx)
		requireEmptySession(t, store, storage)
		require.Equal(t, int32(0), atomic.LoadInt32(&client.logoutCalls))
	})
}

func TestSaveToStorageRemovesEmptyFields(t *testing.T) {
	ctx := context.Background()
	storage := memory.NewStorage()
	store := newSessionStore(scenarioOneClient(), storage, 0)
	require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

	store.setAuth("A9", "", &Identity{ID: "E001", Name: "Kim"})
	require.NoError(t, store.saveToStorage(ctx))
	requireStored(t, storage, AccessTokenKey, "A9")
	_, found, err := storage.Get(ctx, RefreshTokenKey)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("no refresh token", func(t *testing.T) {
		srv := fakeapi.New()
		defer srv.Close()
		store := NewSessionStore(srv.URL, memory.NewStorage(), nil)
		for i := 0; i < 3; i++ {
			require.False(t, store.Refresh(ctx))
		}
		require.Equal(t, 0, srv.TotalCalls())
	})

	t.Run("success", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		client.refreshFn = func(_ context.Context, refreshToken string) (TokenPair, error) {
			require.Equal(t, "R1", refreshToken)
			return TokenPair{AccessToken: "A2", RefreshToken: "R2"}, nil
		}
		store := newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		require.True(t, store.Refresh(ctx))
		require.Equal(
			t,
			Session{
				AccessToken:  "A2",
				RefreshToken: "R2",
				Identity:     &Identity{ID: "E001", Name: "Kim"},
			},
			store.Session(),
		)
		requireStored(t, storage, AccessTokenKey, "A2")
		requireStored(t, storage, RefreshTokenKey, "R2")
		requireStored(t, storage, IdentityKey, `{"eno":"E001","empNm":"Kim"}`)
	})

	t.Run("refresh token not rotated", func(t *testing.T) {
		client := scenarioOneClient()
		client.refreshFn = func(context.Context, string) (TokenPair, error) {
			return TokenPair{AccessToken: "A2"}, nil
		}
		store := newSessionStore(client, memory.NewStorage(), 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		require.True(t, store.Refresh(ctx))
		require.Equal(t, "A2", store.AccessToken())
		require.Equal(t, "R1", store.RefreshToken())
	})

	t.Run("failure logs out", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		client.refreshFn = func(context.Context, string) (TokenPair, error) {
			return TokenPair{}, &meta.ErrAuthentication{}
		}
		store := newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		require.False(t, store.Refresh(ctx))
		requireEmptySession(t, store, storage)
		require.Equal(t, int32(1), atomic.LoadInt32(&client.logoutCalls))
	})

	t.Run("session logged out during the exchange", func(t *testing.T) {
		storage := memory.NewStorage()
		client := scenarioOneClient()
		var store *SessionStore
		client.refreshFn = func(ctx context.Context, _ string) (TokenPair, error) {
			store.Logout(ctx)
			return TokenPair{AccessToken: "A2", RefreshToken: "R2"}, nil
		}
		store = newSessionStore(client, storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))

		require.False(t, store.Refresh(ctx))
		requireEmptySession(t, store, storage)
	})

	t.Run("against the API", func(t *testing.T) {
		srv := fakeapi.New()
		defer srv.Close()
		srv.AddUser("E001", "x", "Kim")
		storage := memory.NewStorage()
		store := NewSessionStore(srv.URL, storage, nil)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		oldAccessToken := store.AccessToken()
		oldRefreshToken := store.RefreshToken()

		require.True(t, store.Refresh(ctx))
		require.NotEqual(t, oldAccessToken, store.AccessToken())
		require.NotEqual(t, oldRefreshToken, store.RefreshToken())
		require.True(t, srv.ValidAccessToken(store.AccessToken()))

		srv.RevokeRefreshTokens()
		require.False(t, store.Refresh(ctx))
		requireEmptySession(t, store, storage)
	})
}

func TestRestoreSession(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		storage := memory.NewStorage()
		store := newSessionStore(scenarioOneClient(), storage, 0)
		require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
		afterLogin := store.Session()

		reloaded := newSessionStore(scenarioOneClient(), storage, 0)
		reloaded.RestoreSession(ctx)
		require.Equal(t, afterLogin, reloaded.Session())
		require.True(t, reloaded.IsAuthenticated())
	})

	t.Run("partial snapshot", func(t *testing.T) {
		storage := memory.NewStorage()
		require.NoError(t, storage.Set(ctx, AccessTokenKey, "A1"))
		store := newSessionStore(&fakeSessionsClient{}, storage, 0)
		store.RestoreSession(ctx)
		require.True(t, store.Session().IsEmpty())
		// Not corrupt, so nothing is cleared
		requireStored(t, storage, AccessTokenKey, "A1")
	})

	testCases := map[string]string{
		"unparseable identity":        "{not json",
		"identity without id":         `{"empNm":"Kim"}`,
		"identity of the wrong shape": `["E001"]`,
	}
	for name, identity := range testCases {
		identity := identity
		t.Run(name, func(t *testing.T) {
			storage := memory.NewStorage()
			require.NoError(t, storage.Set(ctx, AccessTokenKey, "A1"))
			require.NoError(t, storage.Set(ctx, RefreshTokenKey, "R1"))
			require.NoError(t, storage.Set(ctx, IdentityKey, identity))
			store := newSessionStore(&fakeSessionsClient{}, storage, 0)
			store.RestoreSession(ctx)
			requireEmptySession(t, store, storage)
		})
	}
}

func TestWatchAccessToken(t *testing.T) {
	ctx := context.Background()
	client := scenarioOneClient()
	client.refreshFn = func(context.Context, string) (TokenPair, error) {
		return TokenPair{AccessToken: "A2", RefreshToken: "R2"}, nil
	}
	store := newSessionStore(client, memory.NewStorage(), 0)
	ch, cancel := store.WatchAccessToken()
	defer cancel()

	require.NoError(t, store.Login(ctx, Credentials{ID: "E001", Secret: "x"}))
	require.Equal(t, "A1", <-ch)
	require.True(t, store.Refresh(ctx))
	require.Equal(t, "A2", <-ch)
	store.Logout(ctx)
	require.Equal(t, "", <-ch)
}
