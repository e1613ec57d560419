package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// SessionStoreOptions represents optional SessionStore configuration.
type SessionStoreOptions struct {
	// AllowInsecure permits TLS connections to an API server whose certificate
	// cannot be verified.
	AllowInsecure bool
	// StorageTimeout bounds every Storage operation the SessionStore performs
	// on its own behalf, most importantly the ones that clear a session after
	// the caller's context may already be done. Defaults to ten seconds.
	StorageTimeout time.Duration
}

// SessionStore is the single source of truth for the current Session. It
// owns the Session exclusively: every other component reads it through the
// accessors below and changes it only through Login, Logout, Refresh and
// RestoreSession. Each of those mutations is written through to Storage.
//
// A SessionStore is safe for concurrent use. Its lock is never held across a
// network call. Refresh performs no mutual exclusion of its own; callers (a
// Gateway) must not invoke it concurrently.
type SessionStore struct {
	sessionsClient SessionsClient
	storage        Storage
	storageTimeout time.Duration

	mu           sync.RWMutex
	accessToken  *valueCell
	refreshToken string
	identity     *Identity
}

// NewSessionStore returns an empty SessionStore that authenticates against
// the IT Portal API at the specified address and mirrors its state into the
// specified Storage. Call RestoreSession to pick up a previously persisted
// session.
func NewSessionStore(
	apiAddress string,
	storage Storage,
	opts *SessionStoreOptions,
) *SessionStore {
	if opts == nil {
		opts = &SessionStoreOptions{}
	}
	return newSessionStore(
		NewSessionsClient(apiAddress, opts.AllowInsecure),
		storage,
		opts.StorageTimeout,
	)
}

func newSessionStore(
	sessionsClient SessionsClient,
	storage Storage,
	storageTimeout time.Duration,
) *SessionStore {
	if storageTimeout <= 0 {
		storageTimeout = 10 * time.Second
	}
	return &SessionStore{
		sessionsClient: sessionsClient,
		storage:        storage,
		storageTimeout: storageTimeout,
		accessToken:    newValueCell(),
	}
}

// Login authenticates with the specified Credentials. On success the Session
// is populated from the API's response and persisted. On failure the Session
// is left untouched and the API's error is returned as is. Login never
// retries and never triggers a refresh.
func (s *SessionStore) Login(ctx context.Context, credentials Credentials) error {
	resp, err := s.sessionsClient.Login(ctx, credentials)
	if err != nil {
		glog.Warningf("login failed for %q: %s", credentials.ID, err)
		return err
	}
	if err := resp.validate(); err != nil {
		glog.Warningf("login for %q returned an unusable response: %s", credentials.ID, err)
		return err
	}
	identity := resp.Identity()
	s.setAuth(resp.AccessToken, resp.RefreshToken, &identity)
	return errors.Wrap(s.saveToStorage(ctx), "error persisting session")
}

// Logout makes a best-effort attempt to invalidate the current access token
// server-side, then clears the Session and its persisted copy. The
// server-side outcome is logged and otherwise ignored; the local cleanup
// always happens.
func (s *SessionStore) Logout(ctx context.Context) {
	defer s.clearAuth(ctx)
	if accessToken := s.AccessToken(); accessToken != "" {
		if err := s.sessionsClient.Logout(ctx, accessToken); err != nil {
			glog.Warningf(
				"logout API call failed (expected if the token has expired): %s",
				err,
			)
		}
	}
}

// Refresh exchanges the current refresh token for a new token pair. It
// returns false without any network call when there is no refresh token. When
// the exchange fails it logs out, which clears the Session, and returns
// false. Tokens that arrive after the session has been logged out are
// discarded and false is returned. The identity is never changed by a
// refresh.
func (s *SessionStore) Refresh(ctx context.Context) bool {
	refreshToken := s.RefreshToken()
	if refreshToken == "" {
		return false
	}
	tokens, err := s.sessionsClient.Refresh(ctx, refreshToken)
	if err == nil && tokens.AccessToken == "" {
		err = errors.New("refresh response did not include an access token")
	}
	if err != nil {
		glog.Warningf("token refresh failed: %s", err)
		s.Logout(ctx)
		return false
	}
	// An API that doesn't rotate refresh tokens answers without one.
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}

	s.mu.Lock()
	if s.refreshToken == "" {
		// The session was logged out while the exchange was in flight.
		s.mu.Unlock()
		glog.Warning("discarding tokens from a refresh that outlived its session")
		return false
	}
	s.refreshToken = tokens.RefreshToken
	s.accessToken.set(tokens.AccessToken)
	s.mu.Unlock()

	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()
	if err := s.storage.Set(
		storageCtx,
		AccessTokenKey,
		tokens.AccessToken,
	); err != nil {
		glog.Warningf("error persisting refreshed access token: %s", err)
	}
	if err := s.storage.Set(
		storageCtx,
		RefreshTokenKey,
		tokens.RefreshToken,
	); err != nil {
		glog.Warningf("error persisting refreshed refresh token: %s", err)
	}
	return true
}

// RestoreSession repopulates the Session from Storage. All three persisted
// entries must be present for anything to happen; a partial snapshot is
// treated as no session at all and leaves the current Session as it is. A
// snapshot whose identity cannot be parsed is corrupt and is cleared along
// with the Session.
func (s *SessionStore) RestoreSession(ctx context.Context) {
	values := map[string]string{}
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, IdentityKey} {
		value, found, err := s.storage.Get(ctx, key)
		if err != nil {
			glog.Warningf("error reading persisted session key %q: %s", key, err)
			return
		}
		if !found || value == "" {
			return
		}
		values[key] = value
	}
	identity, err := unmarshalIdentity(values[IdentityKey])
	if err != nil {
		glog.Warningf("persisted session is corrupt; clearing it: %s", err)
		s.clearAuth(ctx)
		return
	}
	s.setAuth(values[AccessTokenKey], values[RefreshTokenKey], identity)
}

// AccessToken returns the current access token or an empty string.
func (s *SessionStore) AccessToken() string {
	return s.accessToken.get()
}

// RefreshToken returns the current refresh token or an empty string.
func (s *SessionStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Identity returns a copy of the current identity or nil.
func (s *SessionStore) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// Session returns a consistent copy of the current Session.
func (s *SessionStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session := Session{
		AccessToken:  s.accessToken.get(),
		RefreshToken: s.refreshToken,
	}
	if s.identity != nil {
		identity := *s.identity
		session.Identity = &identity
	}
	return session
}

// IsAuthenticated returns true if and only if both an access token and an
// identity are present.
func (s *SessionStore) IsAuthenticated() bool {
	return s.Session().IsAuthenticated()
}

// WatchAccessToken returns a channel on which every change of the access
// token is published (including the change to an empty string when the
// Session is cleared) and a function that stops the publishing. A slow
// reader only sees the latest value.
func (s *SessionStore) WatchAccessToken() (<-chan string, func()) {
	return s.accessToken.watch()
}

func (s *SessionStore) setAuth(
	accessToken string,
	refreshToken string,
	identity *Identity,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshToken = refreshToken
	s.identity = identity
	s.accessToken.set(accessToken)
}

func (s *SessionStore) saveToStorage(ctx context.Context) error {
	session := s.Session()
	values := map[string]string{
		AccessTokenKey:  session.AccessToken,
		RefreshTokenKey: session.RefreshToken,
	}
	if session.Identity != nil {
		identityStr, err := marshalIdentity(*session.Identity)
		if err != nil {
			return errors.Wrap(err, "error marshaling identity")
		}
		values[IdentityKey] = identityStr
	}
	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()
	// Empty fields are removed so no entry outlives the Session it came from.
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, IdentityKey} {
		if values[key] == "" {
			if err := s.storage.Remove(storageCtx, key); err != nil {
				return errors.Wrapf(err, "error removing stale %s", key)
			}
			continue
		}
		if err := s.storage.Set(storageCtx, key, values[key]); err != nil {
			return errors.Wrapf(err, "error storing %s", key)
		}
	}
	return nil
}

// clearAuth empties the Session and removes every persisted entry. Storage
// failures are logged; the in-memory Session is cleared regardless.
func (s *SessionStore) clearAuth(ctx context.Context) {
	s.mu.Lock()
	s.refreshToken = ""
	s.identity = nil
	s.accessToken.set("")
	s.mu.Unlock()

	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, IdentityKey} {
		if err := s.storage.Remove(storageCtx, key); err != nil {
			glog.Warningf("error removing persisted session key %q: %s", key, err)
		}
	}
}

// storageContext detaches storage work from the caller's cancellation so
// that a session is still cleared after the caller's deadline has passed.
func (s *SessionStore) storageContext(
	ctx context.Context,
) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.storageTimeout)
}
