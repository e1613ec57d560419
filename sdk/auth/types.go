package auth

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Keys under which a Session is mirrored into Storage. Each is written and
// removed independently of the others.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
	IdentityKey     = "user"
)

// Credentials are what a user presents to log in: an employee number and a
// password.
type Credentials struct {
	// ID is the employee number.
	ID string `json:"eno"`
	// Secret is the password. It is sent to the API once and never stored.
	Secret string `json:"password"`
}

// Identity is the minimal description of an authenticated user.
type Identity struct {
	// ID is the employee number.
	ID string `json:"eno"`
	// Name is the employee's display name.
	Name string `json:"empNm"`
}

// Session is a point-in-time copy of the authentication state held by a
// SessionStore.
type Session struct {
	AccessToken  string
	RefreshToken string
	Identity     *Identity
}

// IsAuthenticated returns true if and only if both an access token and an
// identity are present. A refresh token alone is not enough.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != "" && s.Identity != nil
}

// IsEmpty returns true when no field of the Session is set.
func (s Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.Identity == nil
}

// LoginResponse is the API's answer to a successful login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// UserID is the authenticated employee number.
	UserID string `json:"eno"`
	// DisplayName is the authenticated employee's name.
	DisplayName string `json:"empNm"`
}

// Identity derives an Identity from the LoginResponse.
func (l LoginResponse) Identity() Identity {
	return Identity{
		ID:   l.UserID,
		Name: l.DisplayName,
	}
}

// validate checks that the LoginResponse describes a Session that
// RestoreSession would accept after reading it back from Storage.
func (l LoginResponse) validate() error {
	switch {
	case l.AccessToken == "":
		return errors.New("login response did not include an access token")
	case l.RefreshToken == "":
		return errors.New("login response did not include a refresh token")
	case l.UserID == "":
		return errors.New("login response did not include an employee number")
	}
	return nil
}

// TokenPair is the API's answer to a successful refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func marshalIdentity(identity Identity) (string, error) {
	identityBytes, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	return string(identityBytes), nil
}

func unmarshalIdentity(value string) (*Identity, error) {
	identity := &Identity{}
	if err := json.Unmarshal([]byte(value), identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, errors.New("identity has no employee number")
	}
	return identity, nil
}
