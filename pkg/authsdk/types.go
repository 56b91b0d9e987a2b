package authsdk

import (
	"encoding/json"
	"fmt"
)

// ============================================================================
// Login Methods
// ============================================================================

// LoginMethod is the protocol identifier sent in a request's "type" field.
type LoginMethod string

const (
	// MethodWix logs in with a Wix platform instance.
	MethodWix LoginMethod = "wix.loginInstance"

	// MethodOpenrest logs in with an openrest username and password.
	MethodOpenrest LoginMethod = "openrest.login"

	// MethodGoogle logs in with a Google ID token.
	MethodGoogle LoginMethod = "google.login"

	// MethodFacebook logs in with a Facebook access token.
	MethodFacebook LoginMethod = "facebook.login"

	// MethodAuthenticate validates a previously issued access token.
	MethodAuthenticate LoginMethod = "authenticate"
)

// LoginMethods lists every supported method in a stable order.
var LoginMethods = []LoginMethod{
	MethodWix,
	MethodOpenrest,
	MethodGoogle,
	MethodFacebook,
	MethodAuthenticate,
}

// String returns the wire identifier.
func (m LoginMethod) String() string { return string(m) }

// ParseLoginMethod maps a wire identifier back to a LoginMethod.
func ParseLoginMethod(s string) (LoginMethod, error) {
	for _, m := range LoginMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown login method %q", s)
}

// ============================================================================
// Request Types
// ============================================================================

// WixLoginRequest is the wire form of a Wix instance login.
type WixLoginRequest struct {
	Type     LoginMethod `json:"type"`
	Instance string      `json:"instance"`
	AppKey   string      `json:"appKey,omitempty"` // optional, dropped when empty
}

// OpenrestLoginRequest is the wire form of a username/password login.
type OpenrestLoginRequest struct {
	Type     LoginMethod `json:"type"`
	Username string      `json:"username"`
	Password string      `json:"password"`
}

// GoogleLoginRequest is the wire form of a Google ID token login.
type GoogleLoginRequest struct {
	Type     LoginMethod `json:"type"`
	IDToken  string      `json:"idToken"`
	ClientID string      `json:"clientId"`
}

// FacebookLoginRequest is the wire form of a Facebook access token login.
type FacebookLoginRequest struct {
	Type        LoginMethod `json:"type"`
	AccessToken string      `json:"accessToken"`
}

// AuthenticateRequest is the wire form of an access token validation.
type AuthenticateRequest struct {
	Type        LoginMethod `json:"type"`
	AccessToken string      `json:"accessToken"`
}

// ============================================================================
// Response Types
// ============================================================================

// Envelope is the server's response wrapper. A success carries Value, a
// failure carries Error.
type Envelope struct {
	Value json.RawMessage `json:"value,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// UserRef identifies an authenticated user within a namespace.
type UserRef struct {
	NS string `json:"ns"`
	ID string `json:"id"`
}

// LoginValue is the value returned by the production endpoint on a
// successful login. Use DecodeValue to obtain it from a raw outcome.
type LoginValue struct {
	User        UserRef `json:"user"`
	AccessToken string  `json:"accessToken"`
}
