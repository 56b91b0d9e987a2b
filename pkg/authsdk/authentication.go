package authsdk

import (
	"context"
	"encoding/json"
)

// Authentication exposes one operation per supported login method. Each
// operation shapes its request and returns the Client's outcome unchanged.
// No parameter is validated locally.
type Authentication struct {
	client *Client
}

// NewAuthentication creates an Authentication backed by a new Client.
func NewAuthentication(cfg Config) (*Authentication, error) {
	client, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Authentication{client: client}, nil
}

// NewAuthenticationWithClient wraps an existing Client.
func NewAuthenticationWithClient(client *Client) *Authentication {
	return &Authentication{client: client}
}

// Client returns the underlying protocol client.
func (a *Authentication) Client() *Client { return a.client }

// Wix logs in with a Wix platform instance. appKey is optional and is left
// off the wire when empty.
func (a *Authentication) Wix(ctx context.Context, instance, appKey string) (json.RawMessage, error) {
	return a.client.DoRequest(ctx, WixLoginRequest{
		Type:     MethodWix,
		Instance: instance,
		AppKey:   appKey,
	})
}

// Openrest logs in with an openrest username and password.
func (a *Authentication) Openrest(ctx context.Context, username, password string) (json.RawMessage, error) {
	return a.client.DoRequest(ctx, OpenrestLoginRequest{
		Type:     MethodOpenrest,
		Username: username,
		Password: password,
	})
}

// Google logs in with a Google ID token issued to clientID.
func (a *Authentication) Google(ctx context.Context, idToken, clientID string) (json.RawMessage, error) {
	return a.client.DoRequest(ctx, GoogleLoginRequest{
		Type:     MethodGoogle,
		IDToken:  idToken,
		ClientID: clientID,
	})
}

// Facebook logs in with a Facebook access token.
func (a *Authentication) Facebook(ctx context.Context, accessToken string) (json.RawMessage, error) {
	return a.client.DoRequest(ctx, FacebookLoginRequest{
		Type:        MethodFacebook,
		AccessToken: accessToken,
	})
}

// Authenticate validates an access token issued by an earlier login.
func (a *Authentication) Authenticate(ctx context.Context, accessToken string) (json.RawMessage, error) {
	return a.client.DoRequest(ctx, AuthenticateRequest{
		Type:        MethodAuthenticate,
		AccessToken: accessToken,
	})
}
