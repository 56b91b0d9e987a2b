/*
Package authsdk provides a client for the openrest authentication endpoint.

# Overview

Every call is a single JSON POST to one endpoint URL. The request carries a
"type" field naming the login method; the response is an envelope holding
either a "value" (the authenticated user and session payload) or an "error"
object with a code and a description.

The package is organized around two types:

  - Client: performs one request/response cycle and classifies failures
  - Authentication: one method per login method, each delegating to a Client

Create an Authentication with the HTTP client it should use:

	auth, err := authsdk.NewAuthentication(authsdk.Config{
		Transport: http.DefaultClient,
		Timeout:   10 * time.Second,
	})

	value, err := auth.Openrest(ctx, "username", "password")

The endpoint URL defaults to DefaultEndpointURL. A zero Timeout means the
request is bounded only by the caller's context.

# Login Methods

	auth.Wix(ctx, instance, appKey)       // wix.loginInstance
	auth.Openrest(ctx, username, password) // openrest.login
	auth.Google(ctx, idToken, clientID)   // google.login
	auth.Facebook(ctx, accessToken)       // facebook.login
	auth.Authenticate(ctx, accessToken)   // authenticate

Values are returned as json.RawMessage exactly as the server sent them. Use
DecodeValue to unmarshal one:

	login, err := authsdk.DecodeValue[authsdk.LoginValue](value)

Callers that want to carry the issued access token into later calls (for
example Authenticate) do so themselves; the package keeps no session.

# Error Handling

Every failed call returns an *Error:

  - timeout: no response within the configured timeout
  - network_down: the endpoint could not be reached
  - protocol: the response was not a valid envelope
  - canceled: the caller's context was cancelled
  - anything else: a code declared by the server, passed through verbatim

Example:

	value, err := auth.Authenticate(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, authsdk.ErrTimeout):
			// try again later
		case authsdk.IsCode(err, "invalid_token"):
			// log in again
		}
	}

Nothing is retried; that decision belongs to the caller.

# Thread Safety

A Client is immutable after construction. Any number of calls may run
concurrently against one Client, each with its own HTTP request.

# Testing

The authsdktest package provides a rule-based fake endpoint for tests.
*/
package authsdk
