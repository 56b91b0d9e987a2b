package stub

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/openrestauth/pkg/authsdk"
	"github.com/aussiebroadwan/openrestauth/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for access tokens the stub did not issue,
// or that have expired.
var ErrInvalidToken = errors.New("invalid access token")

// Claims are the stub's access-token claims. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims

	// Namespace of the subject, e.g. "com.openrest"
	NS string `json:"ns"`
}

// TokenIssuer mints and verifies HS256 access tokens.
type TokenIssuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

func (ti *TokenIssuer) now() time.Time {
	if ti.Now != nil {
		return ti.Now()
	}
	return time.Now()
}

// Issue returns a signed access token for user.
func (ti *TokenIssuer) Issue(user authsdk.UserRef) (string, error) {
	now := ti.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ti.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.TTL)),
			ID:        idx.NewAt(now).String(),
		},
		NS: user.NS,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify checks an access token and returns the user it was issued to.
func (ti *TokenIssuer) Verify(token string) (authsdk.UserRef, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return ti.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ti.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return authsdk.UserRef{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.NS == "" {
		return authsdk.UserRef{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if _, err := idx.Parse(claims.ID); err != nil {
		return authsdk.UserRef{}, fmt.Errorf("%w: bad jti: %w", ErrInvalidToken, err)
	}

	return authsdk.UserRef{NS: claims.NS, ID: claims.Subject}, nil
}
