package inttest

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"
)

// TokenIssuer signs access tokens the way the identity provider does, so tests can authenticate
// against the token authentication middleware.
type TokenIssuer struct {
	key *rsa.PrivateKey
}

func NewTokenIssuer(t *testing.T) *TokenIssuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	return &TokenIssuer{key: key}
}

func (ti *TokenIssuer) PublicKey() *rsa.PublicKey {
	return &ti.key.PublicKey
}

// Token returns a signed access token for user valid for one hour.
func (ti *TokenIssuer) Token(t *testing.T, user *model.User) string {
	t.Helper()

	token, err := jwt.NewBuilder().
		Expiration(time.Now().Add(time.Hour)).
		Claim("user", map[string]any{"id": user.ID, "email": user.Email}).
		Build()
	require.NoError(t, err, "failed to build token")

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, ti.key))
	require.NoError(t, err, "failed to sign token")
	return string(signed)
}
