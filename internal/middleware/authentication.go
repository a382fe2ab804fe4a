package middleware

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func NewAuthentication(logger *slog.Logger, publicKey *rsa.PublicKey) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		logger:    logger,
		publicKey: publicKey,
	}
}

// AuthenticationMiddleware verifies access tokens issued by the identity provider. Issuing tokens
// is not part of this service.
type AuthenticationMiddleware struct {
	logger    *slog.Logger
	publicKey *rsa.PublicKey
}

func (m AuthenticationMiddleware) TokenAuthentication(c *gin.Context) {
	user, err := parseRequest(c.Request, m.publicKey)
	if err != nil {
		m.logger.InfoContext(c.Request.Context(), "Token not valid", "error", err)
		_ = c.Error(errdef.NewUnauthorized("token not valid"))
		c.Abort()
		return
	}

	// Extra precaution to ensure that no errors has occurred, and it's safe to call c.Next()
	if len(c.Errors.Errors()) > 0 {
		c.Abort()
		return
	}

	setUser(c, user)
	c.Next()
}

func setUser(c *gin.Context, user *model.User) {
	c.Set("user", user)
	c.Request = c.Request.WithContext(model.NewContextWithUser(c.Request.Context(), user))
}

func parseRequest(request *http.Request, key *rsa.PublicKey) (*model.User, error) {
	token, err := jwt.ParseRequest(
		request,
		jwt.WithKey(jwa.RS256, key),
		jwt.WithHeaderKey("Authorization"),
		jwt.WithCookieKey("accessToken"),
	)
	if err != nil {
		return nil, err
	}

	return extractUser(token)
}

func extractUser(token jwt.Token) (*model.User, error) {
	userData, ok := token.Get("user")
	if !ok {
		return nil, errors.New("user not found in claims")
	}

	bytes, err := json.Marshal(userData)
	if err != nil {
		return nil, err
	}

	user := &model.User{}
	if err := json.Unmarshal(bytes, user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, errors.New("user claim without id")
	}
	return user, nil
}
