package middleware

import (
	"context"
	"log/slog"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewAuthorization(logger *slog.Logger, userService userService) AuthorizationMiddleware {
	return AuthorizationMiddleware{
		logger:      logger,
		userService: userService,
	}
}

// AuthorizationMiddleware replaces the user decoded from the token with the stored user. Flags
// like HasUnlimitedAccess and IsCompleted are only trusted from storage.
type AuthorizationMiddleware struct {
	logger      *slog.Logger
	userService userService
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

func (m AuthorizationMiddleware) LoadUser(c *gin.Context) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	stored, err := m.userService.FindById(c.Request.Context(), u.ID)
	if err != nil {
		if errdef.IsNotFound(err) {
			m.logger.WarnContext(c.Request.Context(), "Token user not found", "user", u.ID)
			_ = c.Error(errdef.NewUnauthorized("user not found"))
		} else {
			_ = c.Error(err)
		}
		c.Abort()
		return
	}

	setUser(c, stored)
	c.Next()
}
