package handler

import (
	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

// GetUserFromContext returns the user the authentication middleware put on the context.
func GetUserFromContext(c *gin.Context) (*model.User, error) {
	userData, exists := c.Get("user")
	if !exists {
		return nil, errdef.NewUnauthorized("user not found on context")
	}

	user, ok := userData.(*model.User)
	if !ok || user == nil {
		return nil, errdef.NewUnauthorized("failed to parse user data")
	}
	return user, nil
}
