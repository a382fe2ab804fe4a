package user

import (
	"github.com/rsvp-platform/event-manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.RouterGroup, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication, authorization.LoadUser)
	tokenAuthenticationRouter.GET("/me", handler.Me)
	tokenAuthenticationRouter.PUT("/me", handler.UpdateMe)
	tokenAuthenticationRouter.GET("/users/:id", handler.FindById)
}
