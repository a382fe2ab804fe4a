package cohost

import (
	"github.com/rsvp-platform/event-manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.RouterGroup, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication, authorization.LoadUser)
	tokenAuthenticationRouter.GET("/me/hosts", handler.FindMine)
	tokenAuthenticationRouter.GET("/events/:id/hosts", handler.FindByEvent)
	tokenAuthenticationRouter.POST("/events/:id/hosts", handler.Add)
	tokenAuthenticationRouter.POST("/events/:id/hosts/leave", handler.Leave)
	tokenAuthenticationRouter.DELETE("/events/:id/hosts/:userId", handler.Remove)
}
