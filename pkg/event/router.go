package event

import (
	"github.com/rsvp-platform/event-manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.RouterGroup, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication, authorization.LoadUser)
	tokenAuthenticationRouter.GET("/events", handler.FindUpcoming)
	tokenAuthenticationRouter.POST("/events", handler.Create)
	tokenAuthenticationRouter.GET("/events/:id", handler.FindById)
	tokenAuthenticationRouter.PUT("/events/:id", handler.Update)
	tokenAuthenticationRouter.DELETE("/events/:id", handler.Delete)
	tokenAuthenticationRouter.GET("/events/slug/:slug", handler.FindBySlug)
	tokenAuthenticationRouter.GET("/me/events", handler.FindHosted)
}
