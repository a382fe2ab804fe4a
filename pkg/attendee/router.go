package attendee

import (
	"github.com/rsvp-platform/event-manager/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.RouterGroup, authentication middleware.AuthenticationMiddleware, authorization middleware.AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authentication.TokenAuthentication, authorization.LoadUser)
	tokenAuthenticationRouter.GET("/me/attendees", handler.FindMyRegistrations)
	tokenAuthenticationRouter.POST("/events/:id/attendees", handler.Register)
	tokenAuthenticationRouter.GET("/events/:id/attendees", handler.FindByEvent)
	tokenAuthenticationRouter.GET("/events/:id/attendees/me", handler.FindMine)
	tokenAuthenticationRouter.DELETE("/events/:id/attendees/me", handler.Cancel)
	tokenAuthenticationRouter.GET("/events/:id/attendees/count", handler.CountGoing)
	tokenAuthenticationRouter.PUT("/events/:id/attendees/waiting", handler.ApproveWaiting)
	tokenAuthenticationRouter.PUT("/attendees/:id/allowed-status", handler.SetAllowedStatus)
	tokenAuthenticationRouter.POST("/check-ins", handler.CheckIn)
	tokenAuthenticationRouter.GET("/events/:id/check-ins/stream", handler.StreamCheckIns)
}
