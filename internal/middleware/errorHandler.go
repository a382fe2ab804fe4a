package middleware

import (
	"net/http"

	"github.com/rsvp-platform/event-manager/internal/errdef"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil {
			return
		}
		if c.Writer.Status() != http.StatusOK {
			c.JSON(c.Writer.Status(), errorResponse{Message: err.Error(), Field: errdef.Field(err)})
			return
		}

		// nolint:gocritic
		if errdef.IsBadRequest(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error(), Field: errdef.Field(err)})
		} else if errdef.IsForbidden(err) {
			c.JSON(http.StatusForbidden, errorResponse{Message: err.Error()})
		} else if errdef.IsDuplicated(err) {
			c.JSON(http.StatusConflict, errorResponse{Message: err.Error()})
		} else if errdef.IsNotFound(err) {
			c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
		} else if errdef.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, errorResponse{Message: err.Error()})
		} else if errdef.IsConflict(err) {
			c.JSON(http.StatusConflict, errorResponse{Message: err.Error()})
		} else if errdef.IsUnsupportedMediaType(err) {
			c.JSON(http.StatusUnsupportedMediaType, errorResponse{Message: err.Error()})
		} else {
			id, _ := GetCorrelationID(c.Request.Context())
			c.JSON(http.StatusInternalServerError, errorResponse{
				Message: "something went wrong. We'll look into it if you send us the id \"" + id + "\" :)",
			})
		}
	}
}
