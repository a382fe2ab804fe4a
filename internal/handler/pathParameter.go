package handler

import (
	"net/http"
	"strconv"

	"github.com/rsvp-platform/event-manager/internal/errdef"

	"github.com/gin-gonic/gin"
)

// GetPathParameter returns the path parameter name as an id. Ids start at 1. The request is
// aborted with a bad request tied to name if the parameter isn't a valid id.
func GetPathParameter(c *gin.Context, name string) (uint, bool) {
	value := c.Param(name)
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		_ = c.AbortWithError(http.StatusBadRequest, errdef.NewFieldBadRequest(name, "%s must be a positive integer but got %q", name, value))
		return 0, false
	}
	return uint(id), true
}
