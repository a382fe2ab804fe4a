package cohost

import (
	"context"
	"net/http"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(hostService hostService) Handler {
	return Handler{hostService: hostService}
}

type Handler struct {
	hostService hostService
}

type hostService interface {
	Add(ctx context.Context, caller *model.User, eventID uint, email string, role model.Role) (*model.Host, error)
	Remove(ctx context.Context, caller *model.User, eventID, targetID uint) (RemoveResult, error)
	Leave(ctx context.Context, user *model.User, eventID uint) error
	FindByEvent(ctx context.Context, caller *model.User, eventID uint) ([]model.Host, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Host, error)
}

type AddRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneOf=MANAGER CELEBRITY READ_ONLY"`
}

// Add cohost
func (h Handler) Add(c *gin.Context) {
	// swagger:route POST /events/{id}/hosts addCohost
	//
	// Add cohost
	//
	// Add a user as cohost of an event. Only the creator and managers can add cohosts, and the user needs a completed profile.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Host
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request AddRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	host, err := h.hostService.Add(c.Request.Context(), user, eventID, request.Email, model.Role(request.Role))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, host)
}

// Remove cohost
func (h Handler) Remove(c *gin.Context) {
	// swagger:route DELETE /events/{id}/hosts/{userId} removeCohost
	//
	// Remove cohost
	//
	// Remove a cohost from an event. The creator can't be removed and cohosts can't remove themselves.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202: RemoveResult
	//   400: Error
	//   401: Error
	//   403: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	targetID, ok := handler.GetPathParameter(c, "userId")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.hostService.Remove(c.Request.Context(), user, eventID, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, result)
}

// Leave event
func (h Handler) Leave(c *gin.Context) {
	// swagger:route POST /events/{id}/hosts/leave leaveEvent
	//
	// Leave event
	//
	// Stop being a cohost of an event
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   400: Error
	//   401: Error
	//   404: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.hostService.Leave(c.Request.Context(), user, eventID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// FindByEvent cohosts
func (h Handler) FindByEvent(c *gin.Context) {
	// swagger:route GET /events/{id}/hosts findCohosts
	//
	// Find cohosts
	//
	// Find the cohosts of an event. Only visible to cohosts.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Host
	//   401: Error
	//   403: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	hosts, err := h.hostService.FindByEvent(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, hosts)
}

// FindMine returns the host roles of the current user
func (h Handler) FindMine(c *gin.Context) {
	// swagger:route GET /me/hosts findMyHosts
	//
	// Find my host roles
	//
	// Find the events the current user is hosting together with their role
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Host
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	hosts, err := h.hostService.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, hosts)
}
