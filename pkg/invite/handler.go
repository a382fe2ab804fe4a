package invite

import (
	"context"
	"net/http"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(inviteService inviteService) Handler {
	return Handler{inviteService: inviteService}
}

type Handler struct {
	inviteService inviteService
}

type inviteService interface {
	Invite(ctx context.Context, caller *model.User, eventID uint, emails []string) (Result, error)
}

type InviteRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}

// Invite people to an event
func (h Handler) Invite(c *gin.Context) {
	// swagger:route POST /events/{id}/invitations inviteAttendees
	//
	// Invite attendees
	//
	// Register a batch of people for an event by email. Unknown emails get an account with an incomplete profile. The outcome is reported per email.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: InviteResult
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   409: Error
	//   415: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request InviteRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.inviteService.Invite(c.Request.Context(), user, eventID, request.Emails)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
