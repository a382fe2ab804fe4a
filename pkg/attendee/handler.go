package attendee

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func NewHandler(attendeeService attendeeService) Handler {
	return Handler{attendeeService: attendeeService}
}

type Handler struct {
	attendeeService attendeeService
}

type attendeeService interface {
	Register(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error)
	Cancel(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error)
	SetAllowedStatus(ctx context.Context, caller *model.User, attendeeID uint, allowed bool) (*model.Attendee, error)
	ApproveWaiting(ctx context.Context, caller *model.User, eventID uint) (ApproveWaitingResult, error)
	VerifyCheckIn(ctx context.Context, caller *model.User, token uuid.UUID) (*model.Attendee, error)
	SubscribeCheckIns(ctx context.Context, caller *model.User, eventID uint) (<-chan CheckIn, func(), error)
	FindMine(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Attendee, error)
	FindByEvent(ctx context.Context, caller *model.User, eventID uint) ([]model.Attendee, error)
	CountGoing(ctx context.Context, eventID uint) (int64, error)
}

// Register attendee
func (h Handler) Register(c *gin.Context) {
	// swagger:route POST /events/{id}/attendees registerAttendee
	//
	// Register attendee
	//
	// Register the current user for an event. Events requiring host permission put the attendee on the waiting list.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Attendee
	//   400: Error
	//   401: Error
	//   404: Error
	//   409: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attendee, err := h.attendeeService.Register(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, attendee)
}

// Cancel registration
func (h Handler) Cancel(c *gin.Context) {
	// swagger:route DELETE /events/{id}/attendees/me cancelAttendee
	//
	// Cancel registration
	//
	// Cancel the registration of the current user for an event
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202: Attendee
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

	attendee, err := h.attendeeService.Cancel(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, attendee)
}

type AllowedStatusRequest struct {
	Allowed *bool `json:"allowed" binding:"required"`
}

// SetAllowedStatus approves or rejects an attendee
func (h Handler) SetAllowedStatus(c *gin.Context) {
	// swagger:route PUT /attendees/{id}/allowed-status setAllowedStatus
	//
	// Approve or reject attendee
	//
	// Approving moves the attendee to GOING if the event isn't full, rejecting moves them to the waiting list
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Attendee
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	attendeeID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request AllowedStatusRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attendee, err := h.attendeeService.SetAllowedStatus(c.Request.Context(), user, attendeeID, *request.Allowed)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendee)
}

// ApproveWaiting approves every waiting attendee
func (h Handler) ApproveWaiting(c *gin.Context) {
	// swagger:route PUT /events/{id}/attendees/waiting approveWaiting
	//
	// Approve waiting attendees
	//
	// Move every attendee on the waiting list of an event to GOING regardless of capacity
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: ApproveWaitingResult
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

	result, err := h.attendeeService.ApproveWaiting(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type CheckInRequest struct {
	QRToken string `json:"qrToken" binding:"required,uuid"`
}

// CheckIn verifies a ticket
func (h Handler) CheckIn(c *gin.Context) {
	// swagger:route POST /check-ins checkIn
	//
	// Check in attendee
	//
	// Verify the QR token of a ticket and check in its holder. Check-in opens one hour before the event starts.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Attendee
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	var request CheckInRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := uuid.Parse(request.QRToken)
	if err != nil {
		_ = c.Error(errdef.NewFieldBadRequest("qrToken", "error parsing qrToken: %v", err))
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attendee, err := h.attendeeService.VerifyCheckIn(c.Request.Context(), user, token)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendee)
}

// StreamCheckIns streams check-ins as server sent events
func (h Handler) StreamCheckIns(c *gin.Context) {
	// swagger:route GET /events/{id}/check-ins/stream streamCheckIns
	//
	// Stream check-ins
	//
	// Stream the check-ins of an event as server sent events
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Stream
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

	checkIns, unsubscribe, err := h.attendeeService.SubscribeCheckIns(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case checkIn, ok := <-checkIns:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Event: "check-in",
				Id:    strconv.FormatUint(uint64(checkIn.AttendeeID), 10),
				Data:  checkIn,
			})
			return true
		}
	})
}

// FindMine returns the registration of the current user
func (h Handler) FindMine(c *gin.Context) {
	// swagger:route GET /events/{id}/attendees/me findMyRegistration
	//
	// Find my registration
	//
	// Find the registration, including the ticket, of the current user for an event
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Attendee
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

	attendee, err := h.attendeeService.FindMine(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendee)
}

// FindMyRegistrations lists the registrations of the current user
func (h Handler) FindMyRegistrations(c *gin.Context) {
	// swagger:route GET /me/attendees findMyRegistrations
	//
	// Find my registrations
	//
	// Find the registrations of the current user
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Attendee
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	attendees, err := h.attendeeService.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendees)
}

// FindByEvent lists the attendees of an event
func (h Handler) FindByEvent(c *gin.Context) {
	// swagger:route GET /events/{id}/attendees findAttendees
	//
	// Find attendees
	//
	// Find the attendees of an event. Only visible to cohosts.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Attendee
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

	attendees, err := h.attendeeService.FindByEvent(c.Request.Context(), user, eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, attendees)
}

type CountResult struct {
	Going int64 `json:"going"`
}

// CountGoing counts the attendees going to an event
func (h Handler) CountGoing(c *gin.Context) {
	// swagger:route GET /events/{id}/attendees/count countGoing
	//
	// Count attendees
	//
	// Count the attendees going to an event
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: CountResult
	//   401: Error
	eventID, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	going, err := h.attendeeService.CountGoing(c.Request.Context(), eventID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, CountResult{Going: going})
}
