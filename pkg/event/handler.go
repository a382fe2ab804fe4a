package event

import (
	"context"
	"net/http"
	"time"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(eventService eventService) Handler {
	return Handler{eventService: eventService}
}

type Handler struct {
	eventService eventService
}

type eventService interface {
	Create(ctx context.Context, caller *model.User, draft Draft) (*model.Event, error)
	Update(ctx context.Context, caller *model.User, id uint, changes Changes) (*model.Event, error)
	Delete(ctx context.Context, caller *model.User, id uint) error
	FindById(ctx context.Context, id uint) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindHosted(ctx context.Context, userID uint) ([]model.Event, error)
	FindUpcoming(ctx context.Context) ([]model.Event, error)
}

type CreateEventRequest struct {
	Name                   string    `json:"name" binding:"required,max=200"`
	Description            string    `json:"description" binding:"max=5000"`
	Location               string    `json:"location" binding:"max=500"`
	Discoverable           bool      `json:"discoverable"`
	HostPermissionRequired bool      `json:"hostPermissionRequired"`
	Capacity               *int      `json:"capacity" binding:"omitempty,min=-1"`
	StartTime              time.Time `json:"startTime" binding:"required"`
	EndTime                time.Time `json:"endTime" binding:"required,afterField=StartTime"`
}

// Create event
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /events createEvent
	//
	// Create event
	//
	// Create an event. Users without unlimited access can create a limited number of public and private events per month.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Event
	//   400: Error
	//   401: Error
	//   409: Error
	//   415: Error
	var request CreateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	capacity := model.UnlimitedCapacity
	if request.Capacity != nil {
		capacity = *request.Capacity
	}

	event, err := h.eventService.Create(c.Request.Context(), user, Draft{
		Name:                   request.Name,
		Description:            request.Description,
		Location:               request.Location,
		Discoverable:           request.Discoverable,
		HostPermissionRequired: request.HostPermissionRequired,
		Capacity:               capacity,
		StartTime:              request.StartTime,
		EndTime:                request.EndTime,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

type UpdateEventRequest struct {
	Name                   *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description            *string    `json:"description" binding:"omitempty,max=5000"`
	Location               *string    `json:"location" binding:"omitempty,max=500"`
	Discoverable           *bool      `json:"discoverable"`
	HostPermissionRequired *bool      `json:"hostPermissionRequired"`
	Capacity               *int       `json:"capacity" binding:"omitempty,min=-1"`
	StartTime              *time.Time `json:"startTime"`
	EndTime                *time.Time `json:"endTime"`
	IsActive               *bool      `json:"isActive"`
}

// Update event
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /events/{id} updateEvent
	//
	// Update event
	//
	// Update an event. Only the creator and managers can update an event. Turning off host permission moves everyone on the waiting list to going.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	var request UpdateEventRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), user, id, Changes(request))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// Delete event
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /events/{id} deleteEvent
	//
	// Delete event
	//
	// Delete an event. Only the creator can delete an event.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   401: Error
	//   403: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), user, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// FindById event
func (h Handler) FindById(c *gin.Context) {
	// swagger:route GET /events/{id} findEventById
	//
	// Find event
	//
	// Find an event by id
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   401: Error
	//   404: Error
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// FindBySlug event
func (h Handler) FindBySlug(c *gin.Context) {
	// swagger:route GET /events/slug/{slug} findEventBySlug
	//
	// Find event by slug
	//
	// Find an event by its slug
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Event
	//   401: Error
	//   404: Error
	event, err := h.eventService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// FindHosted events
func (h Handler) FindHosted(c *gin.Context) {
	// swagger:route GET /me/events findHostedEvents
	//
	// Find hosted events
	//
	// Find the events the current user hosts
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Event
	//   401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	events, err := h.eventService.FindHosted(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// FindUpcoming events
func (h Handler) FindUpcoming(c *gin.Context) {
	// swagger:route GET /events findUpcomingEvents
	//
	// Find upcoming events
	//
	// Find the public events open for registration
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: []Event
	//   401: Error
	events, err := h.eventService.FindUpcoming(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, events)
}
