package event

import "github.com/rsvp-platform/event-manager/pkg/model"

// swagger:parameters createEvent
type _ struct {
	// Create event request body parameter
	// in: body
	// required: true
	Body CreateEventRequest
}

// swagger:parameters updateEvent
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Update event request body parameter
	// in: body
	// required: true
	Body UpdateEventRequest
}

// swagger:parameters deleteEvent findEventById
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters findEventBySlug
type _ struct {
	// in: path
	// required: true
	Slug string `json:"slug"`
}

// swagger:response Event
type _ struct {
	// in: body
	Body model.Event
}
