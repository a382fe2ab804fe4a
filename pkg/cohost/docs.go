package cohost

import "github.com/rsvp-platform/event-manager/pkg/model"

// swagger:parameters addCohost
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Add cohost request body parameter
	// in: body
	// required: true
	Body AddRequest
}

// swagger:parameters removeCohost
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// in: path
	// required: true
	UserID uint `json:"userId"`
}

// swagger:parameters leaveEvent findCohosts
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:response Host
type _ struct {
	// in: body
	Body model.Host
}

// swagger:response RemoveResult
type _ struct {
	// in: body
	Body RemoveResult
}
