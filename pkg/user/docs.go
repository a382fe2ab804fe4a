package user

import "github.com/rsvp-platform/event-manager/pkg/model"

// swagger:parameters updateMe
type _ struct {
	// Update profile request body parameter
	// in: body
	// required: true
	Body UpdateProfileRequest
}

// swagger:parameters findUserById
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:response User
type _ struct {
	// in: body
	Body model.User
}

// swagger:response Error
type _ struct {
	// in: body
	Body struct {
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	}
}
