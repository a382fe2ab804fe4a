package attendee

import "github.com/rsvp-platform/event-manager/pkg/model"

// swagger:parameters registerAttendee cancelAttendee approveWaiting streamCheckIns findMyRegistration findAttendees countGoing
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`
}

// swagger:parameters setAllowedStatus
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Allowed status request body parameter
	// in: body
	// required: true
	Body AllowedStatusRequest
}

// swagger:parameters checkIn
type _ struct {
	// Check-in request body parameter
	// in: body
	// required: true
	Body CheckInRequest
}

// swagger:response Attendee
type _ struct {
	// in: body
	Body model.Attendee
}

// swagger:response ApproveWaitingResult
type _ struct {
	// in: body
	Body ApproveWaitingResult
}

// swagger:response CountResult
type _ struct {
	// in: body
	Body CountResult
}

// swagger:response Stream
type _ struct {
	// in: body
	Body CheckIn
}
