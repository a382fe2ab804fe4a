package invite

// swagger:parameters inviteAttendees
type _ struct {
	// in: path
	// required: true
	ID uint `json:"id"`

	// Invite request body parameter
	// in: body
	// required: true
	Body InviteRequest
}

// swagger:response InviteResult
type _ struct {
	// in: body
	Body Result
}
