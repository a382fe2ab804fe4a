// Package docs holds the swagger definitions shared by all routes.
package docs

// swagger:response
type Error struct {
	// in: body
	Body struct {
		// The error message
		Message string `json:"message"`
		// The request field the error was raised for, if any
		Field string `json:"field,omitempty"`
	}
}
