// Package notification delivers attendee and cohost notifications by email. Services publish them
// to a durable RabbitMQ queue and a consumer sends the emails. Publishing is best effort and never
// fails the operation that triggered it.
package notification

import (
	"time"

	"github.com/rsvp-platform/event-manager/pkg/model"
)

// Queue is the RabbitMQ queue notifications are published to and consumed from.
const Queue = "notifications"

type Kind string

const (
	KindRegistered  Kind = "registered"
	KindWaitlisted  Kind = "waitlisted"
	KindApproved    Kind = "approved"
	KindCancelled   Kind = "cancelled"
	KindInvited     Kind = "invited"
	KindCohostAdded Kind = "cohost-added"
)

type Notification struct {
	Kind      Kind       `json:"kind"`
	Email     string     `json:"email"`
	EventID   uint       `json:"eventId"`
	EventName string     `json:"eventName"`
	EventSlug string     `json:"eventSlug"`
	StartTime time.Time  `json:"startTime"`
	Role      model.Role `json:"role,omitempty"`
}

// ForEvent returns a notification of given kind about event addressed to email.
func ForEvent(kind Kind, email string, event *model.Event) Notification {
	return Notification{
		Kind:      kind,
		Email:     email,
		EventID:   event.ID,
		EventName: event.Name,
		EventSlug: event.Slug,
		StartTime: event.StartTime,
	}
}
