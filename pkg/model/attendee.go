package model

import (
	"time"

	"github.com/google/uuid"
)

type AttendeeStatus string

const (
	AttendeeWaiting   AttendeeStatus = "WAITING"
	AttendeeGoing     AttendeeStatus = "GOING"
	AttendeeCancelled AttendeeStatus = "CANCELLED"
)

// Attendee domain object defining a user's registration for an event
// swagger:model
type Attendee struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	EventID       uint           `gorm:"uniqueIndex:idx_attendee_user_event,where:is_deleted = false" json:"eventId"`
	Event         *Event         `json:"event,omitempty"`
	UserID        uint           `gorm:"uniqueIndex:idx_attendee_user_event,where:is_deleted = false" json:"userId"`
	User          *User          `json:"user,omitempty"`
	Status        AttendeeStatus `gorm:"type:varchar(16);index;not null" json:"status"`
	AllowedStatus bool           `gorm:"not null" json:"allowedStatus"`
	HasAttended   bool           `gorm:"default:false;not null" json:"hasAttended"`
	CheckInTime   *time.Time     `json:"checkInTime,omitempty"`
	QRToken       uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"qrToken"`
	IsDeleted     bool           `gorm:"default:false;not null" json:"-"`
}
