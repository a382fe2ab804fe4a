package model

import "time"

// UnlimitedCapacity marks an event without a seat limit.
const UnlimitedCapacity = -1

// Event domain object defining an event
// swagger:model
type Event struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
	Slug                   string    `gorm:"uniqueIndex" json:"slug"`
	Name                   string    `gorm:"not null" json:"name"`
	Description            string    `json:"description"`
	Location               string    `json:"location"`
	CreatorID              uint      `gorm:"index" json:"creatorId"`
	Creator                *User     `json:"-"`
	Discoverable           bool      `json:"discoverable"`
	HostPermissionRequired bool      `json:"hostPermissionRequired"`
	Capacity               int       `gorm:"default:-1;not null" json:"capacity"`
	StartTime              time.Time `json:"startTime"`
	EndTime                time.Time `json:"endTime"`
	IsActive               bool      `gorm:"default:true;not null" json:"isActive"`
	IsDeleted              bool      `gorm:"default:false;not null" json:"-"`
}

// IsUnlimited reports whether the event accepts any number of attendees.
func (e *Event) IsUnlimited() bool {
	return e.Capacity < 0
}

// HasEnded reports whether the event is over at the given time.
func (e *Event) HasEnded(now time.Time) bool {
	return !e.EndTime.After(now)
}

// RemainingSeats returns how many attendees can still be admitted given the current number of
// attendees going. The result is meaningless for unlimited events.
func (e *Event) RemainingSeats(going int64) int64 {
	remaining := int64(e.Capacity) - going
	if remaining < 0 {
		return 0
	}
	return remaining
}
