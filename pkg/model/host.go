package model

import "time"

type Role string

const (
	RoleCreator   Role = "CREATOR"
	RoleManager   Role = "MANAGER"
	RoleCelebrity Role = "CELEBRITY"
	RoleReadOnly  Role = "READ_ONLY"
)

// Roles lists every cohost role.
var Roles = []Role{RoleCreator, RoleManager, RoleCelebrity, RoleReadOnly}

var roleRanks = map[Role]int{
	RoleCreator:   3,
	RoleManager:   2,
	RoleCelebrity: 1,
	RoleReadOnly:  1,
}

// Rank returns the authority of the role. Unknown roles rank 0.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r carries at least the authority of minimum.
func (r Role) AtLeast(minimum Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= minimum.Rank()
}

// Host domain object defining a cohost of an event
// swagger:model
type Host struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	EventID   uint      `gorm:"uniqueIndex:idx_host_user_event,where:is_deleted = false" json:"eventId"`
	Event     *Event    `json:"event,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_host_user_event,where:is_deleted = false" json:"userId"`
	User      *User     `json:"user,omitempty"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	IsDeleted bool      `gorm:"default:false;not null" json:"-"`
}
