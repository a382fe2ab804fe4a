package model

import (
	"context"
	"time"
)

// User domain object defining a user
// swagger:model
type User struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	Email              string    `gorm:"index;unique" json:"email"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	IsCompleted        bool      `json:"isCompleted"`
	HasUnlimitedAccess bool      `json:"hasUnlimitedAccess"`
}

type userContextKey struct{}

// NewContextWithUser returns a new [context.Context] that carries the given user.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUserFromContext returns the user stored in ctx, if any.
func GetUserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*User)
	return user, ok
}
