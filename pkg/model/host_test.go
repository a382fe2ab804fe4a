package model_test

import (
	"testing"

	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role    model.Role
		minimum model.Role
		want    bool
	}{
		{model.RoleCreator, model.RoleManager, true},
		{model.RoleManager, model.RoleManager, true},
		{model.RoleCelebrity, model.RoleManager, false},
		{model.RoleReadOnly, model.RoleManager, false},
		{model.RoleReadOnly, model.RoleCelebrity, true},
		{model.RoleManager, model.RoleCreator, false},
		{model.Role("OWNER"), model.RoleReadOnly, false},
		{model.Role(""), model.Role(""), false},
	}

	for _, test := range tests {
		t.Run(string(test.role)+">="+string(test.minimum), func(t *testing.T) {
			assert.Equal(t, test.want, test.role.AtLeast(test.minimum))
		})
	}
}

func TestEventRemainingSeats(t *testing.T) {
	event := &model.Event{Capacity: 3}
	assert.False(t, event.IsUnlimited())
	assert.Equal(t, int64(2), event.RemainingSeats(1))
	assert.Equal(t, int64(0), event.RemainingSeats(5))

	unlimited := &model.Event{Capacity: model.UnlimitedCapacity}
	assert.True(t, unlimited.IsUnlimited())
}
