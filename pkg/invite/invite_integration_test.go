package invite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rsvp-platform/event-manager/pkg/attendee"
	"github.com/rsvp-platform/event-manager/pkg/cohost"
	"github.com/rsvp-platform/event-manager/pkg/config"
	"github.com/rsvp-platform/event-manager/pkg/event"
	"github.com/rsvp-platform/event-manager/pkg/inttest"
	"github.com/rsvp-platform/event-manager/pkg/invite"
	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/rsvp-platform/event-manager/pkg/notification"
	"github.com/rsvp-platform/event-manager/pkg/quota"
	"github.com/rsvp-platform/event-manager/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvite(t *testing.T) {
	db := inttest.SetupDB(t)
	redis := inttest.SetupRedis(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := discardNotifier{}
	ctx := context.Background()

	userService := user.NewService(user.NewRepository(db))
	eventRepository := event.NewRepository(db)
	guard := quota.NewGuard(config.Quota{PublicEventsPerMonth: 10, PrivateEventsPerMonth: 5}, eventRepository)
	cohostService := cohost.NewService(logger, cohost.NewRepository(db), eventRepository, userService, notifier)
	attendeeService := attendee.NewService(logger, attendee.NewRepository(db), eventRepository, cohostService, notifier, attendee.NewBroker())
	eventService := event.NewService(eventRepository, guard, cohostService, userService, attendeeService)
	inviteService := invite.NewService(logger, 50, cohostService, eventRepository, userService, attendeeService, notifier, invite.NewRedisLock(redis))

	creator := &model.User{Email: "creator@example.com", Name: "Creator", IsCompleted: true}
	require.NoError(t, userService.Create(ctx, creator))
	known := &model.User{Email: "known@example.com", Name: "Known", IsCompleted: true}
	require.NoError(t, userService.Create(ctx, known))

	start := time.Now().Add(24 * time.Hour)
	launch, err := eventService.Create(ctx, creator, event.Draft{
		Name:      "Launch",
		Capacity:  model.UnlimitedCapacity,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	result, err := inviteService.Invite(ctx, creator, launch.ID, []string{"Known@example.com", "new@example.com", "broken"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []invite.Outcome{{Email: "known@example.com"}, {Email: "new@example.com"}}, result.Invited)
	assert.Equal(t, []invite.Outcome{{Email: "broken", Reason: "invalid email"}}, result.Failed)

	created, err := userService.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.False(t, created.IsCompleted)

	t.Run("InvitingAgainSkips", func(t *testing.T) {
		result, err := inviteService.Invite(ctx, creator, launch.ID, []string{"new@example.com"})

		require.NoError(t, err)
		assert.Equal(t, []invite.Outcome{{Email: "new@example.com", Reason: "already invited"}}, result.Skipped)
	})

	t.Run("CancelledRegistrationIsRestored", func(t *testing.T) {
		_, err := attendeeService.Cancel(ctx, known, launch.ID)
		require.NoError(t, err)

		result, err := inviteService.Invite(ctx, creator, launch.ID, []string{"known@example.com"})

		require.NoError(t, err)
		assert.Equal(t, []invite.Outcome{{Email: "known@example.com"}}, result.Restored)
	})
}

type discardNotifier struct{}

func (discardNotifier) Dispatch(context.Context, notification.Notification) error {
	return nil
}
