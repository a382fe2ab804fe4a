// Package quota limits how many events a user can create per calendar month.
package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/config"
	"github.com/rsvp-platform/event-manager/pkg/model"
)

// ErrLimitExceeded is wrapped by the bad request returned once a user reached the monthly limit.
var ErrLimitExceeded = errors.New("monthly event limit reached")

func NewGuard(limits config.Quota, counter counter) *Guard {
	return &Guard{limits: limits, counter: counter}
}

type counter interface {
	// CountCreatedThisMonth counts the events of given visibility the user created in the current
	// calendar month, soft deleted events included.
	CountCreatedThisMonth(ctx context.Context, userID uint, discoverable bool) (int64, error)
}

// Guard is read-only. Callers commit the creation or update after a successful check.
type Guard struct {
	limits  config.Quota
	counter counter
}

// CheckCreation returns an error if user is not allowed to create another event of the given
// visibility this month. Users with unlimited access are never counted.
func (g Guard) CheckCreation(ctx context.Context, user *model.User, discoverable bool) error {
	if user.HasUnlimitedAccess {
		return nil
	}

	count, err := g.counter.CountCreatedThisMonth(ctx, user.ID, discoverable)
	if err != nil {
		return fmt.Errorf("failed to count events created this month: %v", err)
	}

	limit := g.limit(discoverable)
	if count >= int64(limit) {
		return errdef.NewBadRequest("%w: monthly limit of %d %s events reached", ErrLimitExceeded, limit, visibility(discoverable))
	}
	return nil
}

// CheckVisibilitySwitch returns an error if turning a private event public would exceed the
// monthly limit of public events. All other changes are allowed without counting.
func (g Guard) CheckVisibilitySwitch(ctx context.Context, user *model.User, from, to bool) error {
	if from || !to {
		return nil
	}
	return g.CheckCreation(ctx, user, to)
}

func (g Guard) limit(discoverable bool) int {
	if discoverable {
		return g.limits.PublicEventsPerMonth
	}
	return g.limits.PrivateEventsPerMonth
}

func visibility(discoverable bool) string {
	if discoverable {
		return "public"
	}
	return "private"
}
