// Package invite registers a batch of people, known by email, for an event on behalf of a host.
// Each email is processed on its own and ends up in exactly one of the buckets of the Result.
package invite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/attendee"
	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/rsvp-platform/event-manager/pkg/notification"
	"github.com/rsvp-platform/event-manager/pkg/user"

	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
)

const lockTTL = 5 * time.Minute

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, maxBatchSize int, hostService hostService, eventService eventService, userService userService, enroller enroller, notifier notifier, lock lock) *Service {
	return &Service{
		logger:       logger,
		maxBatchSize: maxBatchSize,
		hostService:  hostService,
		eventService: eventService,
		userService:  userService,
		enroller:     enroller,
		notifier:     notifier,
		lock:         lock,
		validate:     validator.New(),
	}
}

type hostService interface {
	RequireRole(ctx context.Context, userID, eventID uint, minimum model.Role) (model.Role, error)
}

type eventService interface {
	FindById(ctx context.Context, id uint) (*model.Event, error)
}

type userService interface {
	FindByEmails(ctx context.Context, emails []string) ([]*model.User, error)
	CreateMinimal(ctx context.Context, emails []string) ([]*model.User, error)
}

type enroller interface {
	CheckOpen(event *model.Event) error
	CountGoing(ctx context.Context, eventID uint) (int64, error)
	Enroll(ctx context.Context, user *model.User, event *model.Event) (attendee.Enrollment, error)
}

type notifier interface {
	Dispatch(ctx context.Context, n notification.Notification) error
}

type lock interface {
	Acquire(key string, ttl time.Duration) (string, bool, error)
	Release(key, token string) error
}

type Service struct {
	logger       *slog.Logger
	maxBatchSize int
	hostService  hostService
	eventService eventService
	userService  userService
	enroller     enroller
	notifier     notifier
	lock         lock
	validate     *validator.Validate
}

type Outcome struct {
	Email  string `json:"email"`
	Reason string `json:"reason,omitempty"`
}

type Result struct {
	Invited  []Outcome `json:"invited"`
	Restored []Outcome `json:"restored"`
	Failed   []Outcome `json:"failed"`
	Skipped  []Outcome `json:"skipped"`
}

func newResult() Result {
	return Result{
		Invited:  []Outcome{},
		Restored: []Outcome{},
		Failed:   []Outcome{},
		Skipped:  []Outcome{},
	}
}

// Invite registers everyone in emails for the event. Unknown emails get a user with an incomplete
// profile. Errors processing a single email are reported in Result.Failed and don't stop the batch.
func (s Service) Invite(ctx context.Context, caller *model.User, eventID uint, emails []string) (Result, error) {
	if caller == nil {
		return Result{}, errdef.NewUnauthorized("you need to sign in to invite people")
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, eventID, model.RoleManager); err != nil {
		return Result{}, err
	}

	emails = normalize(emails)
	if len(emails) == 0 {
		return Result{}, errdef.NewFieldBadRequest("emails", "at least one email is required")
	}
	if len(emails) > s.maxBatchSize {
		return Result{}, errdef.NewFieldBadRequest("emails", "at most %d emails can be invited at once", s.maxBatchSize)
	}

	key := fmt.Sprintf("invite:event:%d", eventID)
	token, acquired, err := s.lock.Acquire(key, lockTTL)
	if err != nil {
		return Result{}, err
	}
	if !acquired {
		return Result{}, errdef.NewConflict("invitations to event %d are already being sent", eventID)
	}
	defer func() {
		if err := s.lock.Release(key, token); err != nil {
			s.logger.ErrorContext(ctx, "Failed to release invite lock", "error", err, "eventId", eventID)
		}
	}()

	event, err := s.openEvent(ctx, eventID)
	if err != nil {
		return Result{}, err
	}

	result := newResult()

	valid := make([]string, 0, len(emails))
	for _, email := range emails {
		if err := s.validate.Var(email, "required,email"); err != nil {
			result.Failed = append(result.Failed, Outcome{Email: email, Reason: "invalid email"})
			continue
		}
		valid = append(valid, email)
	}

	users, failures := s.resolveUsers(ctx, valid)

	for _, email := range valid {
		if reason, failed := failures[email]; failed {
			result.Failed = append(result.Failed, Outcome{Email: email, Reason: reason})
			continue
		}

		u, ok := users[email]
		if !ok {
			result.Failed = append(result.Failed, Outcome{Email: email, Reason: "user wasn't created"})
			continue
		}

		s.inviteOne(ctx, &result, u, event)
	}

	return result, nil
}

// openEvent checks, once for the whole batch, that the event can take registrations.
func (s Service) openEvent(ctx context.Context, eventID uint) (*model.Event, error) {
	event, err := s.eventService.FindById(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.enroller.CheckOpen(event); err != nil {
		return nil, err
	}

	if !event.IsUnlimited() {
		going, err := s.enroller.CountGoing(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		if event.RemainingSeats(going) <= 0 {
			return nil, errdef.NewBadRequest("event is full")
		}
	}

	return event, nil
}

// resolveUsers finds the users of the emails and creates those who don't exist in one go. Emails
// whose users couldn't be created are returned with the reason.
func (s Service) resolveUsers(ctx context.Context, emails []string) (map[string]*model.User, map[string]string) {
	users := make(map[string]*model.User, len(emails))
	failures := make(map[string]string)
	if len(emails) == 0 {
		return users, failures
	}

	found, err := s.userService.FindByEmails(ctx, emails)
	if err != nil {
		for _, email := range emails {
			failures[email] = err.Error()
		}
		return users, failures
	}
	for _, u := range found {
		users[user.NormalizeEmail(u.Email)] = u
	}

	var missing []string
	for _, email := range emails {
		if _, ok := users[email]; !ok {
			missing = append(missing, email)
		}
	}
	if len(missing) == 0 {
		return users, failures
	}

	created, err := s.userService.CreateMinimal(ctx, missing)
	if err != nil {
		for _, email := range missing {
			failures[email] = err.Error()
		}
		return users, failures
	}
	for _, u := range created {
		users[user.NormalizeEmail(u.Email)] = u
	}

	return users, failures
}

func (s Service) inviteOne(ctx context.Context, result *Result, u *model.User, event *model.Event) {
	enrollment, err := s.enroller.Enroll(ctx, u, event)
	if errors.Is(err, attendee.ErrAlreadyRegistered) || errdef.IsDuplicated(err) {
		result.Skipped = append(result.Skipped, Outcome{Email: u.Email, Reason: "already invited"})
		return
	}
	if err != nil {
		result.Failed = append(result.Failed, Outcome{Email: u.Email, Reason: err.Error()})
		return
	}

	if enrollment.Restored {
		result.Restored = append(result.Restored, Outcome{Email: u.Email})
	} else {
		result.Invited = append(result.Invited, Outcome{Email: u.Email})
	}

	if err := s.notifier.Dispatch(ctx, notification.ForEvent(notification.KindInvited, u.Email, event)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to dispatch invitation", "error", err, "eventId", event.ID)
	}
}

// normalize trims and lower cases the emails and drops empty ones and duplicates. The order of
// first occurrence is kept.
func normalize(emails []string) []string {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		email = user.NormalizeEmail(email)
		if email == "" || slices.Contains(normalized, email) {
			continue
		}
		normalized = append(normalized, email)
	}
	return normalized
}
