package event

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxDescriptionLength = 5000

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository eventRepository, quotaGuard quotaGuard, hostService hostService, userService userService, attendeeService attendeeService) *Service {
	return &Service{
		repository:      repository,
		quotaGuard:      quotaGuard,
		hostService:     hostService,
		userService:     userService,
		attendeeService: attendeeService,
	}
}

type eventRepository interface {
	createWithCreator(ctx context.Context, event *model.Event) error
	FindById(ctx context.Context, id uint) (*model.Event, error)
	findBySlug(ctx context.Context, slug string) (*model.Event, error)
	update(ctx context.Context, event *model.Event) error
	softDelete(ctx context.Context, id uint) error
	findHostedBy(ctx context.Context, userID uint) ([]model.Event, error)
	findUpcoming(ctx context.Context) ([]model.Event, error)
}

type quotaGuard interface {
	CheckCreation(ctx context.Context, user *model.User, discoverable bool) error
	CheckVisibilitySwitch(ctx context.Context, user *model.User, from, to bool) error
}

type hostService interface {
	RequireRole(ctx context.Context, userID, eventID uint, minimum model.Role) (model.Role, error)
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type attendeeService interface {
	SetStatusForWaiting(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error)
}

type Service struct {
	repository      eventRepository
	quotaGuard      quotaGuard
	hostService     hostService
	userService     userService
	attendeeService attendeeService
}

// Draft holds what's needed to create an event.
type Draft struct {
	Name                   string
	Description            string
	Location               string
	Discoverable           bool
	HostPermissionRequired bool
	Capacity               int
	StartTime              time.Time
	EndTime                time.Time
}

// Create creates the event if the caller's monthly quota allows it. The caller becomes the
// creator and is made a host of the event.
func (s Service) Create(ctx context.Context, caller *model.User, draft Draft) (*model.Event, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to create events")
	}

	event := &model.Event{
		Name:                   strings.TrimSpace(draft.Name),
		Description:            draft.Description,
		Location:               draft.Location,
		CreatorID:              caller.ID,
		Discoverable:           draft.Discoverable,
		HostPermissionRequired: draft.HostPermissionRequired,
		Capacity:               draft.Capacity,
		StartTime:              draft.StartTime,
		EndTime:                draft.EndTime,
		IsActive:               true,
	}
	if err := validate(event); err != nil {
		return nil, err
	}

	if err := s.quotaGuard.CheckCreation(ctx, caller, event.Discoverable); err != nil {
		return nil, err
	}

	event.Slug = newSlug(event.Name)
	if err := s.repository.createWithCreator(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func newSlug(name string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	base := slug.Make(name)
	if base == "" {
		return suffix
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}

func validate(event *model.Event) error {
	if event.Name == "" {
		return errdef.NewFieldBadRequest("name", "name can't be empty")
	}
	if utf8.RuneCountInString(event.Description) > maxDescriptionLength {
		return errdef.NewFieldBadRequest("description", "description can't be longer than %d characters", maxDescriptionLength)
	}
	if event.Capacity != model.UnlimitedCapacity && event.Capacity < 1 {
		return errdef.NewFieldBadRequest("capacity", "capacity must be at least 1 or %d for unlimited", model.UnlimitedCapacity)
	}
	if !event.EndTime.After(event.StartTime) {
		return errdef.NewFieldBadRequest("endTime", "end time must be after start time")
	}
	return nil
}

// Changes to an event. Nil fields are left as they are.
type Changes struct {
	Name                   *string
	Description            *string
	Location               *string
	Discoverable           *bool
	HostPermissionRequired *bool
	Capacity               *int
	StartTime              *time.Time
	EndTime                *time.Time
	IsActive               *bool
}

// Update applies the changes on behalf of a manager of the event. Making a private event public
// counts against the quota of the event's creator. Turning off host permission lets everyone on
// the waiting list in.
func (s Service) Update(ctx context.Context, caller *model.User, id uint, changes Changes) (*model.Event, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to update events")
	}

	event, err := s.repository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, event.ID, model.RoleManager); err != nil {
		return nil, err
	}

	wasDiscoverable := event.Discoverable
	requiredPermission := event.HostPermissionRequired
	apply(event, changes)
	if err := validate(event); err != nil {
		return nil, err
	}

	if !wasDiscoverable && event.Discoverable {
		owner, err := s.userService.FindById(ctx, event.CreatorID)
		if err != nil {
			return nil, err
		}
		if err := s.quotaGuard.CheckVisibilitySwitch(ctx, owner, wasDiscoverable, event.Discoverable); err != nil {
			return nil, err
		}
	}

	if err := s.repository.update(ctx, event); err != nil {
		return nil, err
	}

	if requiredPermission && !event.HostPermissionRequired {
		if _, err := s.attendeeService.SetStatusForWaiting(ctx, event.ID, model.AttendeeGoing); err != nil {
			return nil, err
		}
	}

	return event, nil
}

func apply(event *model.Event, changes Changes) {
	if changes.Name != nil {
		event.Name = strings.TrimSpace(*changes.Name)
	}
	if changes.Description != nil {
		event.Description = *changes.Description
	}
	if changes.Location != nil {
		event.Location = *changes.Location
	}
	if changes.Discoverable != nil {
		event.Discoverable = *changes.Discoverable
	}
	if changes.HostPermissionRequired != nil {
		event.HostPermissionRequired = *changes.HostPermissionRequired
	}
	if changes.Capacity != nil {
		event.Capacity = *changes.Capacity
	}
	if changes.StartTime != nil {
		event.StartTime = *changes.StartTime
	}
	if changes.EndTime != nil {
		event.EndTime = *changes.EndTime
	}
	if changes.IsActive != nil {
		event.IsActive = *changes.IsActive
	}
}

// Delete soft deletes the event. Only its creator can delete it.
func (s Service) Delete(ctx context.Context, caller *model.User, id uint) error {
	if caller == nil {
		return errdef.NewUnauthorized("you need to sign in to delete events")
	}

	event, err := s.repository.FindById(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, event.ID, model.RoleCreator); err != nil {
		return err
	}

	return s.repository.softDelete(ctx, event.ID)
}

func (s Service) FindById(ctx context.Context, id uint) (*model.Event, error) {
	return s.repository.FindById(ctx, id)
}

func (s Service) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.repository.findBySlug(ctx, slug)
}

// FindHosted lists the events the user hosts in any role.
func (s Service) FindHosted(ctx context.Context, userID uint) ([]model.Event, error) {
	return s.repository.findHostedBy(ctx, userID)
}

// FindUpcoming lists the public events which are open for registration.
func (s Service) FindUpcoming(ctx context.Context) ([]model.Event, error) {
	return s.repository.findUpcoming(ctx)
}
