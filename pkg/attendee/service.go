// Package attendee implements the registration lifecycle of an attendee: registration with or
// without host approval, cancellation and restoration, approval by hosts and check-in at the door.
//
// A registration is GOING, WAITING or CANCELLED. Only GOING registrations count against the
// capacity of an event, and every transition into GOING which is subject to capacity goes through
// the atomic admit of the repository.
package attendee

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/rsvp-platform/event-manager/pkg/notification"

	"github.com/google/uuid"
)

// ErrAlreadyRegistered is wrapped by the bad request returned when the user already holds a
// registration for the event.
var ErrAlreadyRegistered = errors.New("already registered")

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository attendeeRepository, eventService eventService, hostService hostService, notifier notifier, broker *Broker) *Service {
	return &Service{
		logger:       logger,
		repository:   repository,
		eventService: eventService,
		hostService:  hostService,
		notifier:     notifier,
		broker:       broker,
		now:          time.Now,
	}
}

type attendeeRepository interface {
	findById(ctx context.Context, id uint) (*model.Attendee, error)
	findByQRToken(ctx context.Context, token uuid.UUID) (*model.Attendee, error)
	findByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.Attendee, error)
	findLatestCancelled(ctx context.Context, userID, eventID uint) (*model.Attendee, error)
	create(ctx context.Context, attendee *model.Attendee) error
	setStatus(ctx context.Context, attendee *model.Attendee) error
	checkIn(ctx context.Context, attendee *model.Attendee) error
	admit(ctx context.Context, attendee *model.Attendee, capacity int, restored bool) (bool, error)
	updateWaiting(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error)
	cancel(ctx context.Context, attendee *model.Attendee) error
	restore(ctx context.Context, attendee *model.Attendee) error
	countByStatus(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error)
	findByEvent(ctx context.Context, eventID uint) ([]model.Attendee, error)
	findByUser(ctx context.Context, userID uint) ([]model.Attendee, error)
}

type eventService interface {
	FindById(ctx context.Context, id uint) (*model.Event, error)
}

type hostService interface {
	RequireRole(ctx context.Context, userID, eventID uint, minimum model.Role) (model.Role, error)
}

type notifier interface {
	Dispatch(ctx context.Context, n notification.Notification) error
}

type Service struct {
	logger       *slog.Logger
	repository   attendeeRepository
	eventService eventService
	hostService  hostService
	notifier     notifier
	broker       *Broker
	now          func() time.Time
}

// Enrollment is the outcome of enrolling a user. Restored is set if a cancelled registration was
// reinstated instead of creating a new one.
type Enrollment struct {
	Attendee *model.Attendee
	Restored bool
}

// Register signs the user up for the event. Events requiring host permission put the attendee on
// the waiting list until a host approves them.
func (s Service) Register(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	if user == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to register")
	}

	event, err := s.eventService.FindById(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.CheckOpen(event); err != nil {
		return nil, err
	}

	enrollment, err := s.Enroll(ctx, user, event)
	if err != nil {
		return nil, err
	}

	kind := notification.KindRegistered
	if enrollment.Attendee.Status == model.AttendeeWaiting {
		kind = notification.KindWaitlisted
	}
	s.notify(ctx, kind, user.Email, event)

	return enrollment.Attendee, nil
}

// CheckOpen returns a bad request unless the event is active and hasn't ended.
func (s Service) CheckOpen(event *model.Event) error {
	if !event.IsActive {
		return errdef.NewBadRequest("event %q is not active", event.Name)
	}
	if event.HasEnded(s.now()) {
		return errdef.NewBadRequest("event has ended")
	}
	return nil
}

// Enroll creates or restores the registration of the user for an event the caller already found
// to be open. The registration is GOING unless the event requires host permission, in which case
// it's WAITING. Capacity is checked in both modes.
func (s Service) Enroll(ctx context.Context, user *model.User, event *model.Event) (Enrollment, error) {
	_, err := s.repository.findByUserAndEvent(ctx, user.ID, event.ID)
	if err == nil {
		return Enrollment{}, errdef.NewBadRequest("%w: user %q is already registered for event %q", ErrAlreadyRegistered, user.Email, event.Name)
	}
	if !errdef.IsNotFound(err) {
		return Enrollment{}, err
	}

	status, allowed := model.AttendeeGoing, true
	if event.HostPermissionRequired {
		status, allowed = model.AttendeeWaiting, false
	}

	attendee, err := s.repository.findLatestCancelled(ctx, user.ID, event.ID)
	restored := err == nil
	if err != nil && !errdef.IsNotFound(err) {
		return Enrollment{}, err
	}
	if !restored {
		attendee = &model.Attendee{
			EventID: event.ID,
			UserID:  user.ID,
			QRToken: uuid.New(),
		}
	}
	attendee.Status = status
	attendee.AllowedStatus = allowed

	if err := s.store(ctx, event, attendee, restored); err != nil {
		return Enrollment{}, err
	}

	return Enrollment{Attendee: attendee, Restored: restored}, nil
}

func (s Service) store(ctx context.Context, event *model.Event, attendee *model.Attendee, restored bool) error {
	if event.IsUnlimited() {
		return s.write(ctx, attendee, restored)
	}

	if attendee.Status != model.AttendeeGoing {
		going, err := s.repository.countByStatus(ctx, event.ID, model.AttendeeGoing)
		if err != nil {
			return err
		}
		if going >= int64(event.Capacity) {
			return errFullCapacity()
		}
		return s.write(ctx, attendee, restored)
	}

	admitted, err := s.repository.admit(ctx, attendee, event.Capacity, restored)
	if err != nil {
		return err
	}
	if !admitted {
		return errFullCapacity()
	}
	return nil
}

func (s Service) write(ctx context.Context, attendee *model.Attendee, restored bool) error {
	if restored {
		return s.repository.restore(ctx, attendee)
	}
	return s.repository.create(ctx, attendee)
}

func errFullCapacity() error {
	return errdef.NewBadRequest("event is at full capacity")
}

// Cancel withdraws the registration of the user. Registrations are frozen once the event ended.
func (s Service) Cancel(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	if user == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to cancel a registration")
	}

	event, err := s.eventService.FindById(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasEnded(s.now()) {
		return nil, errdef.NewNotFound("event has ended")
	}

	attendee, err := s.repository.findByUserAndEvent(ctx, user.ID, event.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repository.cancel(ctx, attendee); err != nil {
		return nil, err
	}

	s.notify(ctx, notification.KindCancelled, user.Email, event)

	return attendee, nil
}

// SetAllowedStatus lets a host approve or reject an attendee. Approving moves the attendee to
// GOING if there's room, rejecting moves them to WAITING.
func (s Service) SetAllowedStatus(ctx context.Context, caller *model.User, attendeeID uint, allowed bool) (*model.Attendee, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to approve attendees")
	}

	attendee, err := s.repository.findById(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, attendee.EventID, model.RoleManager); err != nil {
		return nil, err
	}

	if !allowed {
		attendee.Status = model.AttendeeWaiting
		attendee.AllowedStatus = false
		if err := s.repository.setStatus(ctx, attendee); err != nil {
			return nil, err
		}
		return attendee, nil
	}

	if attendee.Status == model.AttendeeGoing && attendee.AllowedStatus {
		return attendee, nil
	}

	event, err := s.eventService.FindById(ctx, attendee.EventID)
	if err != nil {
		return nil, err
	}

	attendee.Status = model.AttendeeGoing
	attendee.AllowedStatus = true
	if err := s.approve(ctx, event, attendee); err != nil {
		return nil, err
	}

	if attendee.User != nil {
		s.notify(ctx, notification.KindApproved, attendee.User.Email, event)
	}

	return attendee, nil
}

func (s Service) approve(ctx context.Context, event *model.Event, attendee *model.Attendee) error {
	if event.IsUnlimited() {
		return s.repository.setStatus(ctx, attendee)
	}
	admitted, err := s.repository.admit(ctx, attendee, event.Capacity, false)
	if err != nil {
		return err
	}
	if !admitted {
		return errFullCapacity()
	}
	return nil
}

// SetStatusForWaiting moves every waiting attendee of the event to status in one update without
// checking capacity. It returns the number of attendees moved.
func (s Service) SetStatusForWaiting(ctx context.Context, eventID uint, status model.AttendeeStatus) (int64, error) {
	if status != model.AttendeeGoing {
		return 0, errdef.NewFieldBadRequest("status", "waiting attendees can only be moved to %s", model.AttendeeGoing)
	}
	return s.repository.updateWaiting(ctx, eventID, status)
}

type ApproveWaitingResult struct {
	Approved int64 `json:"approved"`
}

// ApproveWaiting is the host facing variant of SetStatusForWaiting.
func (s Service) ApproveWaiting(ctx context.Context, caller *model.User, eventID uint) (ApproveWaitingResult, error) {
	if caller == nil {
		return ApproveWaitingResult{}, errdef.NewUnauthorized("you need to sign in to approve attendees")
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, eventID, model.RoleManager); err != nil {
		return ApproveWaitingResult{}, err
	}

	approved, err := s.SetStatusForWaiting(ctx, eventID, model.AttendeeGoing)
	if err != nil {
		return ApproveWaitingResult{}, err
	}
	return ApproveWaitingResult{Approved: approved}, nil
}

// VerifyCheckIn checks in the attendee holding the ticket. Check-in opens one hour before the
// event starts and closes when it ends. Verifying a ticket again refreshes the check-in time.
func (s Service) VerifyCheckIn(ctx context.Context, caller *model.User, token uuid.UUID) (*model.Attendee, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to check in attendees")
	}

	attendee, err := s.repository.findByQRToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, attendee.EventID, model.RoleManager); err != nil {
		return nil, err
	}

	event, err := s.eventService.FindById(ctx, attendee.EventID)
	if err != nil {
		return nil, err
	}

	if !attendee.AllowedStatus {
		return nil, errdef.NewForbidden("attendee %d isn't allowed to attend", attendee.ID)
	}

	now := s.now()
	if now.Before(event.StartTime.Add(-time.Hour)) {
		return nil, errdef.NewBadRequest("check-in opens one hour before the event starts")
	}
	if now.After(event.EndTime) {
		return nil, errdef.NewBadRequest("event has ended")
	}

	attendee.HasAttended = true
	attendee.CheckInTime = &now
	if err := s.repository.checkIn(ctx, attendee); err != nil {
		return nil, err
	}

	if s.broker != nil {
		s.broker.Publish(CheckIn{
			AttendeeID:  attendee.ID,
			EventID:     attendee.EventID,
			UserID:      attendee.UserID,
			CheckInTime: now,
		})
	}

	return attendee, nil
}

// SubscribeCheckIns subscribes the caller to the check-ins of the event. The returned function
// ends the subscription.
func (s Service) SubscribeCheckIns(ctx context.Context, caller *model.User, eventID uint) (<-chan CheckIn, func(), error) {
	if caller == nil {
		return nil, nil, errdef.NewUnauthorized("you need to sign in to follow check-ins")
	}

	if _, err := s.hostService.RequireRole(ctx, caller.ID, eventID, model.RoleManager); err != nil {
		return nil, nil, err
	}

	id, checkIns := s.broker.Subscribe(eventID)
	return checkIns, func() { s.broker.Unsubscribe(eventID, id) }, nil
}

// FindMine returns the registration, including the ticket, of the user for the event.
func (s Service) FindMine(ctx context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	if user == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to see your registration")
	}
	return s.repository.findByUserAndEvent(ctx, user.ID, eventID)
}

// FindByUser lists the registrations of the user for events which aren't deleted.
func (s Service) FindByUser(ctx context.Context, userID uint) ([]model.Attendee, error) {
	return s.repository.findByUser(ctx, userID)
}

// FindByEvent lists the attendees of the event. Any cohost can see them.
func (s Service) FindByEvent(ctx context.Context, caller *model.User, eventID uint) ([]model.Attendee, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to see the attendees")
	}
	if _, err := s.hostService.RequireRole(ctx, caller.ID, eventID, model.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.repository.findByEvent(ctx, eventID)
}

func (s Service) CountGoing(ctx context.Context, eventID uint) (int64, error) {
	return s.repository.countByStatus(ctx, eventID, model.AttendeeGoing)
}

func (s Service) notify(ctx context.Context, kind notification.Kind, email string, event *model.Event) {
	if err := s.notifier.Dispatch(ctx, notification.ForEvent(kind, email, event)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to dispatch notification", "error", err, "kind", kind, "eventId", event.ID)
	}
}
