// Package cohost decides what a user may do on an event based on the host role they hold.
package cohost

import (
	"context"
	"log/slog"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/rsvp-platform/event-manager/pkg/notification"

	"golang.org/x/exp/slices"
)

// Grantable lists the roles which can be given to a cohost. CREATOR is only assigned when the event
// is created.
var Grantable = []model.Role{model.RoleManager, model.RoleCelebrity, model.RoleReadOnly}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(logger *slog.Logger, repository hostRepository, eventService eventService, userService userService, notifier notifier) *Service {
	return &Service{
		logger:       logger,
		repository:   repository,
		eventService: eventService,
		userService:  userService,
		notifier:     notifier,
	}
}

type hostRepository interface {
	find(ctx context.Context, userID, eventID uint) (*model.Host, error)
	findDeleted(ctx context.Context, userID, eventID uint) (*model.Host, error)
	create(ctx context.Context, host *model.Host) error
	restore(ctx context.Context, host *model.Host, role model.Role) error
	softDelete(ctx context.Context, userID, eventID uint) (int64, error)
	findByEvent(ctx context.Context, eventID uint) ([]model.Host, error)
	findByUser(ctx context.Context, userID uint) ([]model.Host, error)
}

type eventService interface {
	FindById(ctx context.Context, id uint) (*model.Event, error)
}

type userService interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type notifier interface {
	Dispatch(ctx context.Context, n notification.Notification) error
}

type Service struct {
	logger       *slog.Logger
	repository   hostRepository
	eventService eventService
	userService  userService
	notifier     notifier
}

// ResolveRole returns the role the user holds on the event if it is one of the candidates. Any role
// is accepted if no candidates are given. The second return value is false if the user isn't
// hosting the event or holds a role that isn't a candidate.
func (s Service) ResolveRole(ctx context.Context, userID, eventID uint, candidates ...model.Role) (model.Role, bool, error) {
	host, err := s.repository.find(ctx, userID, eventID)
	if errdef.IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if len(candidates) > 0 && !slices.Contains(candidates, host.Role) {
		return "", false, nil
	}
	return host.Role, true, nil
}

// IsCohost reports whether the user holds any role on the event.
func (s Service) IsCohost(ctx context.Context, userID, eventID uint) (bool, error) {
	_, ok, err := s.ResolveRole(ctx, userID, eventID)
	return ok, err
}

// RequireRole returns a forbidden error unless the user holds a role on the event with at least
// the authority of minimum.
func (s Service) RequireRole(ctx context.Context, userID, eventID uint, minimum model.Role) (model.Role, error) {
	role, ok, err := s.ResolveRole(ctx, userID, eventID)
	if err != nil {
		return "", err
	}
	if !ok || !role.AtLeast(minimum) {
		return "", errdef.NewForbidden("you need to be at least %s of event %d", minimum, eventID)
	}
	return role, nil
}

// Add makes the user registered with email a cohost of the event. A previously removed cohost is
// restored with the new role.
func (s Service) Add(ctx context.Context, caller *model.User, eventID uint, email string, role model.Role) (*model.Host, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to add cohosts")
	}

	event, err := s.eventService.FindById(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if _, ok, err := s.ResolveRole(ctx, caller.ID, event.ID, model.RoleCreator, model.RoleManager); err != nil {
		return nil, err
	} else if !ok {
		return nil, errdef.NewForbidden("only the creator or a manager can add cohosts")
	}

	if !slices.Contains(Grantable, role) {
		return nil, errdef.NewFieldBadRequest("role", "role %q can't be granted", role)
	}

	invitee, err := s.userService.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !invitee.IsCompleted {
		return nil, errdef.NewBadRequest("user %q needs to complete their profile before becoming a cohost", invitee.Email)
	}

	if _, ok, err := s.ResolveRole(ctx, invitee.ID, event.ID); err != nil {
		return nil, err
	} else if ok {
		return nil, errdef.NewBadRequest("Host already exists")
	}

	host, err := s.restoreOrCreate(ctx, invitee.ID, event.ID, role)
	if err != nil {
		return nil, err
	}
	host.User = invitee

	n := notification.ForEvent(notification.KindCohostAdded, invitee.Email, event)
	n.Role = role
	if err := s.notifier.Dispatch(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "Failed to dispatch cohost notification", "error", err, "eventId", event.ID)
	}

	return host, nil
}

func (s Service) restoreOrCreate(ctx context.Context, userID, eventID uint, role model.Role) (*model.Host, error) {
	host, err := s.repository.findDeleted(ctx, userID, eventID)
	if err == nil {
		if err := s.repository.restore(ctx, host, role); err != nil {
			return nil, err
		}
		return host, nil
	}
	if !errdef.IsNotFound(err) {
		return nil, err
	}

	host = &model.Host{
		EventID: eventID,
		UserID:  userID,
		Role:    role,
	}
	if err := s.repository.create(ctx, host); err != nil {
		return nil, err
	}
	return host, nil
}

type RemoveResult struct {
	Deleted bool `json:"deleted"`
}

// Remove revokes the role of target on the event. The creator can't be removed and no one can
// remove themselves, use Leave instead.
func (s Service) Remove(ctx context.Context, caller *model.User, eventID, targetID uint) (RemoveResult, error) {
	if caller == nil {
		return RemoveResult{}, errdef.NewUnauthorized("you need to sign in to remove cohosts")
	}

	targetRole, _, err := s.ResolveRole(ctx, targetID, eventID)
	if err != nil {
		return RemoveResult{}, err
	}
	if targetRole == model.RoleCreator {
		return RemoveResult{}, errdef.NewBadRequest("cannot remove creator")
	}

	if caller.ID == targetID {
		return RemoveResult{}, errdef.NewBadRequest("cannot remove self")
	}

	if _, ok, err := s.ResolveRole(ctx, caller.ID, eventID, model.RoleCreator, model.RoleManager); err != nil {
		return RemoveResult{}, err
	} else if !ok {
		return RemoveResult{}, errdef.NewForbidden("only the creator or a manager can remove cohosts")
	}

	affected, err := s.repository.softDelete(ctx, targetID, eventID)
	if err != nil {
		return RemoveResult{}, err
	}
	if affected == 0 {
		return RemoveResult{}, errdef.NewBadRequest("removal failed")
	}

	return RemoveResult{Deleted: true}, nil
}

// Leave removes the user's own role on the event. The creator can't leave their event.
func (s Service) Leave(ctx context.Context, user *model.User, eventID uint) error {
	if user == nil {
		return errdef.NewUnauthorized("you need to sign in to leave an event")
	}
	role, ok, err := s.ResolveRole(ctx, user.ID, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return errdef.NewNotFound("you are not hosting event %d", eventID)
	}
	if role == model.RoleCreator {
		return errdef.NewBadRequest("the creator can't leave their event")
	}

	affected, err := s.repository.softDelete(ctx, user.ID, eventID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errdef.NewNotFound("you are not hosting event %d", eventID)
	}
	return nil
}

// FindByEvent lists the cohosts of the event. Only cohosts can see each other.
func (s Service) FindByEvent(ctx context.Context, caller *model.User, eventID uint) ([]model.Host, error) {
	if caller == nil {
		return nil, errdef.NewUnauthorized("you need to sign in to see the hosts")
	}
	if _, err := s.RequireRole(ctx, caller.ID, eventID, model.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.repository.findByEvent(ctx, eventID)
}

// FindByUser lists the host roles the user holds on events which aren't deleted.
func (s Service) FindByUser(ctx context.Context, userID uint) ([]model.Host, error) {
	return s.repository.findByUser(ctx, userID)
}
