package cohost

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"
	"github.com/rsvp-platform/event-manager/pkg/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const eventID = uint(10)

var (
	creator = &model.User{ID: 1, Email: "creator@example.com", IsCompleted: true}
	manager = &model.User{ID: 2, Email: "manager@example.com", IsCompleted: true}
	reader  = &model.User{ID: 3, Email: "reader@example.com", IsCompleted: true}
	invitee = &model.User{ID: 4, Email: "invitee@example.com", IsCompleted: true}
)

func newTestService(t *testing.T, hosts ...model.Host) (*Service, *fakeRepository, *mockNotifier) {
	t.Helper()

	repository := &fakeRepository{hosts: hosts}
	events := &mockEventService{}
	events.On("FindById", eventID).Return(&model.Event{ID: eventID, Name: "Launch", Slug: "launch"}, nil).Maybe()
	events.On("FindById", mock.Anything).Return(nil, errdef.NewNotFound("event not found")).Maybe()
	users := &mockUserService{}
	for _, u := range []*model.User{creator, manager, reader, invitee} {
		users.On("FindByEmail", u.Email).Return(u, nil).Maybe()
	}
	users.On("FindByEmail", mock.Anything).Return(nil, errdef.NewNotFound("user not found")).Maybe()
	notifier := &mockNotifier{}
	notifier.On("Dispatch", mock.Anything).Return(nil).Maybe()

	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repository, events, users, notifier), repository, notifier
}

func defaultHosts() []model.Host {
	return []model.Host{
		{ID: 1, EventID: eventID, UserID: creator.ID, Role: model.RoleCreator},
		{ID: 2, EventID: eventID, UserID: manager.ID, Role: model.RoleManager},
		{ID: 3, EventID: eventID, UserID: reader.ID, Role: model.RoleReadOnly},
	}
}

func TestService_ResolveRole(t *testing.T) {
	service, _, _ := newTestService(t, defaultHosts()...)
	ctx := context.Background()

	role, ok, err := service.ResolveRole(ctx, manager.ID, eventID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.RoleManager, role)

	_, ok, err = service.ResolveRole(ctx, reader.ID, eventID, model.RoleCreator, model.RoleManager)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = service.ResolveRole(ctx, invitee.ID, eventID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_RequireRole(t *testing.T) {
	service, _, _ := newTestService(t, defaultHosts()...)
	ctx := context.Background()

	_, err := service.RequireRole(ctx, creator.ID, eventID, model.RoleManager)
	assert.NoError(t, err)

	_, err = service.RequireRole(ctx, reader.ID, eventID, model.RoleManager)
	assert.True(t, errdef.IsForbidden(err))

	_, err = service.RequireRole(ctx, invitee.ID, eventID, model.RoleReadOnly)
	assert.True(t, errdef.IsForbidden(err))
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("ManagerAddsCohost", func(t *testing.T) {
		service, repository, notifier := newTestService(t, defaultHosts()...)

		host, err := service.Add(ctx, manager, eventID, invitee.Email, model.RoleCelebrity)

		require.NoError(t, err)
		assert.Equal(t, model.RoleCelebrity, host.Role)
		assert.Len(t, repository.active(eventID), 4)
		notifier.AssertCalled(t, "Dispatch", mock.MatchedBy(func(n notification.Notification) bool {
			return n.Kind == notification.KindCohostAdded && n.Email == invitee.Email && n.Role == model.RoleCelebrity
		}))
	})

	t.Run("RestoresRemovedCohost", func(t *testing.T) {
		hosts := append(defaultHosts(), model.Host{ID: 9, EventID: eventID, UserID: invitee.ID, Role: model.RoleReadOnly, IsDeleted: true})
		service, repository, _ := newTestService(t, hosts...)

		host, err := service.Add(ctx, creator, eventID, invitee.Email, model.RoleManager)

		require.NoError(t, err)
		assert.Equal(t, uint(9), host.ID)
		assert.Equal(t, model.RoleManager, host.Role)
		assert.Len(t, repository.hosts, 4)
	})

	t.Run("NotificationFailureIsIgnored", func(t *testing.T) {
		repository := &fakeRepository{hosts: defaultHosts()}
		events := &mockEventService{}
		events.On("FindById", eventID).Return(&model.Event{ID: eventID}, nil)
		users := &mockUserService{}
		users.On("FindByEmail", invitee.Email).Return(invitee, nil)
		notifier := &mockNotifier{}
		notifier.On("Dispatch", mock.Anything).Return(errors.New("broker down"))
		service := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repository, events, users, notifier)

		_, err := service.Add(ctx, creator, eventID, invitee.Email, model.RoleReadOnly)

		assert.NoError(t, err)
	})

	failures := map[string]struct {
		caller *model.User
		event  uint
		email  string
		role   model.Role
		check  func(error) bool
	}{
		"Unauthenticated": {caller: nil, event: eventID, email: invitee.Email, role: model.RoleManager, check: errdef.IsUnauthorized},
		"EventNotFound":   {caller: creator, event: 99, email: invitee.Email, role: model.RoleManager, check: errdef.IsNotFound},
		"ReadOnlyCaller":  {caller: reader, event: eventID, email: invitee.Email, role: model.RoleManager, check: errdef.IsForbidden},
		"NotHostCaller":   {caller: invitee, event: eventID, email: reader.Email, role: model.RoleManager, check: errdef.IsForbidden},
		"CreatorRole":     {caller: creator, event: eventID, email: invitee.Email, role: model.RoleCreator, check: errdef.IsBadRequest},
		"UnknownEmail":    {caller: creator, event: eventID, email: "nobody@example.com", role: model.RoleManager, check: errdef.IsNotFound},
		"AlreadyHost":     {caller: creator, event: eventID, email: reader.Email, role: model.RoleManager, check: errdef.IsBadRequest},
	}
	for name, test := range failures {
		t.Run(name, func(t *testing.T) {
			service, repository, _ := newTestService(t, defaultHosts()...)

			_, err := service.Add(ctx, test.caller, test.event, test.email, test.role)

			require.Error(t, err)
			assert.True(t, test.check(err), "unexpected error %v", err)
			assert.Len(t, repository.hosts, 3)
		})
	}

	t.Run("IncompleteProfile", func(t *testing.T) {
		repository := &fakeRepository{hosts: defaultHosts()}
		events := &mockEventService{}
		events.On("FindById", eventID).Return(&model.Event{ID: eventID}, nil)
		users := &mockUserService{}
		users.On("FindByEmail", "invited@example.com").Return(&model.User{ID: 5, Email: "invited@example.com"}, nil)
		service := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repository, events, users, &mockNotifier{})

		_, err := service.Add(ctx, creator, eventID, "invited@example.com", model.RoleManager)

		assert.True(t, errdef.IsBadRequest(err))
		assert.ErrorContains(t, err, "complete their profile")
	})

	t.Run("AlreadyHostMessage", func(t *testing.T) {
		service, _, _ := newTestService(t, defaultHosts()...)

		_, err := service.Add(ctx, creator, eventID, manager.Email, model.RoleReadOnly)

		assert.EqualError(t, err, "Host already exists")
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("ManagerRemovesReader", func(t *testing.T) {
		service, repository, _ := newTestService(t, defaultHosts()...)

		result, err := service.Remove(ctx, manager, eventID, reader.ID)

		require.NoError(t, err)
		assert.True(t, result.Deleted)
		assert.Len(t, repository.active(eventID), 2)
	})

	t.Run("CreatorCantBeRemoved", func(t *testing.T) {
		for _, caller := range []*model.User{creator, manager, reader} {
			service, _, _ := newTestService(t, defaultHosts()...)

			_, err := service.Remove(ctx, caller, eventID, creator.ID)

			assert.EqualError(t, err, "cannot remove creator")
		}
	})

	t.Run("CantRemoveSelf", func(t *testing.T) {
		service, _, _ := newTestService(t, defaultHosts()...)

		_, err := service.Remove(ctx, manager, eventID, manager.ID)

		assert.EqualError(t, err, "cannot remove self")
	})

	t.Run("ReadOnlyCallerIsForbidden", func(t *testing.T) {
		service, repository, _ := newTestService(t, defaultHosts()...)

		_, err := service.Remove(ctx, reader, eventID, manager.ID)

		assert.True(t, errdef.IsForbidden(err))
		assert.Len(t, repository.active(eventID), 3)
	})

	t.Run("NonCohostTargetFailsCoarsely", func(t *testing.T) {
		service, _, _ := newTestService(t, defaultHosts()...)

		_, err := service.Remove(ctx, creator, eventID, invitee.ID)

		assert.True(t, errdef.IsBadRequest(err))
		assert.EqualError(t, err, "removal failed")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		service, _, _ := newTestService(t, defaultHosts()...)

		_, err := service.Remove(ctx, nil, eventID, reader.ID)

		assert.True(t, errdef.IsUnauthorized(err))
	})
}

func TestService_Leave(t *testing.T) {
	ctx := context.Background()

	service, repository, _ := newTestService(t, defaultHosts()...)
	require.NoError(t, service.Leave(ctx, reader, eventID))
	assert.Len(t, repository.active(eventID), 2)

	err := service.Leave(ctx, reader, eventID)
	assert.True(t, errdef.IsNotFound(err))

	err = service.Leave(ctx, creator, eventID)
	assert.True(t, errdef.IsBadRequest(err))

	err = service.Leave(ctx, nil, eventID)
	assert.True(t, errdef.IsUnauthorized(err))
}

func TestService_FindByEvent(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(t, defaultHosts()...)

	hosts, err := service.FindByEvent(ctx, reader, eventID)
	require.NoError(t, err)
	assert.Len(t, hosts, 3)

	_, err = service.FindByEvent(ctx, invitee, eventID)
	assert.True(t, errdef.IsForbidden(err))

	_, err = service.FindByEvent(ctx, nil, eventID)
	assert.True(t, errdef.IsUnauthorized(err))
}

// fakeRepository keeps host rows in memory and mimics the soft delete semantics of the gorm
// repository.
type fakeRepository struct {
	hosts []model.Host
}

func (f *fakeRepository) active(eventID uint) []model.Host {
	var hosts []model.Host
	for _, h := range f.hosts {
		if h.EventID == eventID && !h.IsDeleted {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func (f *fakeRepository) find(_ context.Context, userID, eventID uint) (*model.Host, error) {
	for i := range f.hosts {
		h := f.hosts[i]
		if h.UserID == userID && h.EventID == eventID && !h.IsDeleted {
			return &h, nil
		}
	}
	return nil, errdef.NewNotFound("user %d is not hosting event %d", userID, eventID)
}

func (f *fakeRepository) findDeleted(_ context.Context, userID, eventID uint) (*model.Host, error) {
	for i := range f.hosts {
		h := f.hosts[i]
		if h.UserID == userID && h.EventID == eventID && h.IsDeleted {
			return &h, nil
		}
	}
	return nil, errdef.NewNotFound("no removed host")
}

func (f *fakeRepository) create(_ context.Context, host *model.Host) error {
	host.ID = uint(len(f.hosts) + 100)
	f.hosts = append(f.hosts, *host)
	return nil
}

func (f *fakeRepository) restore(_ context.Context, host *model.Host, role model.Role) error {
	for i := range f.hosts {
		if f.hosts[i].ID == host.ID {
			f.hosts[i].IsDeleted = false
			f.hosts[i].Role = role
		}
	}
	host.IsDeleted = false
	host.Role = role
	return nil
}

func (f *fakeRepository) softDelete(_ context.Context, userID, eventID uint) (int64, error) {
	var affected int64
	for i := range f.hosts {
		h := &f.hosts[i]
		if h.UserID == userID && h.EventID == eventID && !h.IsDeleted {
			h.IsDeleted = true
			affected++
		}
	}
	return affected, nil
}

func (f *fakeRepository) findByEvent(_ context.Context, eventID uint) ([]model.Host, error) {
	return f.active(eventID), nil
}

func (f *fakeRepository) findByUser(_ context.Context, userID uint) ([]model.Host, error) {
	var hosts []model.Host
	for _, h := range f.hosts {
		if h.UserID == userID && !h.IsDeleted {
			hosts = append(hosts, h)
		}
	}
	return hosts, nil
}

type mockEventService struct{ mock.Mock }

func (m *mockEventService) FindById(_ context.Context, id uint) (*model.Event, error) {
	called := m.Called(id)
	event, _ := called.Get(0).(*model.Event)
	return event, called.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) FindByEmail(_ context.Context, email string) (*model.User, error) {
	called := m.Called(email)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Dispatch(_ context.Context, n notification.Notification) error {
	return m.Called(n).Error(0)
}
