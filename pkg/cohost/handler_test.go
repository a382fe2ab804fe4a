package cohost

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Add(t *testing.T) {
	require.NoError(t, handler.RegisterValidation())
	user := &model.User{ID: 1}
	hostService := &mockHostService{}
	hostService.
		On("Add", user, uint(10), "cohost@example.com", model.RoleManager).
		Return(&model.Host{ID: 5, EventID: 10, UserID: 4, Role: model.RoleManager}, nil)
	h := NewHandler(hostService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.AddParam("id", "10")
	c.Request = newRequest(t, http.MethodPost, "/events/10/hosts", AddRequest{Email: "cohost@example.com", Role: "MANAGER"})

	h.Add(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var host model.Host
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &host))
	assert.Equal(t, model.RoleManager, host.Role)
	hostService.AssertExpectations(t)
}

func TestHandler_Add_InvalidRole(t *testing.T) {
	require.NoError(t, handler.RegisterValidation())
	hostService := &mockHostService{}
	h := NewHandler(hostService)

	for _, role := range []string{"CREATOR", "OWNER", ""} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user", &model.User{ID: 1})
		c.AddParam("id", "10")
		c.Request = newRequest(t, http.MethodPost, "/events/10/hosts", AddRequest{Email: "cohost@example.com", Role: role})

		h.Add(c)

		require.Len(t, c.Errors, 1, role)
		assert.True(t, errdef.IsBadRequest(c.Errors.Last()), role)
	}
	hostService.AssertNotCalled(t, "Add")
}

func TestHandler_Remove(t *testing.T) {
	user := &model.User{ID: 1}
	hostService := &mockHostService{}
	hostService.
		On("Remove", user, uint(10), uint(3)).
		Return(RemoveResult{Deleted: true}, nil)
	h := NewHandler(hostService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.AddParam("id", "10")
	c.AddParam("userId", "3")
	c.Request = newRequest(t, http.MethodDelete, "/events/10/hosts/3", nil)

	h.Remove(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.JSONEq(t, `{"deleted": true}`, recorder.Body.String())
}

func TestHandler_Remove_Failure(t *testing.T) {
	user := &model.User{ID: 1}
	hostService := &mockHostService{}
	hostService.
		On("Remove", user, uint(10), uint(1)).
		Return(RemoveResult{}, errdef.NewBadRequest("cannot remove self"))
	h := NewHandler(hostService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", user)
	c.AddParam("id", "10")
	c.AddParam("userId", "1")
	c.Request = newRequest(t, http.MethodDelete, "/events/10/hosts/1", nil)

	h.Remove(c)

	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors.Last().Err, "cannot remove self")
}

func TestHandler_Leave_Unauthenticated(t *testing.T) {
	hostService := &mockHostService{}
	h := NewHandler(hostService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.AddParam("id", "10")
	c.Request = newRequest(t, http.MethodPost, "/events/10/hosts/leave", nil)

	h.Leave(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsUnauthorized(c.Errors.Last()))
	hostService.AssertNotCalled(t, "Leave")
}

func newRequest(t *testing.T, method, path string, request any) *http.Request {
	var body bytes.Buffer
	if request != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(request))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type mockHostService struct{ mock.Mock }

func (m *mockHostService) Add(_ context.Context, caller *model.User, eventID uint, email string, role model.Role) (*model.Host, error) {
	called := m.Called(caller, eventID, email, role)
	host, _ := called.Get(0).(*model.Host)
	return host, called.Error(1)
}

func (m *mockHostService) Remove(_ context.Context, caller *model.User, eventID, targetID uint) (RemoveResult, error) {
	called := m.Called(caller, eventID, targetID)
	return called.Get(0).(RemoveResult), called.Error(1)
}

func (m *mockHostService) Leave(_ context.Context, user *model.User, eventID uint) error {
	return m.Called(user, eventID).Error(0)
}

func (m *mockHostService) FindByEvent(_ context.Context, caller *model.User, eventID uint) ([]model.Host, error) {
	called := m.Called(caller, eventID)
	hosts, _ := called.Get(0).([]model.Host)
	return hosts, called.Error(1)
}

func (m *mockHostService) FindByUser(_ context.Context, userID uint) ([]model.Host, error) {
	called := m.Called(userID)
	hosts, _ := called.Get(0).([]model.Host)
	return hosts, called.Error(1)
}
