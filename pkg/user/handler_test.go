package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Me(t *testing.T) {
	user := &model.User{ID: 123, Email: "guest@example.com"}
	h := NewHandler(&mockUserService{})

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)

	h.Me(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var got model.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, uint(123), got.ID)
}

func TestHandler_UpdateMe(t *testing.T) {
	user := &model.User{ID: 123, Email: "guest@example.com"}
	userService := &mockUserService{}
	userService.
		On("UpdateProfile", user, "Ada", "").
		Return(&model.User{ID: 123, Email: "guest@example.com", Name: "Ada", IsCompleted: true}, nil)
	h := NewHandler(userService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newRequest(t, http.MethodPut, "/me", UpdateProfileRequest{Name: "Ada"})

	h.UpdateMe(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	var got model.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.True(t, got.IsCompleted)
	userService.AssertExpectations(t)
}

func TestHandler_UpdateMe_MissingName(t *testing.T) {
	userService := &mockUserService{}
	h := NewHandler(userService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", &model.User{ID: 123})
	c.Request = newRequest(t, http.MethodPut, "/me", UpdateProfileRequest{Phone: "555"})

	h.UpdateMe(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
	userService.AssertNotCalled(t, "UpdateProfile")
}

func TestHandler_FindById_NotFound(t *testing.T) {
	userService := &mockUserService{}
	userService.
		On("FindById", uint(7)).
		Return(nil, errdef.NewNotFound("failed to find user with id %d", 7))
	h := NewHandler(userService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.AddParam("id", "7")
	c.Request = newRequest(t, http.MethodGet, "/users/7", nil)

	h.FindById(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsNotFound(c.Errors.Last()))
	userService.AssertExpectations(t)
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

type mockUserService struct{ mock.Mock }

func (m *mockUserService) FindById(_ context.Context, id uint) (*model.User, error) {
	called := m.Called(id)
	user, _ := called.Get(0).(*model.User)
	return user, called.Error(1)
}

func (m *mockUserService) UpdateProfile(_ context.Context, user *model.User, name, phone string) (*model.User, error) {
	called := m.Called(user, name, phone)
	updated, _ := called.Get(0).(*model.User)
	return updated, called.Error(1)
}
