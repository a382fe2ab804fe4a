package attendee

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rsvp-platform/event-manager/internal/errdef"
	"github.com/rsvp-platform/event-manager/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandler_Register(t *testing.T) {
	user := &model.User{ID: 1}
	attendeeService := &mockAttendeeService{}
	attendeeService.
		On("Register", user, uint(10)).
		Return(&model.Attendee{ID: 3, EventID: 10, UserID: 1, Status: model.AttendeeGoing, AllowedStatus: true}, nil)
	h := NewHandler(attendeeService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.AddParam("id", "10")
	c.Request = newRequest(t, http.MethodPost, "/events/10/attendees", nil)

	h.Register(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	var attendee model.Attendee
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &attendee))
	assert.Equal(t, model.AttendeeGoing, attendee.Status)
	attendeeService.AssertExpectations(t)
}

func TestHandler_Register_InvalidEventId(t *testing.T) {
	attendeeService := &mockAttendeeService{}
	h := NewHandler(attendeeService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", &model.User{ID: 1})
	c.AddParam("id", "abc")
	c.Request = newRequest(t, http.MethodPost, "/events/abc/attendees", nil)

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	attendeeService.AssertNotCalled(t, "Register")
}

func TestHandler_SetAllowedStatus(t *testing.T) {
	user := &model.User{ID: 1}
	attendeeService := &mockAttendeeService{}
	attendeeService.
		On("SetAllowedStatus", user, uint(3), false).
		Return(&model.Attendee{ID: 3, Status: model.AttendeeWaiting}, nil)
	h := NewHandler(attendeeService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.AddParam("id", "3")
	c.Request = newRequest(t, http.MethodPut, "/attendees/3/allowed-status", map[string]any{"allowed": false})

	h.SetAllowedStatus(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	attendeeService.AssertExpectations(t)
}

func TestHandler_SetAllowedStatus_MissingAllowed(t *testing.T) {
	attendeeService := &mockAttendeeService{}
	h := NewHandler(attendeeService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", &model.User{ID: 1})
	c.AddParam("id", "3")
	c.Request = newRequest(t, http.MethodPut, "/attendees/3/allowed-status", map[string]any{})

	h.SetAllowedStatus(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
	attendeeService.AssertNotCalled(t, "SetAllowedStatus")
}

func TestHandler_CheckIn(t *testing.T) {
	user := &model.User{ID: 1}
	token := uuid.New()
	attendeeService := &mockAttendeeService{}
	attendeeService.
		On("VerifyCheckIn", user, token).
		Return(&model.Attendee{ID: 3, QRToken: token, HasAttended: true}, nil)
	h := NewHandler(attendeeService)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.Request = newRequest(t, http.MethodPost, "/check-ins", CheckInRequest{QRToken: token.String()})

	h.CheckIn(c)

	require.Empty(t, c.Errors)
	assert.Equal(t, http.StatusOK, recorder.Code)
	attendeeService.AssertExpectations(t)
}

func TestHandler_CheckIn_InvalidToken(t *testing.T) {
	attendeeService := &mockAttendeeService{}
	h := NewHandler(attendeeService)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user", &model.User{ID: 1})
	c.Request = newRequest(t, http.MethodPost, "/check-ins", CheckInRequest{QRToken: "not-a-token"})

	h.CheckIn(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsBadRequest(c.Errors.Last()))
	attendeeService.AssertNotCalled(t, "VerifyCheckIn")
}

func TestHandler_StreamCheckIns(t *testing.T) {
	user := &model.User{ID: 1}
	checkIns := make(chan CheckIn, 1)
	checkIns <- CheckIn{AttendeeID: 3, EventID: 10, UserID: 7, CheckInTime: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
	close(checkIns)
	unsubscribed := false
	attendeeService := &mockAttendeeService{}
	attendeeService.
		On("SubscribeCheckIns", user, uint(10)).
		Return((<-chan CheckIn)(checkIns), func() { unsubscribed = true }, nil)
	h := NewHandler(attendeeService)

	recorder := newCloseNotifyingRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set("user", user)
	c.AddParam("id", "10")
	c.Request = newRequest(t, http.MethodGet, "/events/10/check-ins/stream", nil)

	h.StreamCheckIns(c)

	require.Empty(t, c.Errors)
	assert.True(t, unsubscribed)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/event-stream")
	body := recorder.Body.String()
	assert.Contains(t, body, "event:check-in")
	assert.Contains(t, body, "id:3")
	assert.Contains(t, body, `"attendeeId":3`)
}

func TestHandler_StreamCheckIns_Forbidden(t *testing.T) {
	user := &model.User{ID: 1}
	attendeeService := &mockAttendeeService{}
	attendeeService.
		On("SubscribeCheckIns", user, uint(10)).
		Return(nil, nil, errdef.NewForbidden("you need to be at least MANAGER of event 10"))
	h := NewHandler(attendeeService)

	c, _ := gin.CreateTestContext(newCloseNotifyingRecorder())
	c.Set("user", user)
	c.AddParam("id", "10")
	c.Request = newRequest(t, http.MethodGet, "/events/10/check-ins/stream", nil)

	h.StreamCheckIns(c)

	require.Len(t, c.Errors, 1)
	assert.True(t, errdef.IsForbidden(c.Errors.Last()))
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

// closeNotifyingRecorder satisfies the http.CloseNotifier gin's streaming expects.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyingRecorder() *closeNotifyingRecorder {
	return &closeNotifyingRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyingRecorder) CloseNotify() <-chan bool {
	return c.closed
}

type mockAttendeeService struct{ mock.Mock }

func (m *mockAttendeeService) Register(_ context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	called := m.Called(user, eventID)
	attendee, _ := called.Get(0).(*model.Attendee)
	return attendee, called.Error(1)
}

func (m *mockAttendeeService) Cancel(_ context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	called := m.Called(user, eventID)
	attendee, _ := called.Get(0).(*model.Attendee)
	return attendee, called.Error(1)
}

func (m *mockAttendeeService) SetAllowedStatus(_ context.Context, caller *model.User, attendeeID uint, allowed bool) (*model.Attendee, error) {
	called := m.Called(caller, attendeeID, allowed)
	attendee, _ := called.Get(0).(*model.Attendee)
	return attendee, called.Error(1)
}

func (m *mockAttendeeService) ApproveWaiting(_ context.Context, caller *model.User, eventID uint) (ApproveWaitingResult, error) {
	called := m.Called(caller, eventID)
	return called.Get(0).(ApproveWaitingResult), called.Error(1)
}

func (m *mockAttendeeService) VerifyCheckIn(_ context.Context, caller *model.User, token uuid.UUID) (*model.Attendee, error) {
	called := m.Called(caller, token)
	attendee, _ := called.Get(0).(*model.Attendee)
	return attendee, called.Error(1)
}

func (m *mockAttendeeService) SubscribeCheckIns(_ context.Context, caller *model.User, eventID uint) (<-chan CheckIn, func(), error) {
	called := m.Called(caller, eventID)
	checkIns, _ := called.Get(0).(<-chan CheckIn)
	unsubscribe, _ := called.Get(1).(func())
	return checkIns, unsubscribe, called.Error(2)
}

func (m *mockAttendeeService) FindMine(_ context.Context, user *model.User, eventID uint) (*model.Attendee, error) {
	called := m.Called(user, eventID)
	attendee, _ := called.Get(0).(*model.Attendee)
	return attendee, called.Error(1)
}

func (m *mockAttendeeService) FindByUser(_ context.Context, userID uint) ([]model.Attendee, error) {
	called := m.Called(userID)
	attendees, _ := called.Get(0).([]model.Attendee)
	return attendees, called.Error(1)
}

func (m *mockAttendeeService) FindByEvent(_ context.Context, caller *model.User, eventID uint) ([]model.Attendee, error) {
	called := m.Called(caller, eventID)
	attendees, _ := called.Get(0).([]model.Attendee)
	return attendees, called.Error(1)
}

func (m *mockAttendeeService) CountGoing(_ context.Context, eventID uint) (int64, error) {
	called := m.Called(eventID)
	return called.Get(0).(int64), called.Error(1)
}
