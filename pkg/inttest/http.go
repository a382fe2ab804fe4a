package inttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rsvp-platform/event-manager/internal/handler"
	"github.com/rsvp-platform/event-manager/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// SetupHTTPServer starts an HTTP server with the engine of the service. Routes are registered by f
// on the root router group. The returned client sends requests to the server.
func SetupHTTPServer(t *testing.T, f func(router *gin.RouterGroup)) *HTTPClient {
	t.Helper()

	require.NoError(t, handler.RegisterValidation(), "failed to register validation")
	gin.SetMode(gin.TestMode)

	engine, router := server.GetEngine(slog.New(slog.NewTextHandler(io.Discard, nil)), "", "")
	f(router)

	srv := httptest.NewServer(engine.Handler())
	client := srv.Client()
	t.Cleanup(func() {
		client.CloseIdleConnections()
		srv.Close()
	})

	return &HTTPClient{Client: client, ServerURL: srv.URL}
}

// HTTPClient sends JSON requests the way the handlers expect them and fails the test on any
// unexpected response.
type HTTPClient struct {
	Client    *http.Client
	ServerURL string
}

// WithAuthToken authenticates the request with given bearer token.
func WithAuthToken(token string) func(http.Header) {
	return func(header http.Header) {
		header.Set("Authorization", "Bearer "+token)
	}
}

// GetJSON expects 200 OK and decodes the response into response.
func (hc *HTTPClient) GetJSON(t *testing.T, path string, response any, headers ...func(http.Header)) {
	t.Helper()
	hc.DoJSON(t, http.MethodGet, path, nil, http.StatusOK, response, headers...)
}

// PostJSON expects 201 Created and decodes the response into response.
func (hc *HTTPClient) PostJSON(t *testing.T, path string, request, response any, headers ...func(http.Header)) {
	t.Helper()
	hc.DoJSON(t, http.MethodPost, path, request, http.StatusCreated, response, headers...)
}

// Delete expects 202 Accepted.
func (hc *HTTPClient) Delete(t *testing.T, path string, headers ...func(http.Header)) []byte {
	t.Helper()
	return hc.Do(t, http.MethodDelete, path, nil, http.StatusAccepted, headers...)
}

// DoJSON is Do decoding the response into response.
func (hc *HTTPClient) DoJSON(t *testing.T, method, path string, request any, wantStatus int, response any, headers ...func(http.Header)) {
	t.Helper()

	body := hc.Do(t, method, path, request, wantStatus, headers...)
	require.NoError(t, json.Unmarshal(body, response), "%s %q: failed to decode response %s", method, path, body)
}

// Do sends request encoded as JSON unless it's nil. The test fails if the response status isn't
// wantStatus. The response body is returned.
func (hc *HTTPClient) Do(t *testing.T, method, path string, request any, wantStatus int, headers ...func(http.Header)) []byte {
	t.Helper()

	var body io.Reader
	if request != nil {
		encoded, err := json.Marshal(request)
		require.NoError(t, err, "%s %q: failed to encode request", method, path)
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, hc.ServerURL+path, body)
	require.NoError(t, err, "%s %q: failed to create request", method, path)
	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, header := range headers {
		header(req.Header)
	}

	res, err := hc.Client.Do(req)
	require.NoError(t, err, "%s %q: request failed", method, path)
	defer func() {
		require.NoError(t, res.Body.Close(), "%s %q: failed to close response body", method, path)
	}()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "%s %q: failed to read response body", method, path)
	require.Equal(t, wantStatus, res.StatusCode, fmt.Sprintf("%s %q: unexpected status, body: %s", method, path, responseBody))
	return responseBody
}
