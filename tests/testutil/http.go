package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContext is the outcome of a request served by a test engine
type TestContext struct {
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// envelope mirrors the fields of the API response the assertions look at
type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// PerformRequest serves a request through engine. A non-nil body is sent as JSON.
func PerformRequest(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *TestContext {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return &TestContext{Recorder: w, Engine: engine}
}

// JSONResponseAs decodes the whole response body into T
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &result), "Failed to parse JSON response: %s", tc.Recorder.Body.String())
	return result
}

func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponseAs[envelope](t, tc)
	assert.True(t, resp.Success, "Expected success to be true")
	assert.Nil(t, resp.Error, "Expected no error")
}

// AssertErrorResponse checks the envelope reports a failure with code
func AssertErrorResponse(t *testing.T, tc *TestContext, code string) {
	t.Helper()

	resp := JSONResponseAs[envelope](t, tc)
	assert.False(t, resp.Success, "Expected success to be false")
	require.NotNil(t, resp.Error, "Expected error object in response")
	assert.Equal(t, code, resp.Error.Code, "Unexpected error code")
}
