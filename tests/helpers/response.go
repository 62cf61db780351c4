package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// AssertStatus verifies the HTTP status code
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// ParseJSON decodes the response body into the target
func ParseJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	defer resp.Body.Close()

	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode JSON: %v. Body: %s", err, string(body))
	}
}

// ErrorEnvelope is the error response shape shared by all endpoints.
type ErrorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Ok      bool   `json:"ok"`
	Type    string `json:"type"`
}

// AssertErrorEnvelope verifies the status code and the envelope fields
func AssertErrorEnvelope(t *testing.T, resp *http.Response, expected int) ErrorEnvelope {
	t.Helper()
	AssertStatus(t, resp, expected)

	var env ErrorEnvelope
	ParseJSON(t, resp, &env)
	if env.Ok {
		t.Errorf("Expected ok=false in error envelope, got true")
	}
	if env.Status != expected {
		t.Errorf("Expected envelope status %d, got %d", expected, env.Status)
	}
	return env
}
