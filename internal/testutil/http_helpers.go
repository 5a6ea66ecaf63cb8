package testutil

import (
	"encoding/json"
	"net/http/httptest"
)

// T is the subset of testing.TB used by the helpers.
type T interface {
	Helper()
	Errorf(format string, args ...interface{})
	FailNow()
}

// ReadJSONResponse checks the status code and unmarshals the JSON body of a ResponseRecorder.
func ReadJSONResponse(t T, w *httptest.ResponseRecorder, wantStatus int, v interface{}) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("expected status %d, got %d", wantStatus, w.Code)
		t.FailNow()
	}

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Errorf("failed to decode JSON response: %v", err)
		t.FailNow()
	}
}

// ReadErrorResponse decodes a JSON error envelope from a ResponseRecorder.
func ReadErrorResponse(t T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Errorf("failed to decode error response: %v", err)
		t.FailNow()
	}
	return response
}
