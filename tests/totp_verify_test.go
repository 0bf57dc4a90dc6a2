package tests

import (
	"encoding/json"
	"testing"
)

// The verify endpoint's wire shape is exactly {"ok":...} with an optional
// error string; these tests assert status codes and shape, not outcomes that
// depend on seeded secrets.
type verifyResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func decodeVerify(t *testing.T, body []byte) verifyResponse {
	t.Helper()

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("failed to decode verify response %q: %v", body, err)
	}

	return out
}

func TestTOTPVerify(t *testing.T) {

	t.Run("MissingInput", func(t *testing.T) {
		status, body := verifyHTTP(t, map[string]string{"user_id": "e2e-user"})

		if status != 400 {
			t.Fatalf("expected 400 for missing code, got %d: %s", status, body)
		}

		resp := decodeVerify(t, body)
		if resp.OK || resp.Error == "" {
			t.Fatalf("expected ok=false with an error, got %+v", resp)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		status, body := verifyHTTP(t, json.RawMessage(`{"user_id":`))

		if status != 400 {
			t.Fatalf("expected 400 for malformed body, got %d: %s", status, body)
		}
	})

	t.Run("UnenrolledUser", func(t *testing.T) {
		status, body := verifyHTTP(t, map[string]string{
			"user_id": "e2e-nobody-ever-enrolled",
			"code":    "000000",
		})

		if status != 404 {
			t.Fatalf("expected 404 for unenrolled user, got %d: %s", status, body)
		}

		resp := decodeVerify(t, body)
		if resp.OK {
			t.Fatalf("expected ok=false for unenrolled user, got %+v", resp)
		}
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			status, body := doJSON(t, httpClient, realBaseURL, method, "/api/v1/totp/verify", nil)

			if status != 405 {
				t.Fatalf("expected 405 for %s, got %d: %s", method, status, body)
			}
		}
	})
}
