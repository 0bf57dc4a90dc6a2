package tests

import (
	"encoding/json"
	"testing"
)

const e2eEmail = "e2e-vault@example.com"

func TestVaultInvoke(t *testing.T) {

	t.Run("IsAvailable", func(t *testing.T) {
		status, body := invokeVault(t, "isAvailable")

		if status != 200 {
			t.Fatalf("isAvailable failed: status=%d body=%s", status, body)
		}

		out := decodeInvoke(t, body)

		var available bool
		if err := json.Unmarshal(out.Result, &available); err != nil {
			t.Fatalf("expected boolean result, got %s", out.Result)
		}

		if !available {
			t.Skip("secure store unavailable on this host; skipping vault round trip")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		requireAvailable(t)

		// store
		if status, body := invokeVault(t, "store", e2eEmail, "hunter2"); status != 200 {
			t.Fatalf("store failed: status=%d body=%s", status, body)
		}

		// has
		status, body := invokeVault(t, "has", e2eEmail)
		if status != 200 {
			t.Fatalf("has failed: status=%d body=%s", status, body)
		}
		if result := string(decodeInvoke(t, body).Result); result != "true" {
			t.Fatalf("expected has=true, got %s", result)
		}

		// getEmails includes it
		status, body = invokeVault(t, "getEmails")
		if status != 200 {
			t.Fatalf("getEmails failed: status=%d body=%s", status, body)
		}
		var emails []string
		if err := json.Unmarshal(decodeInvoke(t, body).Result, &emails); err != nil {
			t.Fatalf("expected string list, got %s", body)
		}
		found := false
		for _, email := range emails {
			if email == e2eEmail {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s in %v", e2eEmail, emails)
		}

		// delete, twice: idempotent
		for range 2 {
			if status, body := invokeVault(t, "delete", e2eEmail); status != 200 {
				t.Fatalf("delete failed: status=%d body=%s", status, body)
			}
		}

		// gone
		status, body = invokeVault(t, "get", e2eEmail)
		if status != 404 {
			t.Fatalf("expected 404 after delete, got %d: %s", status, body)
		}
		if out := decodeInvoke(t, body); out.Error == nil || out.Error.Code != "not_found" {
			t.Fatalf("expected not_found error, got %s", body)
		}
	})

	t.Run("UnknownOp", func(t *testing.T) {
		status, body := invokeVault(t, "unlockEverything")

		if status != 400 {
			t.Fatalf("expected 400 for unknown op, got %d: %s", status, body)
		}
		if out := decodeInvoke(t, body); out.Error == nil || out.Error.Code != "invalid_request" {
			t.Fatalf("expected invalid_request error, got %s", body)
		}
	})

	t.Run("WrongArity", func(t *testing.T) {
		status, body := invokeVault(t, "store", e2eEmail)

		if status != 400 {
			t.Fatalf("expected 400 for wrong arity, got %d: %s", status, body)
		}
	})
}

func requireAvailable(t *testing.T) {
	t.Helper()

	status, body := invokeVault(t, "isAvailable")
	if status != 200 {
		t.Fatalf("isAvailable failed: status=%d body=%s", status, body)
	}

	if string(decodeInvoke(t, body).Result) != "true" {
		t.Skip("secure store unavailable on this host; skipping vault round trip")
	}
}
