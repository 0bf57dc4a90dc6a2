// Package tests holds end-to-end tests that exercise a running kavela
// instance over its real surfaces: the network HTTP server and the vault
// unix domain socket. Start the server first; the suite refuses
// to run against nothing.
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

var (
	realBaseURL string
	vaultSocket string
	httpClient  = &http.Client{Timeout: 5 * time.Second}
	vaultClient *http.Client
)

func TestMain(m *testing.M) {
	realBaseURL = strings.TrimSpace(os.Getenv("KAVELA_REAL_BASE_URL"))
	if realBaseURL == "" {
		realBaseURL = "http://localhost:8080"
	}

	vaultSocket = strings.TrimSpace(os.Getenv("KAVELA_VAULT_SOCKET"))
	if vaultSocket == "" {
		vaultSocket = "/tmp/kavela-vault.sock"
	}

	vaultClient = &http.Client{
		Timeout: 60 * time.Second, // a presence ceremony can take a while
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", vaultSocket)
			},
		},
	}

	healthURL := strings.TrimRight(realBaseURL, "/") + "/health"
	resp, err := httpClient.Get(healthURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "real tests require a running server. failed to reach %s: %v\n", healthURL, err)
		os.Exit(1)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		fmt.Fprintf(os.Stderr, "real tests require a healthy server. %s returned %s\n", healthURL, resp.Status)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func doJSON(t *testing.T, client *http.Client, base, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case json.RawMessage:
		// Sent verbatim; tests use this for deliberately broken bodies.
		body = bytes.NewReader(p)
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return resp.StatusCode, raw
}

// verifyHTTP posts to the network verify endpoint.
func verifyHTTP(t *testing.T, payload any) (int, []byte) {
	t.Helper()

	return doJSON(t, httpClient, realBaseURL, "POST", "/api/v1/totp/verify", payload)
}

// invokeVault dispatches one vault operation over the unix socket. The host
// in the URL is a placeholder; the transport dials the socket.
func invokeVault(t *testing.T, op string, args ...string) (int, []byte) {
	t.Helper()

	if args == nil {
		args = []string{}
	}

	return doJSON(t, vaultClient, "http://vault", "POST", "/invoke", map[string]any{
		"op":   op,
		"args": args,
	})
}

type invokeResult struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeInvoke(t *testing.T, body []byte) invokeResult {
	t.Helper()

	var out invokeResult
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("failed to decode invoke response %q: %v", body, err)
	}

	return out
}
