package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kavelabs/kavela/internal/pkg/config"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/pkg/uid"
	"github.com/kavelabs/kavela/internal/verifier/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUC struct{}

func (stubUC) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	if in.UserID == "" || in.Code == "" {
		return nil, goerror.NewInvalidInput(errors.New("missing input"))
	}

	switch in.UserID {
	case "missing":
		return nil, goerror.NewBusiness("user is not enrolled", goerror.CodeNotFound)
	case "boom":
		return nil, goerror.NewServer(errors.New("connection refused"))
	}

	return &usecase.VerifyOutput{OK: in.Code == "287082"}, nil
}

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
instrument:
  log_mask_fields: "password,code"
`))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
		Name:       "http",
	})
	RegisterHTTPEndpoint(r, stubUC{})

	return r
}

func TestVerifyEndpoint(t *testing.T) {
	r := newTestRouter(t)

	do := func(t *testing.T, method, body string) (*httptest.ResponseRecorder, VerifyResponse) {
		t.Helper()

		req := httptest.NewRequest(method, "/api/v1/totp/verify", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		var resp VerifyResponse
		if rec.Body.Len() > 0 {
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		}
		return rec, resp
	}

	t.Run("CorrectCode", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":"user-1","code":"287082"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, resp.OK)
		assert.Empty(t, resp.Error)
	})

	t.Run("WrongCode", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":"user-1","code":"000000"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, resp.OK)
		assert.Empty(t, resp.Error)
	})

	t.Run("MissingInput", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":"user-1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.OK)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, resp.OK)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("UnenrolledUser", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":"missing","code":"287082"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, resp.OK)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		rec, resp := do(t, http.MethodPost, `{"user_id":"boom","code":"287082"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.False(t, resp.OK)
		assert.Equal(t, "Internal server error", resp.Error)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			rec, _ := do(t, method, "")
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		}
	})
}
