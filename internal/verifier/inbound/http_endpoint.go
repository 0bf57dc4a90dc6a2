package inbound

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/verifier/usecase"
)

// HTTPEndpoint exposes the TOTP verification handler.
type HTTPEndpoint struct {
	uc uc
}

// Verify validates a submitted TOTP code for a user.
//
// The response body is exactly {"ok":true} or {"ok":false,"error":"..."}:
// 200 for a completed check (either outcome), 400 for missing input, 404 for
// an unenrolled user, 500 when the secret backend is unreachable.
func (h *HTTPEndpoint) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := (&router.Request{Request: r}).DecodeBody(&req); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		UserID: req.UserID,
		Code:   req.Code,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.write(w, r, VerifyResponse{OK: resp.OK}, http.StatusOK)
}

func (h *HTTPEndpoint) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		code = gerr.StatusCode()
		msg = gerr.Msg()
	}

	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}

	h.write(w, r, VerifyResponse{OK: false, Error: msg}, code)
}

func (h *HTTPEndpoint) write(w http.ResponseWriter, r *http.Request, resp VerifyResponse, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode verify response", "error", err)
	}
}
