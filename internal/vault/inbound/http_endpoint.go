package inbound

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/vault/usecase"
)

// HTTPEndpoint exposes the vault operations as a single dispatch handler.
type HTTPEndpoint struct {
	uc uc
}

// Invoke dispatches one vault operation named in the body with positional
// arguments, answering {"result":...} or {"error":{"code","message"}}.
func (h *HTTPEndpoint) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := (&router.Request{Request: r}).DecodeBody(&req); err != nil {
		h.writeError(w, r, CodeInvalidRequest, err)
		return
	}

	result, err := h.dispatch(r, req)
	if err != nil {
		h.writeError(w, r, failureCode(req.Op, err), err)
		return
	}

	h.write(w, r, InvokeResponse{Result: result}, http.StatusOK)
}

func (h *HTTPEndpoint) dispatch(r *http.Request, req InvokeRequest) (any, error) {
	ctx := r.Context()

	if err := checkArity(req); err != nil {
		return nil, err
	}

	switch req.Op {
	case OpIsAvailable:
		return h.uc.IsAvailable(ctx), nil

	case OpStore:
		return true, h.uc.Store(ctx, usecase.StoreInput{Email: req.Args[0], Password: req.Args[1]})

	case OpGet:
		out, err := h.uc.Get(ctx, usecase.GetInput{Email: req.Args[0]})
		if err != nil {
			return nil, err
		}
		return out.Credential.Password, nil

	case OpGetEmails:
		out, err := h.uc.GetEmails(ctx)
		if err != nil {
			return nil, err
		}
		return out.Emails, nil

	case OpHas:
		out, err := h.uc.Has(ctx, usecase.HasInput{Email: req.Args[0]})
		if err != nil {
			return nil, err
		}
		return out.Exists, nil

	case OpDelete:
		return true, h.uc.Delete(ctx, usecase.DeleteInput{Email: req.Args[0]})

	case OpPromptHello:
		out, err := h.uc.PromptHello(ctx, usecase.PromptHelloInput{Email: req.Args[0]})
		if err != nil {
			return nil, err
		}
		return out.Confirmed, nil

	default:
		return nil, goerror.NewInvalidFormat(fmt.Sprintf("unknown operation %q", req.Op))
	}
}

func checkArity(req InvokeRequest) error {
	want, ok := map[string]int{
		OpIsAvailable: 0,
		OpStore:       2,
		OpGet:         1,
		OpGetEmails:   0,
		OpHas:         1,
		OpDelete:      1,
		OpPromptHello: 1,
	}[req.Op]
	if !ok {
		return nil // unknown op is reported by dispatch
	}

	if len(req.Args) != want {
		return goerror.NewInvalidFormat(fmt.Sprintf("operation %q takes %d argument(s), got %d", req.Op, want, len(req.Args)))
	}
	return nil
}

// failureCode folds an operation error into the closed wire code set. A
// backend fault surfaces as write_error or read_error depending on what the
// operation was doing.
func failureCode(op string, err error) string {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		return CodeReadError
	}

	switch gerr.Code() {
	case goerror.CodeNotFound:
		return CodeNotFound
	case goerror.CodeUnavailable:
		return CodeVaultUnavailable
	case goerror.CodeUnauthorized:
		return CodeAuthDenied
	case goerror.CodeInvalidInput, goerror.CodeInvalidFormat:
		return CodeInvalidRequest
	default:
		if op == OpStore || op == OpDelete {
			return CodeWriteError
		}
		return CodeReadError
	}
}

func (h *HTTPEndpoint) writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		status = gerr.StatusCode()
		msg = gerr.Msg()
	}

	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}

	h.write(w, r, InvokeErrorResponse{Error: InvokeError{Code: code, Message: msg}}, status)
}

func (h *HTTPEndpoint) write(w http.ResponseWriter, r *http.Request, resp any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode invoke response", "error", err)
	}
}
