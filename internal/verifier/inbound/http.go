package inbound

import (
	"context"
	"net/http"

	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/verifier/usecase"
)

type uc interface {
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Raw registration: the verify contract is a bare {"ok":...} body, not
	// the standard success envelope.
	r.POSTRaw("/api/v1/totp/verify", http.HandlerFunc(end.Verify))
}
