package inbound

import (
	"context"
	"net/http"

	"github.com/kavelabs/kavela/internal/pkg/router"
	"github.com/kavelabs/kavela/internal/vault/usecase"
)

type uc interface {
	IsAvailable(ctx context.Context) bool
	Store(ctx context.Context, in usecase.StoreInput) error
	Get(ctx context.Context, in usecase.GetInput) (*usecase.GetOutput, error)
	GetEmails(ctx context.Context) (*usecase.GetEmailsOutput, error)
	Has(ctx context.Context, in usecase.HasInput) (*usecase.HasOutput, error)
	Delete(ctx context.Context, in usecase.DeleteInput) error
	PromptHello(ctx context.Context, in usecase.PromptHelloInput) (*usecase.PromptHelloOutput, error)
}

// RegisterHTTPEndpoint mounts the vault dispatch endpoint. The router serves
// a unix domain socket only; the vault is never network-reachable.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Raw registration: the invoke contract is {result}/{error}, not the
	// standard success envelope.
	r.POSTRaw("/invoke", http.HandlerFunc(end.Invoke))
}
