package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kavelabs/kavela/internal/pkg/goerror"
	"github.com/kavelabs/kavela/internal/pkg/instrument"
	"github.com/kavelabs/kavela/internal/verifier/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DB is the read-only repository for enrolled TOTP secrets.
type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verifier.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetEnrolledSecret returns the TOTP seed enrolled for userID. A user without
// a row maps to goerror.ErrNotFound.
func (s *DB) GetEnrolledSecret(ctx context.Context, userID string) (_ *entity.EnrolledSecret, err error) {
	ctx, span := s.startSpan(ctx, "GetEnrolledSecret")
	defer func() { s.endSpan(span, err) }()

	const query = `SELECT user_id, secret FROM enrolled_secrets WHERE user_id = $1`

	var out entity.EnrolledSecret
	err = s.conn.QueryRow(ctx, query, userID).Scan(&out.UserID, &out.Secret)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}
