package slogx

import (
	"context"
	"log/slog"

	"github.com/nabdaotp/dashboard/pkg/idx"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithRequestID tags the context logger with reqID and records the id on the
// context so outbound calls can forward it.
func WithRequestID(ctx context.Context, reqID idx.ID) context.Context {
	l := FromContext(ctx)
	ctx = idx.WithRequestID(ctx, reqID)
	return WithContext(ctx, l.With("req_id", reqID.String()))
}
