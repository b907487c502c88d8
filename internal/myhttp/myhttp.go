package myhttp

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
)

func newServerMux(logger *slog.Logger, httpRequestsDurationMicroSeconds metric.Int64Histogram) *myRouter {
	return &myRouter{
		ServeMux:                         http.NewServeMux(),
		logger:                           logger,
		httpRequestsDurationMicroSeconds: httpRequestsDurationMicroSeconds,
	}
}

var NewServerMux = newServerMux

// requestState is installed by the middleware for the lifetime of a request.
// Only the handler goroutine touches it.
type requestState struct {
	logger *slog.Logger
	result string
}

type requestStateContextKey struct{}

func withRequestState(ctx context.Context, state *requestState) context.Context {
	return context.WithValue(ctx, requestStateContextKey{}, state)
}

// Logger returns the request scoped logger installed by the middleware, or
// the default logger outside of a request.
func Logger(ctx context.Context) *slog.Logger {
	if state, ok := ctx.Value(requestStateContextKey{}).(*requestState); ok {
		return state.logger
	}
	return slog.Default()
}

// SetResult labels the request duration with the outcome of the handler,
// e.g. whether a comparison found differences. Outside of the middleware it
// is a no-op.
func SetResult(ctx context.Context, result string) {
	if state, ok := ctx.Value(requestStateContextKey{}).(*requestState); ok {
		state.result = result
	}
}
