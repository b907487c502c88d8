package myhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type myRouter struct {
	*http.ServeMux
	logger                           *slog.Logger
	httpRequestsDurationMicroSeconds metric.Int64Histogram
}

func (m *myRouter) HandleWithMiddleware(pattern string, handler http.Handler) {
	m.ServeMux.Handle(pattern, m.middleware(pattern, handler))
}

func (m *myRouter) HandleFuncWithMiddleware(pattern string, handler http.HandlerFunc) {
	m.ServeMux.Handle(pattern, m.middleware(pattern, handler))
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	if s.status == 0 {
		s.status = status
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

func (m *myRouter) middleware(pattern string, next http.Handler) http.Handler {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		span := trace.SpanFromContext(r.Context())
		state := &requestState{
			logger: m.logger.With(
				slog.String("traceid", span.SpanContext().TraceID().String()),
				slog.String("spanid", span.SpanContext().SpanID().String()),
			),
		}
		r = r.WithContext(withRequestState(r.Context(), state))
		recorder := &statusRecorder{ResponseWriter: w}

		pyroscope.TagWrapper(r.Context(), pyroscope.Labels("handler", pattern), func(ctx context.Context) {
			now := time.Now()
			defer func() {
				if err := recover(); err != nil {
					state.logger.Error(fmt.Sprint(err), "stack", string(debug.Stack()))
					if recorder.status == 0 {
						http.Error(recorder, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					}
				}

				if err := r.Context().Err(); errors.Is(err, context.Canceled) {
					state.logger.Debug("client closed connection")
				}

				attributes := []attribute.KeyValue{
					attribute.Key("method").String(r.Method),
					attribute.Key("handler").String(pattern),
					attribute.Key("code").String(strconv.Itoa(recorder.code())),
				}
				if state.result != "" {
					attributes = append(attributes, attribute.Key("result").String(state.result))
				}
				elapsed := time.Since(now)
				m.httpRequestsDurationMicroSeconds.Record(ctx, elapsed.Microseconds(), metric.WithAttributes(attributes...))
				state.logger.Debug("handled request", "handler", pattern, "code", recorder.code(), "result", state.result, "elapsed", elapsed)
			}()

			next.ServeHTTP(recorder, r)
		})
	})

	return otelhttp.NewHandler(handler, pattern, otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("%s %s", r.Method, operation)
	}), otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
		return []attribute.KeyValue{}
	}))
}
