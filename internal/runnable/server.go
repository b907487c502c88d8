package runnable

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	diffimage "ppmdiff/internal/diff/image"
	"ppmdiff/internal/env"
	"ppmdiff/internal/logging"
	"ppmdiff/internal/myhttp"
	"ppmdiff/internal/routes"
	"ppmdiff/internal/storage"
	"runtime"
	"syscall"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	pyroscopepprof "github.com/grafana/pyroscope-go/http/pprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/net/netutil"
	"golang.org/x/xerrors"
)

const applicationName = "ppmdiff-server"

type Server struct {
	address                string
	terminationGracePeriod time.Duration
	lameduck               time.Duration
	keepAlive              bool
	maxConnections         int
	maxUploadBytes         int64
	maxPreviewPixels       int
	pyroscopeEndpoint      string
	storageClient          storage.Storage
}

// NewServer reads its settings from the environment. storageClient may be
// nil, in which case diff images are only returned in the response.
func NewServer(storageClient storage.Storage) *Server {
	return &Server{
		address:                env.OrDefault("ADDRESS", "0.0.0.0:8383"),
		terminationGracePeriod: env.OrDefault("TERMINATION_GRACE_PERIOD", 10*time.Second),
		lameduck:               env.OrDefault("LAMEDUCK", 1*time.Second),
		keepAlive:              env.OrDefault("HTTP_KEEPALIVE", true),
		maxConnections:         env.OrDefault("MAX_CONNECTIONS", 65532),
		maxUploadBytes:         env.OrDefault("MAX_UPLOAD_BYTES", int64(32<<20)),
		maxPreviewPixels:       env.OrDefault("MAX_PREVIEW_PIXELS", 4096*4096),
		pyroscopeEndpoint:      env.OrDefault("PYROSCOPE_ENDPOINT", ""),
		storageClient:          storageClient,
	}
}

var Debug = false

// Start serves until SIGTERM or ctx is done, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	var profiler *pyroscope.Profiler
	if s.pyroscopeEndpoint != "" {
		runtime.SetMutexProfileFraction(1)
		runtime.SetBlockProfileRate(1)

		p, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: applicationName,
			ServerAddress:   s.pyroscopeEndpoint,
			UploadRate:      60 * time.Second,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
				pyroscope.ProfileMutexCount,
				pyroscope.ProfileMutexDuration,
				pyroscope.ProfileBlockCount,
				pyroscope.ProfileBlockDuration,
			},
		})
		if err != nil {
			return xerrors.Errorf("failed to create profiler: %w", err)
		}
		profiler = p
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})

	r, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(applicationName)),
	)
	if err != nil {
		return xerrors.Errorf("failed to create resource: %w", err)
	}
	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return xerrors.Errorf("failed to create trace exporter: %w", err)
	}
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(r),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(traceProvider))

	exporter, err := otelprometheus.New()
	if err != nil {
		return xerrors.Errorf("failed to create exporter: %w", err)
	}
	// NOTE: Gauge(UpDownCounter), Summary or Untyped does not support exemplars
	// https://github.com/prometheus/client_golang/blob/v1.20.4/prometheus/metric.go#L200
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)).Meter(applicationName)
	httpRequestsDurationMicroSeconds, err := meter.Int64Histogram("http_requests_duration_micro_seconds")
	if err != nil {
		return xerrors.Errorf("failed to create histogram: %w", err)
	}

	comparisons := routes.NewComparisonsCounter()
	if err := prometheus.DefaultRegisterer.Register(comparisons); err != nil {
		return xerrors.Errorf("failed to register comparisons counter: %w", err)
	}
	defer prometheus.DefaultRegisterer.Unregister(comparisons)

	logger, err := logging.New(os.Stderr, slog.LevelInfo, Debug)
	if err != nil {
		return err
	}

	mux := s.newMux(logger, httpRequestsDurationMicroSeconds, comparisons)

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return xerrors.Errorf("failed to listen on address %s: %w", s.address, err)
	}

	server := &http.Server{
		Handler: mux,
	}
	server.SetKeepAlivesEnabled(s.keepAlive)

	go func() {
		if err := server.Serve(netutil.LimitListener(listener, s.maxConnections)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve HTTP", "error", err)
		}
	}()
	logger.Info("listening", "address", listener.Addr().String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	time.Sleep(s.lameduck)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.terminationGracePeriod)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return xerrors.Errorf("failed to shutdown server: %w", err)
	}

	if err := traceProvider.Shutdown(ctx); err != nil {
		return xerrors.Errorf("failed to shutdown trace provider: %w", err)
	}

	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			return xerrors.Errorf("failed to shutdown profiler: %w", err)
		}
	}

	return nil
}

func (s *Server) newMux(logger *slog.Logger, httpRequestsDurationMicroSeconds metric.Int64Histogram, comparisons *prometheus.CounterVec) http.Handler {
	mux := myhttp.NewServerMux(logger, httpRequestsDurationMicroSeconds)

	mux.HandleFuncWithMiddleware("POST /diff", routes.Diff(routes.DiffConfig{
		Differ:           diffimage.NewPixelDiff(),
		Storage:          s.storageClient,
		Comparisons:      comparisons,
		MaxUploadBytes:   s.maxUploadBytes,
		MaxPreviewPixels: s.maxPreviewPixels,
	}))
	if s.storageClient != nil {
		mux.HandleFuncWithMiddleware("GET /artifacts/{hash}/{timestamp}/{name}", routes.GetArtifact(s.storageClient))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
	})

	mux.Handle("GET /metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}),
	))

	if Debug {
		mux.HandleFunc("GET /debug/pprof/", pprof.Index)
		mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
		mux.HandleFunc("GET /debug/pprof/profile", pyroscopepprof.Profile)
	}

	return mux
}
