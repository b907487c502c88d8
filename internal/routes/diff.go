package routes

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"
	"net/http"
	diffimage "ppmdiff/internal/diff/image"
	"ppmdiff/internal/myhttp"
	"ppmdiff/internal/ppm"
	"ppmdiff/internal/storage"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/xerrors"
)

const (
	DigitalKey = "diffimage_digital.ppm"
	AnalogKey  = "diffimage_analog.ppm"
)

const tracerName = "ppmdiff/routes"

const (
	resultIdentical      = "identical"
	resultDifferent      = "different"
	resultHeaderMismatch = "header_mismatch"
	resultInvalid        = "invalid"
	resultTooLarge       = "too_large"
)

type DiffResponse struct {
	Format          string                 `json:"format"`
	Digital         string                 `json:"digital"`
	Analog          string                 `json:"analog"`
	DigitalPath     string                 `json:"digitalPath,omitempty"`
	AnalogPath      string                 `json:"analogPath,omitempty"`
	DifferenceFound bool                   `json:"differenceFound"`
	DiffAmount      float64                `json:"diffAmount"`
	Diagnostics     []diffimage.Diagnostic `json:"diagnostics"`
}

type DiffConfig struct {
	Differ         diffimage.Differ
	Comparisons    *prometheus.CounterVec
	MaxUploadBytes int64

	// Storage is optional; when set both diff images are stored as well
	Storage storage.Storage

	// MaxPreviewPixels caps the size of png previews; zero means no cap
	MaxPreviewPixels int
}

func NewComparisonsCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ppmdiff_comparisons_total",
		Help: "Number of image comparisons by result.",
	}, []string{"result"})
}

func Diff(c DiffConfig) http.HandlerFunc {
	tracer := otel.Tracer(tracerName)

	return func(w http.ResponseWriter, r *http.Request) {
		logger := myhttp.Logger(r.Context())

		if err := r.ParseMultipartForm(c.MaxUploadBytes); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		format := r.FormValue("format")
		if format == "" {
			format = "ppm"
		}
		if format != "ppm" && format != "png" {
			http.Error(w, fmt.Sprintf("unknown format: %s", format), http.StatusBadRequest)
			return
		}

		baselineData, err := readFormFile(r, "baseline")
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		targetData, err := readFormFile(r, "target")
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		ctx, span := tracer.Start(r.Context(), "decode")
		baseline, target, err := decodePair(baselineData, targetData)
		if err != nil {
			span.RecordError(err)
			span.End()

			if isDecodeError(err) {
				logger.InfoContext(ctx, "invalid image", "error", err)
				c.count(r, resultInvalid)
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			logger.ErrorContext(ctx, "failed to decode image", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		span.End()

		c.handleImages(w, r, baseline, target, baselineData, targetData, format)
	}
}

func decodePair(baselineData []byte, targetData []byte) (*ppm.Image, *ppm.Image, error) {
	baseline, err := ppm.Decode(bytes.NewReader(baselineData))
	if err != nil {
		return nil, nil, err
	}
	target, err := ppm.Decode(bytes.NewReader(targetData))
	if err != nil {
		return nil, nil, err
	}
	return baseline, target, nil
}

func (c DiffConfig) handleImages(w http.ResponseWriter, r *http.Request, baseline *ppm.Image, target *ppm.Image, baselineData []byte, targetData []byte, format string) {
	logger := myhttp.Logger(r.Context())

	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "diff")
	result, err := diffimage.Compare(c.Differ, baseline, target)
	if err != nil {
		span.RecordError(err)
		span.End()
		c.count(r, resultHeaderMismatch)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	span.SetAttributes(
		attribute.Bool("difference_found", result.DifferenceFound),
		attribute.Int("differing_pixels", len(result.Diagnostics)),
	)
	span.End()

	if format == "png" {
		if err := checkPreviewSize(result.DigitalImage, c.MaxPreviewPixels); err != nil {
			logger.InfoContext(ctx, "preview rejected", "error", err)
			c.count(r, resultTooLarge)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	if result.DifferenceFound {
		c.count(r, resultDifferent)
	} else {
		c.count(r, resultIdentical)
	}

	response := DiffResponse{
		Format:          format,
		DifferenceFound: result.DifferenceFound,
		DiffAmount:      result.DiffAmount,
		Diagnostics:     result.Diagnostics,
	}
	if response.Diagnostics == nil {
		response.Diagnostics = []diffimage.Diagnostic{}
	}

	if c.Storage != nil {
		h := sha256.New()
		h.Write(baselineData)
		h.Write(targetData)
		hash := fmt.Sprintf("%x", h.Sum(nil))[:16]
		timestamp := time.Now().Format("20060102150405")

		urls, err := storage.PutAll(ctx, c.Storage, []string{
			fmt.Sprintf("diff/%s/%s/%s", hash, timestamp, DigitalKey),
			fmt.Sprintf("diff/%s/%s/%s", hash, timestamp, AnalogKey),
		}, [][]byte{result.Digital, result.Analog})
		if err != nil {
			logger.Error("failed to store diff images", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		response.DigitalPath = urls[0]
		response.AnalogPath = urls[1]
	}

	digital, err := encodeOutput(result.DigitalImage, result.Digital, format)
	if err != nil {
		logger.Error("failed to encode digital diff image", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	analog, err := encodeOutput(result.AnalogImage, result.Analog, format)
	if err != nil {
		logger.Error("failed to encode analog diff image", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	response.Digital = base64.StdEncoding.EncodeToString(digital)
	response.Analog = base64.StdEncoding.EncodeToString(analog)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func (c DiffConfig) count(r *http.Request, result string) {
	myhttp.SetResult(r.Context(), result)
	if c.Comparisons != nil {
		c.Comparisons.WithLabelValues(result).Inc()
	}
}

func readFormFile(r *http.Request, key string) ([]byte, error) {
	file, _, err := r.FormFile(key)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// encodeOutput returns text as is for ppm and renders img for png.
func encodeOutput(img *ppm.Image, text []byte, format string) ([]byte, error) {
	if format != "png" {
		return text, nil
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img.RGBA()); err != nil {
		return nil, xerrors.Errorf("failed to encode png: %w", err)
	}
	return buffer.Bytes(), nil
}

// checkPreviewSize bounds the RGBA allocation by the pixels actually
// compared, since the declared header size is not checked while decoding.
func checkPreviewSize(img *ppm.Image, maxPixels int) error {
	width, height := img.Header.Width, img.Header.Height
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return xerrors.Errorf("preview too large: %dx%d", width, height)
	}

	n := width * height
	if n > len(img.Pixels) {
		return xerrors.Errorf("preview needs %d pixels, only %d compared", n, len(img.Pixels))
	}
	if maxPixels > 0 && n > maxPixels {
		return xerrors.Errorf("preview too large: %d pixels exceed the limit of %d", n, maxPixels)
	}
	return nil
}

func isDecodeError(err error) bool {
	var headerErr *ppm.InvalidHeaderFormatError
	var partialErr *ppm.PartialPixelError
	var malformedErr *ppm.MalformedPixelError
	return errors.As(err, &headerErr) || errors.As(err, &partialErr) || errors.As(err, &malformedErr)
}
