package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	diffimage "ppmdiff/internal/diff/image"
	"ppmdiff/internal/env"
	"ppmdiff/internal/logging"
	"ppmdiff/internal/ppm"
	"ppmdiff/internal/storage"
)

const (
	defaultProgName = "ppmdiff"

	digitalKey = "diffimage_digital.ppm"
	analogKey  = "diffimage_analog.ppm"
)

type DiffOutput struct {
	DigitalPath     string  `json:"digitalPath"`
	AnalogPath      string  `json:"analogPath"`
	DifferenceFound bool    `json:"differenceFound"`
	DiffAmount      float64 `json:"diffAmount"`
	DifferingPixels int     `json:"differingPixels"`
}

// IOError reports a failure to open or read an input image.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func main() {
	if err := env.Load(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	name := progName(args)

	var directory string
	var backend string
	var bucket string
	var summary bool
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&directory, "directory", env.OrDefault("DIRECTORY", "."), "Output directory")
	flags.StringVar(&backend, "storage", env.OrDefault("STORAGE", "file"), "Storage backend for the diff images (file or s3)")
	flags.StringVar(&bucket, "bucket", env.OrDefault("S3_BUCKET", ""), "S3 bucket used by the s3 storage backend")
	flags.BoolVar(&summary, "summary", env.OrDefault("SUMMARY", false), "Print a JSON summary to stdout")
	flags.Usage = func() {
		usage(stderr, name)
		flags.PrintDefaults()
	}

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}
	if err := flags.Parse(rest); err != nil {
		return 1
	}

	paths := flags.Args()
	if len(paths) != 2 {
		usage(stderr, name)
		return 1
	}

	logger, err := logging.New(stderr, slog.LevelWarn, false)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// Both inputs are opened before either is decoded, so a missing second
	// file is reported even when the first one is malformed.
	baselineFile, err := openImage(paths[0])
	if err != nil {
		return report(stderr, logger, err)
	}
	defer baselineFile.Close()
	targetFile, err := openImage(paths[1])
	if err != nil {
		return report(stderr, logger, err)
	}
	defer targetFile.Close()

	baseline, err := decodeImage(baselineFile)
	if err != nil {
		return report(stderr, logger, err)
	}
	target, err := decodeImage(targetFile)
	if err != nil {
		return report(stderr, logger, err)
	}
	logger.Debug("decoded images", "baseline", baseline.Header, "target", target.Header)

	result, err := diffimage.Compare(diffimage.NewPixelDiff(), baseline, target)
	if err != nil {
		return report(stderr, logger, err)
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintln(stderr, d)
	}

	s, err := storage.New(ctx, storage.Config{
		Kind:      backend,
		Directory: directory,
		Bucket:    bucket,
	})
	if err != nil {
		return report(stderr, logger, err)
	}

	urls, err := storage.PutAll(ctx, s, []string{digitalKey, analogKey}, [][]byte{result.Digital, result.Analog})
	if err != nil {
		return report(stderr, logger, err)
	}
	logger.Debug("stored diff images", "digital", urls[0], "analog", urls[1])

	if summary {
		if err := json.NewEncoder(stdout).Encode(DiffOutput{
			DigitalPath:     urls[0],
			AnalogPath:      urls[1],
			DifferenceFound: result.DifferenceFound,
			DiffAmount:      result.DiffAmount,
			DifferingPixels: len(result.Diagnostics),
		}); err != nil {
			return report(stderr, logger, err)
		}
	}

	if result.DifferenceFound {
		return 1
	}
	return 0
}

func progName(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return defaultProgName
}

func usage(w io.Writer, name string) {
	fmt.Fprintf(w, "usage: %s image1.ppm image2.ppm\n", name)
}

func openImage(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return nil, &IOError{Path: path, Err: err}
	}
	return file, nil
}

func decodeImage(file *os.File) (*ppm.Image, error) {
	img, err := ppm.Decode(file)
	if err != nil {
		var headerErr *ppm.InvalidHeaderFormatError
		var partialErr *ppm.PartialPixelError
		var malformedErr *ppm.MalformedPixelError
		if errors.As(err, &headerErr) || errors.As(err, &partialErr) || errors.As(err, &malformedErr) {
			return nil, err
		}
		return nil, &IOError{Path: file.Name(), Err: err}
	}

	return img, nil
}

// report writes the single diagnostic line for a terminal error and returns
// the exit status.
func report(stderr io.Writer, logger *slog.Logger, err error) int {
	var headerErr *ppm.InvalidHeaderFormatError
	var partialErr *ppm.PartialPixelError
	var malformedErr *ppm.MalformedPixelError
	var mismatchErr *diffimage.HeaderMismatchError
	var ioErr *IOError

	switch {
	case errors.As(err, &headerErr):
		logger.Debug("invalid header", "line", headerErr.Line, "error", headerErr.Err)
		fmt.Fprintln(stderr, headerErr)
	case errors.As(err, &partialErr):
		fmt.Fprintln(stderr, partialErr)
	case errors.As(err, &malformedErr):
		logger.Debug("invalid pixel", "token", malformedErr.Token)
		fmt.Fprintln(stderr, malformedErr)
	case errors.As(err, &mismatchErr):
		fmt.Fprintln(stderr, mismatchErr)
	case errors.As(err, &ioErr):
		fmt.Fprintln(stderr, ioErr)
	default:
		fmt.Fprintln(stderr, err)
	}

	return 1
}
