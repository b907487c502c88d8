package main

import (
	"context"
	"flag"
	"log"
	"ppmdiff/internal/env"
	"ppmdiff/internal/runnable"
	"ppmdiff/internal/storage"
)

func main() {
	if err := env.Load(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	var backend string
	var directory string
	var bucket string
	flag.StringVar(&backend, "storage", env.OrDefault("STORAGE", ""), "Storage backend for the diff images (file or s3), empty to disable")
	flag.StringVar(&directory, "directory", env.OrDefault("DIRECTORY", "."), "Output directory for the file storage backend")
	flag.StringVar(&bucket, "bucket", env.OrDefault("S3_BUCKET", ""), "S3 bucket used by the s3 storage backend")
	flag.BoolVar(&runnable.Debug, "debug", env.OrDefault("DEBUG", false), "Enable text logs and pprof endpoints")
	flag.Parse()

	ctx := context.Background()

	var s storage.Storage
	if backend != "" {
		var err error
		s, err = storage.New(ctx, storage.Config{
			Kind:      backend,
			Directory: directory,
			Bucket:    bucket,
		})
		if err != nil {
			log.Fatalf("Failed to create storage backend: %v", err)
		}
	}

	server := runnable.NewServer(s)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
