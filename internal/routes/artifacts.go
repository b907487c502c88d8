package routes

import (
	"fmt"
	"net/http"
	"ppmdiff/internal/myhttp"
	"ppmdiff/internal/storage"
	"regexp"
)

var (
	hashPattern      = regexp.MustCompile(`^[0-9a-f]{16}$`)
	timestampPattern = regexp.MustCompile(`^[0-9]{14}$`)
)

// GetArtifact serves a diff image stored by Diff. Only keys Diff itself
// produces are accepted.
func GetArtifact(storageClient storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := r.PathValue("hash")
		timestamp := r.PathValue("timestamp")
		name := r.PathValue("name")

		if !hashPattern.MatchString(hash) || !timestampPattern.MatchString(timestamp) || (name != DigitalKey && name != AnalogKey) {
			http.NotFound(w, r)
			return
		}

		key := fmt.Sprintf("diff/%s/%s/%s", hash, timestamp, name)
		data, err := storageClient.Get(r.Context(), storageClient.URL(key))
		if err != nil {
			myhttp.Logger(r.Context()).Info("failed to get artifact", "key", key, "error", err)
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/x-portable-pixmap")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
