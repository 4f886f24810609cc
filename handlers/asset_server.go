package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dfi-sistemas/legajosbackend/media"
)

// UploadsServer serves stored upload files at /api/uploads/*. The store
// resolves the relative path and enforces the traversal guard; auth is
// applied by the route group this mounts under.
func UploadsServer(store media.Store, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		relativePath := chi.URLParam(r, "*")
		if relativePath == "" {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		fullPath, err := store.GetFullPath(relativePath)
		if err != nil {
			logger.Warnw("rejected asset path", "path", relativePath, "error", err)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, fullPath)
	}
}
