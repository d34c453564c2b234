package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AssetServer creates a handler that serves stored blobs by key. The route
// is mounted at /api/assets/* and the wildcard suffix is the blob key, e.g.
// sessions/42/thumbnails/thumb_IMG_0001_1714822301000_a1b2c3d4e5f60718.jpg.
func AssetServer(baseStoragePath string) http.HandlerFunc {
	cleanBase := filepath.Clean(baseStoragePath)
	log.Printf("Serving blob assets for /api/assets/* from directory: %s", cleanBase)

	return func(w http.ResponseWriter, r *http.Request) {
		const routePrefix = "/api/assets/"
		key := strings.TrimPrefix(r.URL.Path, routePrefix)

		if key == "" || strings.Contains(key, "..") {
			http.Error(w, "Invalid asset path", http.StatusBadRequest)
			return
		}

		requestedPath := filepath.Join(cleanBase, filepath.FromSlash(key))
		cleanedPath := filepath.Clean(requestedPath)

		if !strings.HasPrefix(cleanedPath, cleanBase) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			log.Printf("SECURITY: Attempted asset access outside storage root: Request='%s', Resolved='%s'", r.URL.Path, cleanedPath)
			return
		}

		if _, err := os.Stat(cleanedPath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		} else if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			log.Printf("Error stating asset file %s: %v", cleanedPath, err)
			return
		}

		// stored filenames are immutable, so cache hard
		cacheDuration := 24 * time.Hour
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(cacheDuration.Seconds())))
		w.Header().Set("Expires", time.Now().Add(cacheDuration).Format(http.TimeFormat))

		http.ServeFile(w, r, cleanedPath)
	}
}
