package assets

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/giygas/emergency-reference/logging"
)

const cachePrefix = "emergency-reference-"

// OfflineMessage is the body served when an asset is neither cached nor
// reachable.
const OfflineMessage = "Offline - Content not available"

// PrecacheAssets are fetched into the static cache on Install.
var PrecacheAssets = []string{
	"/",
	"/manifest.json",
	"/data/emergencyConditions.json",
}

// StaticCacheName and DynamicCacheName return the cache names for version.
func StaticCacheName(version string) string { return cachePrefix + "static-" + version }
func DynamicCacheName(version string) string { return cachePrefix + "dynamic-" + version }

// Worker is the cache-first asset handler.
type Worker struct {
	storage  *Storage
	origin   Origin
	static   string
	dynamic  string
	precache []string
}

// NewWorker creates a worker for the given cache version.
func NewWorker(storage *Storage, origin Origin, version string) *Worker {
	return &Worker{
		storage:  storage,
		origin:   origin,
		static:   StaticCacheName(version),
		dynamic:  DynamicCacheName(version),
		precache: PrecacheAssets,
	}
}

// Install fetches every precache asset into the static cache. It fails,
// leaving the static cache untouched, if any of them cannot be fetched
// with a 200.
func (w *Worker) Install(ctx context.Context) error {
	fetched := make(map[string]*Entry, len(w.precache))
	for _, uri := range w.precache {
		e, err := w.origin.Fetch(ctx, uri)
		if err != nil {
			return fmt.Errorf("precache %s: %w", uri, err)
		}
		if e.Status != http.StatusOK {
			return fmt.Errorf("precache %s: status %d", uri, e.Status)
		}
		fetched[uri] = e
	}

	cache := w.storage.Open(w.static)
	for uri, e := range fetched {
		cache.Put(uri, e)
	}
	logging.Info("Static assets cached", "cache", w.static, "count", len(fetched))
	return nil
}

// Activate deletes every cache that is not one of the current version's and
// returns the deleted names.
func (w *Worker) Activate() []string {
	var deleted []string
	for _, name := range w.storage.Names() {
		if name == w.static || name == w.dynamic {
			continue
		}
		if w.storage.Delete(name) {
			logging.Info("Deleted old asset cache", "cache", name)
			deleted = append(deleted, name)
		}
	}
	return deleted
}

// ServeHTTP answers GET requests from the cache, then the origin, then the
// offline fallbacks.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	key := AssetPath(r.URL.Path)
	if e, ok := w.storage.Match(key); ok {
		logging.Debug("Serving asset from cache", "uri", key)
		writeEntry(rw, r, e)
		return
	}

	e, err := w.origin.Fetch(r.Context(), key)
	if err != nil {
		logging.Warn("Asset origin unavailable", "uri", key, "error", err)
		w.serveOffline(rw, r)
		return
	}
	if e.Status == http.StatusOK {
		w.storage.Open(w.dynamic).Put(key, e)
	}
	writeEntry(rw, r, e)
}

func (w *Worker) serveOffline(rw http.ResponseWriter, r *http.Request) {
	if isNavigation(r) {
		if e, ok := w.storage.Match("/"); ok {
			writeEntry(rw, r, e)
			return
		}
	}
	rw.Header().Set("Content-Type", "text/plain")
	rw.WriteHeader(http.StatusServiceUnavailable)
	if r.Method != http.MethodHead {
		_, _ = rw.Write([]byte(OfflineMessage))
	}
}

// isNavigation reports whether r loads a document rather than a
// subresource.
func isNavigation(r *http.Request) bool {
	if dest := r.Header.Get("Sec-Fetch-Dest"); dest != "" {
		return dest == "document"
	}
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeEntry(rw http.ResponseWriter, r *http.Request, e *Entry) {
	for k, v := range e.Header {
		rw.Header()[k] = v
	}
	rw.Header().Set("Content-Length", strconv.Itoa(len(e.Body)))
	rw.WriteHeader(e.Status)
	if r.Method != http.MethodHead {
		_, _ = rw.Write(e.Body)
	}
}
