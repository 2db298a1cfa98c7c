package preview

import (
	"net/http"
	"os"
	"path"
	"strings"

	"fotosorter/internal/library"
)

// Prefix is the URL path the renderer requests image bytes from.
const Prefix = "/preview/"

// Resolver maps a record ID of the running session to its file.
type Resolver interface {
	ImagePath(id string) (string, bool)
}

// Handler streams the original bytes of session images. Requests outside
// Prefix are passed to next, or answered with 404 when next is nil.
type Handler struct {
	resolver Resolver
	next     http.Handler
}

// NewHandler builds the preview handler.
func NewHandler(resolver Resolver, next http.Handler) *Handler {
	return &Handler{resolver: resolver, next: next}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, Prefix) {
		if h.next != nil {
			h.next.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	id := path.Base(strings.TrimPrefix(r.URL.Path, Prefix))
	filePath, ok := h.resolver.ImagePath(id)
	if !ok || !library.IsSupported(filePath) {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
