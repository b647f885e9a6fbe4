// Package site serves the embedded browser front end: team picker, event
// table and the interactive passing network canvas.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("front end serve failed")
)

// Register attaches the front end routes to mux. The catch-all pattern is
// the least specific one, so API routes registered on the same mux win.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", NewRootHandler())
}

// RootHandler serves the index page and its assets.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves embedded files and falls through to 404 for anything else.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// the page talks to a live API; never let a proxy pin an old build
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
