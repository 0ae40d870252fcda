// Package site serves the embedded documentation pages under /docs/.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe reports a failure to serve the docs site.
var ErrServe = errors.New("docs site serve failed")

// Prefix is the URL path the docs are served under.
const Prefix = "/docs/"

// Register attaches the embedded documentation site routes to mux. A request
// for /docs is redirected to /docs/ by the mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(Prefix, http.StripPrefix(Prefix, http.FileServer(FS())))
}
