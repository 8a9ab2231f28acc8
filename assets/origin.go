package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// Origin fetches assets from their source. A missing asset is a response
// (404), not an error; an error means the origin could not be reached.
type Origin interface {
	Fetch(ctx context.Context, uri string) (*Entry, error)
}

// FSOrigin serves files out of a file system, with extra in-memory
// documents taking precedence over files at the same path.
type FSOrigin struct {
	fsys  fs.FS
	extra map[string][]byte
}

// NewFSOrigin creates an origin over fsys. fsys may be nil when only the
// extra documents are served.
func NewFSOrigin(fsys fs.FS, extra map[string][]byte) *FSOrigin {
	return &FSOrigin{fsys: fsys, extra: extra}
}

// Fetch reads the file behind uri. "/" and directories resolve to their
// index.html.
func (o *FSOrigin) Fetch(ctx context.Context, uri string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := AssetPath(uri)

	if body, ok := o.extra[p]; ok {
		return newEntry(http.StatusOK, contentType(p), body), nil
	}
	if o.fsys == nil {
		return notFound(), nil
	}

	if _, err := fs.Stat(o.fsys, "."); err != nil {
		return nil, fmt.Errorf("static root unavailable: %w", err)
	}

	name := strings.TrimPrefix(p, "/")
	if name == "" {
		name = "index.html"
	} else if info, err := fs.Stat(o.fsys, name); err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
	}

	body, err := fs.ReadFile(o.fsys, name)
	switch {
	case err == nil:
		return newEntry(http.StatusOK, contentType(name), body), nil
	case errors.Is(err, fs.ErrNotExist):
		return notFound(), nil
	default:
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
}

// AssetPath reduces a request URI to the cleaned path an asset is stored
// under. Query strings and fragments are dropped.
func AssetPath(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 {
		uri = uri[:i]
	}
	return path.Clean("/" + uri)
}

func newEntry(status int, ctype string, body []byte) *Entry {
	h := make(http.Header)
	h.Set("Content-Type", ctype)
	return &Entry{Status: status, Header: h, Body: body}
}

func notFound() *Entry {
	return newEntry(http.StatusNotFound, "text/plain; charset=utf-8", []byte("404 page not found\n"))
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
