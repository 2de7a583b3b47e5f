package web

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/ajanata/ledweb-hardware/internal/httpd"
)

// ErrNotExist is returned by Files implementations for missing files.
var ErrNotExist = fs.ErrNotExist

// Files is a read-only tree of static assets. Names are slash separated and relative, without a
// leading slash.
type Files interface {
	Open(name string) (io.ReadCloser, error)
}

type dirFiles struct {
	fsys fs.FS
}

// FS adapts an fs.FS, e.g. os.DirFS("/static").
func FS(fsys fs.FS) Files {
	return dirFiles{fsys}
}

func (d dirFiles) Open(name string) (io.ReadCloser, error) {
	f, err := d.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

const maxStatic = 64 << 10

func serveStatic(files Files, urlPath string) (httpd.Response, error) {
	clean := path.Clean("/" + urlPath)
	name := strings.TrimPrefix(clean, "/")
	if name == "" || !fs.ValidPath(name) {
		return notFound(), nil
	}

	f, err := files.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(), nil
	}
	if err != nil {
		return httpd.Response{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxStatic))
	if err != nil {
		return httpd.Response{}, fmt.Errorf("read %s: %w", name, err)
	}

	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return httpd.Response{Status: http.StatusOK, ContentType: ct, Body: body}, nil
}
