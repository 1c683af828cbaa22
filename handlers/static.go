package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/searchktools/mini-server/core/http"
)

// resolve maps a request path onto a file below root. The cleaned path can
// never climb above root.
func resolve(root, requestPath string) string {
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+requestPath)))
}

// Static serves files below root. Missing files and directories get the
// built-in 404.
func Static(root string) http.Handler {
	return func(req *http.Request, w *http.ResponseWriter) error {
		name := resolve(root, req.Path)

		info, err := os.Stat(name)
		if err != nil || info.IsDir() {
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errors.Join(fmt.Errorf("stat %s: %w", name, err), w.NotFound())
			}
			return w.NotFound()
		}

		f, err := os.Open(name)
		if err != nil {
			return errors.Join(fmt.Errorf("open %s: %w", name, err), w.NotFound())
		}
		defer f.Close()

		if err := w.Answer(ContentType(name), info.Size()); err != nil {
			return err
		}
		if _, err := w.ReadFrom(f); err != nil {
			return fmt.Errorf("send %s: %w", name, err)
		}
		return w.Flush()
	}
}
