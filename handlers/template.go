package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/searchktools/mini-server/core/http"
)

// TimePlaceholder is replaced with the current time by Template
const TimePlaceholder = "{time}"

// TimeLayout formats the substituted time
const TimeLayout = "2006-01-02T15:04:05.000"

// Template serves the file below root named by the request path with every
// {time} replaced by now(). A nil now uses time.Now.
func Template(root string, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}

	return func(req *http.Request, w *http.ResponseWriter) error {
		name := resolve(root, req.Path)

		template, err := os.ReadFile(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return w.NotFound()
			}
			return fmt.Errorf("read template %s: %w", name, err)
		}

		content := bytes.ReplaceAll(template, []byte(TimePlaceholder), []byte(now().Format(TimeLayout)))

		if err := w.Answer(ContentType(name), int64(len(content))); err != nil {
			return err
		}
		if _, err := w.Write(content); err != nil {
			return err
		}
		return w.Flush()
	}
}
