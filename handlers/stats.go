package handlers

import (
	"strings"

	"github.com/searchktools/mini-server/core/http"
	"github.com/searchktools/mini-server/core/observability"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeProtobuf = "application/x-protobuf"
)

// Stats serves the monitor snapshot as protobuf JSON, or as binary protobuf
// when the Accept header asks for application/x-protobuf
func Stats(monitor *observability.PerformanceMonitor) http.Handler {
	return func(req *http.Request, w *http.ResponseWriter) error {
		snap := monitor.Snapshot()

		contentType := contentTypeJSON
		encode := snap.MarshalProtoJSON
		if accept, _ := req.Header("Accept"); strings.Contains(accept, contentTypeProtobuf) {
			contentType = contentTypeProtobuf
			encode = snap.MarshalProto
		}

		body, err := encode()
		if err != nil {
			return err
		}

		if err := w.Answer(contentType, int64(len(body))); err != nil {
			return err
		}
		if _, err := w.Write(body); err != nil {
			return err
		}
		return w.Flush()
	}
}
