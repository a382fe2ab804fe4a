package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
)

type PrettyJSONHandlerOptions struct {
	slog.HandlerOptions
	PrettyPrint bool
}

// NewPrettyJSONHandler returns a [slog.JSONHandler] that optionally indents every record. Meant for
// local development, JSON lines should be used elsewhere.
func NewPrettyJSONHandler(w io.Writer, opts *PrettyJSONHandlerOptions) slog.Handler {
	if opts == nil {
		opts = &PrettyJSONHandlerOptions{}
	}

	if opts.PrettyPrint {
		w = indentWriter{w: w}
	}
	return slog.NewJSONHandler(w, &opts.HandlerOptions)
}

// indentWriter relies on slog.JSONHandler writing exactly one record per call to Write.
type indentWriter struct {
	w io.Writer
}

func (i indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return i.w.Write(p)
	}

	if _, err := i.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
