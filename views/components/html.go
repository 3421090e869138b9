package components

import (
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter stops writing after the first error and remembers it.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) rawf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func classes(base string, extra ...string) string {
	out := base
	for _, c := range extra {
		if c != "" {
			out += " " + c
		}
	}
	return out
}
