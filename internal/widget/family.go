package widget

import (
	"fmt"
	"io"
	"sync"

	"github.com/tartampluch/go-ageflow/internal/config"
)

// Format renders an entry for a widget family. Unknown families fall
// back to the bare age string.
func Format(family string, e Entry) string {
	switch family {
	case config.FamilyInline:
		return fmt.Sprintf(config.FormatInline, e.Age)
	case config.FamilyRectangular:
		return fmt.Sprintf(config.FormatRectangular, e.Age)
	default:
		return e.Age
	}
}

// WriterRenderer prints each entry on its own line, for status bars that
// read a process' stdout.
type WriterRenderer struct {
	Family string

	mu sync.Mutex
	w  io.Writer
}

// NewWriterRenderer returns a renderer writing to w.
func NewWriterRenderer(w io.Writer, family string) *WriterRenderer {
	return &WriterRenderer{Family: family, w: w}
}

// Render implements Renderer.
func (r *WriterRenderer) Render(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, Format(r.Family, e))
}
