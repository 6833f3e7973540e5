package klayout

import (
	"bytes"
	"io"
	"log"
	"sync"
)

type (
	// TextHandler writes events rendered by a [*Layout], one per line
	TextHandler struct {
		Layout   *Layout
		ErrorLog *log.Logger
		mu       *sync.Mutex
		w        io.Writer
		pool     *sync.Pool
	}
)

// NewTextHandler creates a new [*TextHandler]
func NewTextHandler(w io.Writer, layout *Layout) *TextHandler {
	return &TextHandler{
		Layout:   layout,
		ErrorLog: log.New(io.Discard, "", log.LstdFlags),
		mu:       &sync.Mutex{},
		w:        w,
		pool: &sync.Pool{
			New: func() any {
				return &bytes.Buffer{}
			},
		},
	}
}

// CaptureLevel implements [Handler]
func (h *TextHandler) CaptureLevel() CaptureLevel {
	return h.Layout.CaptureLevel()
}

// Handle implements [Handler]
func (h *TextHandler) Handle(e Event) {
	b := h.pool.Get().(*bytes.Buffer)
	defer h.pool.Put(b)
	b.Reset()

	h.Layout.Append(b, &e)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.w.Write(b.Bytes()); err != nil {
		h.ErrorLog.Println(err)
	}
}
