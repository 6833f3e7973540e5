package klayout

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"
)

type (
	// JSONHandler writes events as json objects, one per line
	JSONHandler struct {
		FieldLevel      string
		FieldTime       string
		FieldTimeUnix   string
		FieldTimeUnixUS string
		FieldCaller     string
		FieldPath       string
		FieldMsg        string
		CallSite        *CallSiteRenderer
		ErrorLog        *log.Logger
		mu              *sync.Mutex
		w               io.Writer
	}
)

// NewJSONHandler creates a new [*JSONHandler] rendering the caller field with
// a [*CallSiteRenderer] of cfg
func NewJSONHandler(w io.Writer, cfg CallSiteConfig) *JSONHandler {
	return &JSONHandler{
		FieldLevel:      "level",
		FieldTime:       "time",
		FieldTimeUnix:   "unixtime",
		FieldTimeUnixUS: "unixtimeus",
		FieldCaller:     "caller",
		FieldPath:       "path",
		FieldMsg:        "msg",
		CallSite:        NewCallSiteRenderer(cfg),
		ErrorLog:        log.New(io.Discard, "", log.LstdFlags),
		mu:              &sync.Mutex{},
		w:               w,
	}
}

// CaptureLevel implements [Handler]
func (h *JSONHandler) CaptureLevel() CaptureLevel {
	if h.CallSite == nil {
		return CaptureNone
	}
	return h.CallSite.CaptureLevel()
}

// Handle implements [Handler]
func (h *JSONHandler) Handle(e Event) {
	fields := map[string]any{
		h.FieldLevel:      e.Level.String(),
		h.FieldTime:       e.Time.Format(time.RFC3339Nano),
		h.FieldTimeUnix:   e.Time.Unix(),
		h.FieldTimeUnixUS: e.Time.UnixMicro(),
		h.FieldPath:       e.Path,
		h.FieldMsg:        e.Message,
	}
	if h.CallSite != nil {
		var caller bytes.Buffer
		h.CallSite.Render(&caller, &e)
		fields[h.FieldCaller] = caller.String()
	}
	// builtin fields take precedence over attrs
	for _, i := range e.Attrs {
		if _, ok := fields[i.Key]; ok {
			continue
		}
		if err, ok := i.Value.(error); ok {
			fields[i.Key] = err.Error()
			continue
		}
		fields[i.Key] = i.Value
	}

	b := bytes.Buffer{}
	j := json.NewEncoder(&b)
	j.SetEscapeHTML(false)
	if err := j.Encode(fields); err != nil {
		h.ErrorLog.Println(err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := io.Copy(h.w, &b); err != nil {
		h.ErrorLog.Println(err)
	}
}
