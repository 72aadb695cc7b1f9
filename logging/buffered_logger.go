package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// BufferedLogHandler implements slog.Handler and captures log records in
// memory. This is useful for testing the pipeline: stage logs can be
// inspected without writing to stderr.
//
// Example usage:
//
//	handler := logging.NewBufferedLogHandler(nil)
//	logging.SetLogger(slog.New(handler))
//
//	// ... process a template page ...
//
//	if handler.Contains("fiducials") {
//	    fmt.Println(handler.String())
//	}
type BufferedLogHandler struct {
	level      slog.Leveler
	buffer     *bytes.Buffer
	mu         sync.Mutex
	preAttrs   []slog.Attr
	groupNames []string
}

// logEntry is the JSON shape of one captured record.
type logEntry struct {
	Level    string    `json:"level"`
	Message  string    `json:"message"`
	DateTime string    `json:"datetime"`
	Attrs    []logAttr `json:"attrs,omitempty"`
}

// logAttr is one captured attribute with its value rendered as text.
type logAttr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// toLogAttr renders an attribute for the JSON buffer.
func toLogAttr(a slog.Attr) logAttr {
	return logAttr{Key: a.Key, Value: a.Value.Resolve().String()}
}

// NewBufferedLogHandler creates a new BufferedLogHandler with an empty
// buffer. Pass nil for opts to capture all log levels, or provide
// HandlerOptions to filter by level.
func NewBufferedLogHandler(opts *slog.HandlerOptions) *BufferedLogHandler {
	h := &BufferedLogHandler{
		buffer: &bytes.Buffer{},
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler. Returns true if the given level is at
// or above the configured minimum level. If no level was configured,
// returns true for all levels.
func (h *BufferedLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

// Handle implements slog.Handler. Writes log records as JSON lines to the
// buffer.
func (h *BufferedLogHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry := logEntry{
		Level:    r.Level.String(),
		Message:  r.Message,
		DateTime: r.Time.Format(time.DateTime),
	}

	for _, attr := range h.preAttrs {
		entry.Attrs = append(entry.Attrs, toLogAttr(h.prefixedAttr(attr)))
	}

	r.Attrs(func(attr slog.Attr) bool {
		entry.Attrs = append(entry.Attrs, toLogAttr(h.prefixedAttr(attr)))
		return true
	})

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	h.buffer.Write(data)
	h.buffer.WriteByte('\n')
	return nil
}

// WithAttrs implements slog.Handler. Returns a handler sharing the same
// buffer with the given attributes pre-applied.
func (h *BufferedLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	clone := &BufferedLogHandler{
		level:      h.level,
		buffer:     h.buffer,
		preAttrs:   append(append([]slog.Attr{}, h.preAttrs...), attrs...),
		groupNames: h.groupNames,
	}
	return clone
}

// WithGroup implements slog.Handler. Subsequent attribute keys are
// prefixed with the group name.
func (h *BufferedLogHandler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	clone := &BufferedLogHandler{
		level:      h.level,
		buffer:     h.buffer,
		preAttrs:   append([]slog.Attr{}, h.preAttrs...),
		groupNames: append(append([]string{}, h.groupNames...), name),
	}
	return clone
}

// prefixedAttr applies the accumulated group prefix to an attribute key.
func (h *BufferedLogHandler) prefixedAttr(attr slog.Attr) slog.Attr {
	if len(h.groupNames) == 0 {
		return attr
	}
	return slog.Attr{
		Key:   strings.Join(h.groupNames, ".") + "." + attr.Key,
		Value: attr.Value,
	}
}

// String returns everything captured so far as newline-delimited JSON.
func (h *BufferedLogHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffer.String()
}

// Contains reports whether any captured record contains the substring.
func (h *BufferedLogHandler) Contains(substr string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return strings.Contains(h.buffer.String(), substr)
}

// Reset discards all captured records.
func (h *BufferedLogHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buffer.Reset()
}
