package logsink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ContextKey is the attribute rendered as the line's [context] tag instead of
// a key=value pair.
const ContextKey = "component"

// Handler is a slog.Handler that writes through a Sink.
type Handler struct {
	sink    *Sink
	level   slog.Leveler
	context string
	prefix  string // group path, "a.b."
	attrs   string // preformatted " k=v" pairs
}

// NewHandler returns a handler emitting records at or above level.
func NewHandler(sink *Sink, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{sink: sink, level: level}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	ctx := h.context
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" && a.Key == ContextKey {
			ctx = a.Value.String()
			return true
		}
		appendAttr(&b, h.prefix, a)
		return true
	})
	h.sink.Write(r.Level, ctx, b.String())
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		if h.prefix == "" && a.Key == ContextKey {
			h2.context = a.Value.String()
			continue
		}
		appendAttr(&b, h.prefix, a)
	}
	h2.attrs = b.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, p, ga)
		}
		return
	}
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = fmt.Sprintf("%q", val)
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(val)
}
