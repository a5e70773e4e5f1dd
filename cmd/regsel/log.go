package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	errAttrKey        = "error"
	stacktraceAttrKey = "stacktrace"
)

// zerologHandler is a slog.Handler that writes records through a zerolog.Logger.
type zerologHandler struct {
	logger zerolog.Logger
	level  slog.Level
	attrs  []slog.Attr
	prefix string
}

func newZerologHandler(logger zerolog.Logger, level slog.Level) *zerologHandler {
	return &zerologHandler{
		logger: logger,
		level:  level,
	}
}

func (h *zerologHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *zerologHandler) Handle(_ context.Context, r slog.Record) error {
	ev := h.logger.WithLevel(zerologLevel(r.Level))
	if ev == nil {
		return nil
	}
	for _, attr := range h.attrs {
		addAttr(ev, "", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		addAttr(ev, h.prefix, attr)
		return true
	})
	ev.Msg(r.Message)
	return nil
}

func (h *zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		next.attrs = append(next.attrs, attr)
	}
	return &next
}

func (h *zerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func zerologLevel(l slog.Level) zerolog.Level {
	switch {
	case l >= slog.LevelError:
		return zerolog.ErrorLevel
	case l >= slog.LevelWarn:
		return zerolog.WarnLevel
	case l >= slog.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func addAttr(ev *zerolog.Event, prefix string, attr slog.Attr) {
	v := attr.Value.Resolve()
	key := prefix + attr.Key
	switch v.Kind() {
	case slog.KindString:
		ev.Str(key, v.String())
	case slog.KindInt64:
		ev.Int64(key, v.Int64())
	case slog.KindUint64:
		ev.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		ev.Float64(key, v.Float64())
	case slog.KindBool:
		ev.Bool(key, v.Bool())
	case slog.KindDuration:
		ev.Dur(key, v.Duration())
	case slog.KindTime:
		ev.Time(key, v.Time())
	case slog.KindGroup:
		for _, member := range v.Group() {
			addAttr(ev, key+".", member)
		}
	default:
		if err, ok := v.Any().(error); ok {
			ev.AnErr(key, err)
			return
		}
		ev.Interface(key, v.Any())
	}
}

// errFmtHandler adds the cockroachdb/errors stack trace of an error attribute to the record.
type errFmtHandler struct {
	handler slog.Handler
}

func wrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &errFmtHandler{
		handler: handler,
	}
}

func (eh *errFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *errFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var stacktrace string
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == errAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				stacktrace = extractStacktrace(err)
			}
			return false
		}
		return true
	})
	if stacktrace != "" {
		r.AddAttrs(slog.String(stacktraceAttrKey, stacktrace))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *errFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *errFmtHandler) WithGroup(g string) slog.Handler {
	return &errFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// newLogger returns a slog.Logger writing human readable zerolog output to w.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}).
		With().
		Timestamp().
		Logger()
	return slog.New(wrapByErrFmtHandler(newZerologHandler(zl, level)))
}
