// Package logsink connects weakevent diagnostics to structured loggers.
//
// Sinks receive the pre-formatted message and a weakevent.Level; observers
// receive the full Transition and log its fields as attributes.
package logsink

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/zoobzio/weakevent"
)

// SlogLevel maps a weakevent level to a slog level.
func SlogLevel(l weakevent.Level) slog.Level {
	switch {
	case l <= weakevent.LevelError:
		return slog.LevelError
	case l == weakevent.LevelWarn:
		return slog.LevelWarn
	case l <= weakevent.LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// ZerologLevel maps a weakevent level to a zerolog level.
func ZerologLevel(l weakevent.Level) zerolog.Level {
	switch {
	case l <= weakevent.LevelError:
		return zerolog.ErrorLevel
	case l == weakevent.LevelWarn:
		return zerolog.WarnLevel
	case l <= weakevent.LevelInfo:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// Slog returns a Sink writing to logger. A nil logger uses slog.Default().
func Slog(logger *slog.Logger) weakevent.Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return func(level weakevent.Level, msg string) {
		logger.Log(context.Background(), SlogLevel(level), msg)
	}
}

// Zerolog returns a Sink writing to logger.
func Zerolog(logger zerolog.Logger) weakevent.Sink {
	return func(level weakevent.Level, msg string) {
		logger.WithLevel(ZerologLevel(level)).Msg(msg)
	}
}

// Multi returns a Sink forwarding to every non-nil sink.
func Multi(sinks ...weakevent.Sink) weakevent.Sink {
	filtered := make([]weakevent.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return func(level weakevent.Level, msg string) {
		for _, s := range filtered {
			s(level, msg)
		}
	}
}

// Discard drops every message.
func Discard(weakevent.Level, string) {}

// SlogObserver logs transitions to a slog.Logger with one attribute per
// field. The transition kind becomes the log message.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver emitting to logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnTransition(t weakevent.Transition) {
	attrs := make([]slog.Attr, 0, 7)
	attrs = append(attrs,
		slog.Uint64("source_id", t.SourceID),
		slog.String("event", t.Event),
	)
	if t.Target != "" {
		attrs = append(attrs, slog.String("target", t.Target))
	}
	if t.Count != 0 {
		attrs = append(attrs, slog.Int("count", t.Count))
	}
	if f := t.Failure; f != nil {
		attrs = append(attrs,
			slog.String("category", f.Category),
			slog.String("error", f.Message),
			slog.String("stack", f.Trace()),
		)
	}
	o.logger.LogAttrs(context.Background(), SlogLevel(t.Level()), string(t.Kind), attrs...)
}

// ZerologObserver logs transitions to a zerolog.Logger.
type ZerologObserver struct {
	logger zerolog.Logger
}

// NewZerologObserver creates a ZerologObserver emitting to logger.
func NewZerologObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnTransition(t weakevent.Transition) {
	ev := o.logger.WithLevel(ZerologLevel(t.Level())).
		Uint64("source_id", t.SourceID).
		Str("event", t.Event)
	if t.Target != "" {
		ev = ev.Str("target", t.Target)
	}
	if t.Count != 0 {
		ev = ev.Int("count", t.Count)
	}
	if f := t.Failure; f != nil {
		ev = ev.Str("category", f.Category).Str("error", f.Message).Str("stack", f.Trace())
	}
	ev.Msg(string(t.Kind))
}
