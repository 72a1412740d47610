package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers. lipgloss drops the colors on its own
// when the output is not a terminal.
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	durStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	levelStyle = map[slog.Level]lipgloss.Style{
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
)

func styleLevel(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return levelStyle[slog.LevelError]
	case level >= slog.LevelWarn:
		return levelStyle[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return levelStyle[slog.LevelInfo]
	default:
		return levelStyle[slog.LevelDebug]
	}
}

func levelText(level slog.Level) string {
	return strings.ToUpper(Level(level).String())
}

// prettyHandler holds what both pretty handlers share: options, the
// attributes accumulated by WithAttrs, and the group prefix.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}

	return level >= min
}

func (h *prettyHandler) clone() *prettyHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)

	return &c
}

func (h *prettyHandler) withAttrs(attrs []slog.Attr) *prettyHandler {
	c := h.clone()

	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	return c
}

func (h *prettyHandler) withGroup(name string) *prettyHandler {
	c := h.clone()
	if name == "" {
		return c
	}

	if c.group != "" {
		c.group += "."
	}

	c.group += name

	return c
}

// recordAttrs returns the handler attributes followed by the record's own.
func (h *prettyHandler) recordAttrs(r slog.Record) []slog.Attr {
	all := append([]slog.Attr(nil), h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		all = append(all, a)

		return true
	})

	return all
}

func (h *prettyHandler) source(r slog.Record) string {
	if !h.opts.AddSource {
		return ""
	}

	if src := r.Source(); src != nil && src.File != "" {
		return src.File + ":" + strconv.Itoa(src.Line)
	}

	return ""
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ *prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{&prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(timeStyle.Render(ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(styleLevel(r.Level).Render(fmt.Sprintf("%-5s", levelText(r.Level))))

	if src := h.source(r); src != "" {
		buf.WriteByte(' ')
		buf.WriteString(keyStyle.Render(src))
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.recordAttrs(r) {
		if a.Equal(slog.Attr{}) {
			continue
		}

		buf.WriteByte(' ')
		buf.WriteString(keyStyle.Render(a.Key + "="))
		buf.WriteString(renderValue(a.Value))
	}

	return h.write(&buf)
}

// prettyJSONHandler writes an indented, colorized JSON-like object per
// record. Values are not quoted, so the output is for people, not parsers.
type prettyJSONHandler struct{ *prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{&prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	first := true
	field := func(key, value string) {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteString("\n  ")
		buf.WriteString(keyStyle.Render(key))
		buf.WriteString(": ")
		buf.WriteString(value)
	}

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			field(slog.TimeKey, timeStyle.Render(ts))
		}
	}

	field(slog.LevelKey, styleLevel(r.Level).Render(levelText(r.Level)))

	if src := h.source(r); src != "" {
		field(slog.SourceKey, stringStyle.Render(src))
	}

	field(slog.MessageKey, stringStyle.Render(r.Message))

	for _, a := range h.recordAttrs(r) {
		if a.Equal(slog.Attr{}) {
			continue
		}

		field(a.Key, renderValue(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func renderValue(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return durStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().Format(time.RFC3339))

	case slog.KindGroup:
		var buf bytes.Buffer

		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(keyStyle.Render(a.Key + "="))
			buf.WriteString(renderValue(a.Value))
		}

		buf.WriteByte('}')

		return buf.String()

	default:
		return stringStyle.Render(v.String())
	}
}
