package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// playerKey is promoted out of the attribute list into a line prefix, so a
// frame's notifications can be scanned by player.
const playerKey = "player"

type Config struct {
	Level  string
	Format string // "text", "json", "console"
	Output io.Writer
}

// OpenFile opens path for appending and tees it with stdout. An empty path
// logs to stdout alone.
func OpenFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return io.MultiWriter(os.Stdout, f), f.Close, nil
}

var (
	once sync.Once
	lg   *slog.Logger
)

func Init(cfg Config) {
	once.Do(func() {
		lg = slog.New(newHandler(cfg))
		slog.SetDefault(lg)
	})
}

func L() *slog.Logger {
	if lg == nil {
		Init(Config{Level: "debug", Format: "console"})
	}
	return lg
}

func newHandler(cfg Config) slog.Handler {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(cfg.Output, opts)
	case "text":
		return slog.NewTextHandler(cfg.Output, opts)
	default:
		return &consoleHandler{w: cfg.Output, mu: &sync.Mutex{}, level: opts.Level.Level()}
	}
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// consoleHandler writes one line per record, with millisecond time so
// consecutive frames stay distinguishable:
//
//	12:00:00.016 INFO  [Player1] Kick action  pos=(0.00,0.00,5.00) facing=(0.00,0.00,1.00)
//
// Clones share mu, so players stepped in parallel never interleave a line.
type consoleHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Level
	player string
	attrs  []slog.Attr
	group  string
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	player := h.player
	var rest []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		if h.group == "" && a.Key == playerKey {
			player = a.Value.String()
			return true
		}
		rest = append(rest, a)
		return true
	})

	var b strings.Builder
	b.WriteString(r.Time.Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(levelTag(r.Level))
	b.WriteByte(' ')
	if player != "" {
		b.WriteString("[" + player + "] ")
	}
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		b.WriteString(formatAttr(h.group, a))
	}
	for _, a := range rest {
		b.WriteString(formatAttr(h.group, a))
	}
	b.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if h.group == "" && a.Key == playerKey {
			next.player = a.Value.String()
			continue
		}
		next.attrs = append(next.attrs, a)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return next
}

func (h *consoleHandler) clone() *consoleHandler {
	return &consoleHandler{
		w:      h.w,
		mu:     h.mu,
		level:  h.level,
		player: h.player,
		attrs:  append([]slog.Attr{}, h.attrs...),
		group:  h.group,
	}
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN "
	case l >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}

func formatAttr(group string, a slog.Attr) string {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	return fmt.Sprintf("  %s=%s", key, formatValue(a.Value))
}

// formatValue keeps vectors to two decimals; full precision makes a line per
// frame unreadable.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() != slog.KindAny {
		return v.String()
	}
	switch x := v.Any().(type) {
	case mgl64.Vec3:
		return fmt.Sprintf("(%.2f,%.2f,%.2f)", x[0], x[1], x[2])
	case mgl64.Vec2:
		return fmt.Sprintf("(%.2f,%.2f)", x[0], x[1])
	case mgl64.Quat:
		return fmt.Sprintf("(%.3f,%.3f,%.3f,%.3f)", x.W, x.V[0], x.V[1], x.V[2])
	}
	return v.String()
}
