package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

var frameTime = time.Date(2024, 1, 1, 12, 0, 0, int(16*time.Millisecond), time.UTC)

func newTestHandler(buf *bytes.Buffer) *consoleHandler {
	return &consoleHandler{w: buf, mu: &sync.Mutex{}, level: slog.LevelDebug}
}

func handle(t *testing.T, h slog.Handler, msg string, attrs ...slog.Attr) {
	t.Helper()
	record := slog.NewRecord(frameTime, slog.LevelInfo, msg, 0)
	record.AddAttrs(attrs...)
	if err := h.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() 返回错误: %v", err)
	}
}

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, 期望 %v", tt.input, got, tt.expected)
		}
	}
}

// TestFormatValue 测试向量与普通值的格式化
func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    slog.Value
		expected string
	}{
		{"字符串", slog.StringValue("twin_stick"), "twin_stick"},
		{"浮点数", slog.Float64Value(0.3), "0.3"},
		{"三维向量", slog.AnyValue(mgl64.Vec3{1, 0.5, -2.25}), "(1.00,0.50,-2.25)"},
		{"二维向量", slog.AnyValue(mgl64.Vec2{0, -1}), "(0.00,-1.00)"},
		{"四元数", slog.AnyValue(mgl64.QuatIdent()), "(1.000,0.000,0.000,0.000)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.expected {
				t.Errorf("formatValue() = %q, 期望 %q", got, tt.expected)
			}
		})
	}
}

// TestConsoleLineLayout 测试一行日志的完整布局
func TestConsoleLineLayout(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf)

	handle(t, h, "Kick action",
		slog.String("player", "Player1"),
		slog.Any("pos", mgl64.Vec3{0, 0, 5}),
	)

	want := "12:00:00.016 INFO  [Player1] Kick action  pos=(0.00,0.00,5.00)\n"
	if got := buf.String(); got != want {
		t.Errorf("输出 = %q, 期望 %q", got, want)
	}
}

// TestConsoleLineWithoutPlayer 测试没有玩家属性时不输出前缀
func TestConsoleLineWithoutPlayer(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf)

	handle(t, h, "Session ready", slog.Int("players", 2))

	want := "12:00:00.016 INFO  Session ready  players=2\n"
	if got := buf.String(); got != want {
		t.Errorf("输出 = %q, 期望 %q", got, want)
	}
}

// TestConsoleHandlerEnabled 测试级别过滤
func TestConsoleHandlerEnabled(t *testing.T) {
	h := newHandler(Config{Level: "warn", Output: &bytes.Buffer{}})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Info 级别不应该被启用")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Error 级别应该被启用")
	}
}

// TestWithAttrsPromotesPlayer 测试预设的玩家属性成为前缀且不影响原 handler
func TestWithAttrsPromotesPlayer(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf)

	scoped := h.WithAttrs([]slog.Attr{slog.String("player", "Player2"), slog.String("team", "B")})
	if len(h.attrs) != 0 || h.player != "" {
		t.Fatal("原始 handler 不应该被修改")
	}

	handle(t, scoped, "Sprint pressed")
	if got, want := buf.String(), "12:00:00.016 INFO  [Player2] Sprint pressed  team=B\n"; got != want {
		t.Errorf("输出 = %q, 期望 %q", got, want)
	}

	buf.Reset()
	handle(t, scoped, "Jump", slog.String("player", "Player3"))
	if !strings.Contains(buf.String(), "[Player3] Jump") {
		t.Errorf("记录自身的玩家属性应覆盖预设值, 实际: %q", buf.String())
	}
}

// TestWithGroupKeepsPlayerAsAttr 测试分组内的 player 键不会被提升
func TestWithGroupKeepsPlayerAsAttr(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(&buf)

	handle(t, h.WithGroup("camera").WithGroup("target"), "Follow", slog.String("player", "Player1"))

	output := buf.String()
	if strings.Contains(output, "[Player1]") {
		t.Errorf("分组内的 player 不应成为前缀, 实际: %q", output)
	}
	if !strings.Contains(output, "camera.target.player=Player1") {
		t.Errorf("输出应包含嵌套分组前缀, 实际: %q", output)
	}
}

// TestConcurrentLinesDoNotInterleave 测试并行写入时每行保持完整
func TestConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	root := newTestHandler(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		h := root.WithAttrs([]slog.Attr{slog.Int("player", i)})
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				record := slog.NewRecord(frameTime, slog.LevelInfo, "Jump", 0)
				record.AddAttrs(slog.Any("pos", mgl64.Vec3{1, 2, 3}))
				_ = h.Handle(context.Background(), record)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 200 {
		t.Fatalf("行数 = %d, 期望 200", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "Jump  pos=(1.00,2.00,3.00)") {
			t.Fatalf("行被打断: %q", line)
		}
	}
}

// TestNewHandlerFormats 测试不同格式选择不同 handler
func TestNewHandlerFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(slog.Handler) bool
	}{
		{"json", func(h slog.Handler) bool { _, ok := h.(*slog.JSONHandler); return ok }},
		{"text", func(h slog.Handler) bool { _, ok := h.(*slog.TextHandler); return ok }},
		{"console", func(h slog.Handler) bool { _, ok := h.(*consoleHandler); return ok }},
		{"", func(h slog.Handler) bool { _, ok := h.(*consoleHandler); return ok }},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			h := newHandler(Config{Level: "debug", Format: tt.format, Output: &bytes.Buffer{}})
			if !tt.check(h) {
				t.Errorf("format %q 得到 %T", tt.format, h)
			}
		})
	}
}

// TestOpenFile 测试日志文件输出
func TestOpenFile(t *testing.T) {
	w, closeFn, err := OpenFile("")
	if err != nil {
		t.Fatalf("OpenFile(\"\") 返回错误: %v", err)
	}
	if w != os.Stdout {
		t.Errorf("空路径应输出到 stdout")
	}
	if err := closeFn(); err != nil {
		t.Errorf("close 返回错误: %v", err)
	}

	path := filepath.Join(t.TempDir(), "localplay.log")
	w, closeFn, err = OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() 返回错误: %v", err)
	}
	handle(t, &consoleHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelDebug}, "Player joined the game")
	if err := closeFn(); err != nil {
		t.Fatalf("close 返回错误: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "Player joined the game") {
		t.Errorf("日志文件应包含消息, 实际: %q", string(data))
	}

	if _, _, err := OpenFile(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Errorf("目录不存在时应返回错误")
	}
}
