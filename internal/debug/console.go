package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"

	"github.com/molleindustria/localplay/internal/body"
	"github.com/molleindustria/localplay/internal/physics"
)

const (
	defaultTickInterval = time.Second / 60
	defaultMovePulse    = 180 * time.Millisecond
)

// Stepper advances every player one frame.
type Stepper interface {
	Step(dt float64, inputs map[string]body.Input) error
	SetScheme(scheme physics.Scheme)
}

type ControlledBody interface {
	Name() string
	State() physics.CharacterState
	Animation() body.Clip
	SetPosition(pos mgl64.Vec3)
}

type CameraView interface {
	Position() mgl64.Vec3
	Forward() mgl64.Vec3
}

type BlockQuerier interface {
	IsSolid(x, y, z int) bool
}

// stickPulse holds a stick deflection until a deadline, emulating a held
// stick from single key presses.
type stickPulse struct {
	value mgl64.Vec2
	xEnd  time.Time
	yEnd  time.Time
}

func (p *stickPulse) set(axis int, v float64, until time.Time) {
	p.value[axis] = v
	if axis == 0 {
		p.xEnd = until
	} else {
		p.yEnd = until
	}
}

func (p *stickPulse) expire(now time.Time) {
	if !p.xEnd.IsZero() && !now.Before(p.xEnd) {
		p.value[0] = 0
		p.xEnd = time.Time{}
	}
	if !p.yEnd.IsZero() && !now.Before(p.yEnd) {
		p.value[1] = 0
		p.yEnd = time.Time{}
	}
}

// Console drives one player from a raw terminal while the rest of the session
// idles.
type Console struct {
	stepper      Stepper
	player       ControlledBody
	camera       CameraView
	blocks       BlockQuerier
	out          io.Writer
	tickInterval time.Duration
	movePulse    time.Duration

	mu          sync.Mutex
	left        stickPulse
	right       stickPulse
	sprint      bool
	jump        bool
	kick        bool
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(stepper Stepper, player ControlledBody, camera CameraView, blocks BlockQuerier) *Console {
	return &Console{
		stepper:      stepper,
		player:       player,
		camera:       camera,
		blocks:       blocks,
		out:          os.Stdout,
		tickInterval: defaultTickInterval,
		movePulse:    defaultMovePulse,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.stepper == nil {
		return fmt.Errorf("console stepper is nil")
	}
	if c.player == nil {
		return fmt.Errorf("console player is nil")
	}
	if c.camera == nil {
		return fmt.Errorf("console camera is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprintf(c.out, "[debug] console started for %s (W/A/S/D, arrows, Space, K, ], X, :)\r\n", c.player.Name())
	c.renderStatusLine()

	go c.tickLoop(ctx)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C is swallowed by raw mode
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.step(time.Now())
			c.renderStatusLine()
		}
	}
}

func (c *Console) step(now time.Time) {
	input := c.takeInput(now)
	err := c.stepper.Step(c.tickInterval.Seconds(), map[string]body.Input{c.player.Name(): input})
	if err != nil {
		slog.Debug("debug step failed", "error", err)
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.left, 1, 1)
	case 's', 'S':
		c.pulse(&c.left, 1, -1)
	case 'a', 'A':
		c.pulse(&c.left, 0, -1)
	case 'd', 'D':
		c.pulse(&c.left, 0, 1)
	case ' ':
		c.press(func() { c.jump = true })
	case 'k', 'K':
		c.press(func() { c.kick = true })
	case ']':
		c.toggleSprint()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D':
			c.pulse(&c.right, 0, -1)
		case 'C':
			c.pulse(&c.right, 0, 1)
		case 'A':
			c.pulse(&c.right, 1, 1)
		case 'B':
			c.pulse(&c.right, 1, -1)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		st := c.player.State()
		clip := c.player.Animation()
		fmt.Fprintf(c.out, "[debug] %s pos=(%.3f,%.3f,%.3f) yaw=%.1f pitch=%.1f vy=%.3f ground=%t sprint=%t clip=%s@%.1f\r\n",
			c.player.Name(),
			st.Position.X(), st.Position.Y(), st.Position.Z(),
			st.Yaw, st.Pitch, st.VerticalVelocity,
			st.Grounded, st.Sprinting,
			clip.Name, clip.Speed,
		)
	case "cam":
		pos, fwd := c.camera.Position(), c.camera.Forward()
		fmt.Fprintf(c.out, "[debug] camera pos=(%.3f,%.3f,%.3f) fwd=(%.3f,%.3f,%.3f)\r\n",
			pos.X(), pos.Y(), pos.Z(), fwd.X(), fwd.Y(), fwd.Z())
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.player.SetPosition(mgl64.Vec3{x, y, z})
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "block":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :block <x> <y> <z>\r\n")
			return
		}
		if c.blocks == nil {
			fmt.Fprint(c.out, "[debug] no block arena loaded\r\n")
			return
		}
		x, err1 := strconv.Atoi(parts[1])
		y, err2 := strconv.Atoi(parts[2])
		z, err3 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid block args\r\n")
			return
		}
		fmt.Fprintf(c.out, "[debug] block (%d,%d,%d): solid=%t\r\n", x, y, z, c.blocks.IsSolid(x, y, z))
	case "scheme":
		if len(parts) != 2 {
			fmt.Fprint(c.out, "[debug] usage: :scheme <single|twin|fps|relative>\r\n")
			return
		}
		scheme, err := physics.ParseScheme(parts[1])
		if err != nil {
			fmt.Fprintf(c.out, "[debug] %v\r\n", err)
			return
		}
		c.stepper.SetScheme(scheme)
		fmt.Fprintf(c.out, "[debug] scheme set to %s\r\n", scheme)
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse left stick (~180ms)\r\n")
	fmt.Fprint(c.out, "  Arrows: pulse right stick (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  K: kick\r\n")
	fmt.Fprint(c.out, "  ]: toggle sprint\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :block <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :scheme <single|twin|fps|relative>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :cam\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	left, right, sprint := c.left.value, c.right.value, c.sprint
	width := c.statusWidth
	c.mu.Unlock()

	st := c.player.State()
	line := fmt.Sprintf(
		"[L:(%+.0f,%+.0f) R:(%+.0f,%+.0f) SPR:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
		left.X(), left.Y(),
		right.X(), right.Y(),
		boolLabel(sprint),
		st.Yaw,
		st.Pitch,
		st.Position.X(),
		st.Position.Y(),
		st.Position.Z(),
		st.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) pulse(p *stickPulse, axis int, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p.set(axis, v, time.Now().Add(c.movePulse))
}

func (c *Console) press(update func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update()
}

// takeInput returns this frame's input and consumes the button edges.
func (c *Console) takeInput(now time.Time) body.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.left.expire(now)
	c.right.expire(now)
	in := body.Input{
		Left:  c.left.value,
		Right: c.right.value,
		Jump:  c.jump,
		Kick:  c.kick,
	}
	if c.sprint {
		in.Sprint = 1
	}
	c.jump, c.kick = false, false
	return in
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func (c *Console) toggleSprint() {
	c.mu.Lock()
	c.sprint = !c.sprint
	enabled := c.sprint
	c.mu.Unlock()
	slog.Debug("debug sprint toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.left = stickPulse{}
	c.right = stickPulse{}
	c.sprint, c.jump, c.kick = false, false, false
	c.mu.Unlock()
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
