package debug

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/body"
	"github.com/molleindustria/localplay/internal/physics"
)

type fakeStepper struct {
	dts    []float64
	inputs []map[string]body.Input
	scheme physics.Scheme
}

func (f *fakeStepper) Step(dt float64, inputs map[string]body.Input) error {
	f.dts = append(f.dts, dt)
	f.inputs = append(f.inputs, inputs)
	return nil
}

func (f *fakeStepper) SetScheme(scheme physics.Scheme) {
	f.scheme = scheme
}

type fakeBody struct {
	state physics.CharacterState
}

func (f *fakeBody) Name() string                  { return "Player1" }
func (f *fakeBody) State() physics.CharacterState { return f.state }
func (f *fakeBody) Animation() body.Clip          { return body.Clip{Name: body.ClipIdle, Speed: 1} }
func (f *fakeBody) SetPosition(pos mgl64.Vec3)    { f.state.Position = pos }

type fakeCamera struct{}

func (fakeCamera) Position() mgl64.Vec3 { return mgl64.Vec3{0, 5, -10} }
func (fakeCamera) Forward() mgl64.Vec3  { return mgl64.Vec3{0, 0, 1} }

type fakeBlocks map[[3]int]bool

func (f fakeBlocks) IsSolid(x, y, z int) bool { return f[[3]int{x, y, z}] }

func newTestConsole() (*Console, *fakeStepper, *fakeBody, *bytes.Buffer) {
	stepper := &fakeStepper{}
	player := &fakeBody{}
	out := &bytes.Buffer{}
	c := NewConsole(stepper, player, fakeCamera{}, fakeBlocks{{0, -1, 0}: true})
	c.out = out
	return c, stepper, player, out
}

func feed(c *Console, keys string) {
	reader := bufio.NewReader(strings.NewReader(keys))
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		c.handleKey(reader, b)
	}
}

func TestKeysPulseSticks(t *testing.T) {
	c, _, _, _ := newTestConsole()

	feed(c, "wd\x1b[C\x1b[A")
	in := c.takeInput(time.Now())

	if in.Left != (mgl64.Vec2{1, 1}) {
		t.Fatalf("left = %v, want (1, 1)", in.Left)
	}
	if in.Right != (mgl64.Vec2{1, 1}) {
		t.Fatalf("right = %v, want (1, 1)", in.Right)
	}

	in = c.takeInput(time.Now().Add(time.Second))
	if in.Left != (mgl64.Vec2{}) || in.Right != (mgl64.Vec2{}) {
		t.Fatalf("pulses did not expire: %+v", in)
	}
}

func TestOppositeKeyReplacesAxis(t *testing.T) {
	c, _, _, _ := newTestConsole()

	feed(c, "ws")
	if in := c.takeInput(time.Now()); in.Left != (mgl64.Vec2{0, -1}) {
		t.Fatalf("left = %v, want (0, -1)", in.Left)
	}
}

func TestButtonEdgesLastOneFrame(t *testing.T) {
	c, _, _, _ := newTestConsole()

	feed(c, " k]")
	in := c.takeInput(time.Now())
	if !in.Jump || !in.Kick || in.Sprint != 1 {
		t.Fatalf("first frame input = %+v", in)
	}

	in = c.takeInput(time.Now())
	if in.Jump || in.Kick {
		t.Fatalf("edges repeated: %+v", in)
	}
	if in.Sprint != 1 {
		t.Fatalf("sprint toggle dropped: %+v", in)
	}

	feed(c, "x")
	if in := c.takeInput(time.Now()); in != (body.Input{}) {
		t.Fatalf("clear left input %+v", in)
	}
}

func TestStepDrivesControlledPlayer(t *testing.T) {
	c, stepper, _, _ := newTestConsole()

	feed(c, "a")
	c.step(time.Now())

	if len(stepper.dts) != 1 || stepper.dts[0] != defaultTickInterval.Seconds() {
		t.Fatalf("dts = %v", stepper.dts)
	}
	in, ok := stepper.inputs[0]["Player1"]
	if !ok || in.Left != (mgl64.Vec2{-1, 0}) {
		t.Fatalf("inputs = %+v", stepper.inputs[0])
	}
}

func TestCommands(t *testing.T) {
	c, stepper, player, out := newTestConsole()

	feed(c, ":tp 1 2 3\r")
	if player.state.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("tp position = %v", player.state.Position)
	}

	feed(c, ":scheme fps\r")
	if stepper.scheme != physics.FirstPersonLook {
		t.Fatalf("scheme = %v, want first_person", stepper.scheme)
	}

	out.Reset()
	feed(c, ":block 0 -1 0\r")
	if !strings.Contains(out.String(), "solid=true") {
		t.Fatalf("block output = %q", out.String())
	}

	out.Reset()
	feed(c, ":nope\r")
	if !strings.Contains(out.String(), "unknown command: nope") {
		t.Fatalf("unknown output = %q", out.String())
	}

	out.Reset()
	feed(c, ":sta\x7fate\r")
	if !strings.Contains(out.String(), "Player1 pos=(1.000,2.000,3.000)") {
		t.Fatalf("state output = %q", out.String())
	}
}

func TestCommandModeSwallowsKeys(t *testing.T) {
	c, _, _, out := newTestConsole()

	feed(c, ":wasd\x1b")
	if in := c.takeInput(time.Now()); in.Left != (mgl64.Vec2{}) {
		t.Fatalf("command text moved the stick: %v", in.Left)
	}
	if !strings.Contains(out.String(), "command cancelled") {
		t.Fatalf("output = %q", out.String())
	}
}
