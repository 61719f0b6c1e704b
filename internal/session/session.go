package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/molleindustria/localplay/internal/body"
	"github.com/molleindustria/localplay/internal/camera"
	"github.com/molleindustria/localplay/internal/event"
	"github.com/molleindustria/localplay/internal/physics"
)

var (
	ErrSessionFull   = errors.New("session: all player slots are taken")
	ErrUnknownPlayer = errors.New("session: unknown player")
)

// Player is one joined slot: its character and, in split screen, its own
// camera.
type Player struct {
	Index     int
	Character *body.Character
	Camera    *camera.Follow
	Team      Team
}

func (p *Player) Name() string {
	return p.Character.Name()
}

// Session composes characters and cameras for local multiplayer and steps
// them in join order.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	mover   physics.Mover
	bus     *event.Bus
	players *orderedmap.OrderedMap[string, *Player]
	shared  *camera.Follow
}

func New(cfg Config, mover physics.Mover, bus *event.Bus) (*Session, error) {
	if mover == nil {
		return nil, physics.ErrNoMover
	}
	if cfg.MaxPlayers <= 0 {
		return nil, fmt.Errorf("session: max players must be positive, got %d", cfg.MaxPlayers)
	}
	s := &Session{
		cfg:     cfg,
		mover:   mover,
		bus:     bus,
		players: orderedmap.NewOrderedMap[string, *Player](),
	}
	if !cfg.SplitScreen {
		// One static camera frames the whole arena.
		s.shared = camera.New(cfg.SharedCamera, nil, cfg.Camera)
	}
	return s, nil
}

// Join adds the next player, named by join order ("Player1", "Player2", ...).
func (s *Session) Join() (*Player, error) {
	s.mu.Lock()
	index := s.players.Len()
	if index >= s.cfg.MaxPlayers {
		s.mu.Unlock()
		return nil, ErrSessionFull
	}

	integrator, err := physics.NewIntegrator(s.cfg.Scheme, s.cfg.Constants, s.mover)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("join player %d: %w", index+1, err)
	}

	name := fmt.Sprintf("Player%d", index+1)
	spawn := s.cfg.spawnPoint(index)
	character := body.New(name, spawn, integrator, s.bus)
	character.SetAnimationConfig(s.cfg.Animation)

	player := &Player{
		Index:     index,
		Character: character,
		Team:      s.cfg.teamFor(index),
	}
	if s.cfg.SplitScreen {
		player.Camera = camera.New(spawn.Add(s.cfg.CameraOffset), character, s.cfg.Camera)
	}
	s.players.Set(name, player)
	s.mu.Unlock()

	s.bus.Publish(event.EventJoin, &event.JoinEvent{
		Player: name,
		Index:  index,
		Team:   player.Team.Name,
		Color:  player.Team.Color.Hex(),
	})
	return player, nil
}

func (s *Session) Player(name string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	return p, nil
}

// Players returns the roster in join order.
func (s *Session) Players() []*Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Player, 0, s.players.Len())
	for _, name := range s.players.Keys() {
		p, _ := s.players.Get(name)
		out = append(out, p)
	}
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Len()
}

// Camera returns the camera that renders the named player: its own in split
// screen, the shared one otherwise.
func (s *Session) Camera(name string) (*camera.Follow, error) {
	p, err := s.Player(name)
	if err != nil {
		return nil, err
	}
	if p.Camera != nil {
		return p.Camera, nil
	}
	return s.shared, nil
}

func (s *Session) SplitScreen() bool {
	return s.cfg.SplitScreen
}

// Step advances every player by dt. Each character ticks before its camera
// updates, so the camera reads the transform of the same frame. Players
// missing from inputs get neutral input.
func (s *Session) Step(dt float64, inputs map[string]body.Input) error {
	players, err := s.frame(inputs)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := stepPlayer(p, inputs[p.Name()], dt); err != nil {
			return err
		}
	}
	s.shared.Update(dt)
	return nil
}

// StepParallel is Step with players advanced concurrently. Players share no
// mutable state, so the result matches Step.
func (s *Session) StepParallel(ctx context.Context, dt float64, inputs map[string]body.Input) error {
	players, err := s.frame(inputs)
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range players {
		in := inputs[p.Name()]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return stepPlayer(p, in, dt)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.shared.Update(dt)
	return nil
}

func (s *Session) frame(inputs map[string]body.Input) ([]*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range inputs {
		if _, ok := s.players.Get(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
		}
	}
	out := make([]*Player, 0, s.players.Len())
	for _, name := range s.players.Keys() {
		p, _ := s.players.Get(name)
		out = append(out, p)
	}
	return out, nil
}

func stepPlayer(p *Player, in body.Input, dt float64) error {
	if err := p.Character.Tick(in, dt); err != nil {
		return fmt.Errorf("tick %s: %w", p.Name(), err)
	}
	p.Camera.Update(dt)
	return nil
}

// ApplyConstants retunes every character. Call it between frames.
func (s *Session) ApplyConstants(c physics.Constants) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Constants = c
	for _, name := range s.players.Keys() {
		p, _ := s.players.Get(name)
		p.Character.Integrator().SetConstants(c)
	}
	slog.Info("Movement constants applied", "players", s.players.Len(), "speed", c.Speed, "jump_height", c.JumpHeight)
}

// SetScheme switches every character's scheme. Call it between frames.
func (s *Session) SetScheme(scheme physics.Scheme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Scheme = scheme
	for _, name := range s.players.Keys() {
		p, _ := s.players.Get(name)
		p.Character.Integrator().SetScheme(scheme)
	}
	slog.Info("Movement scheme applied", "players", s.players.Len(), "scheme", scheme)
}

// Team is the side a player is on and the tint its body renders with.
type Team struct {
	Name  string
	Color colorful.Color
}

// Config composes a session. Zero values are not usable; start from
// DefaultConfig.
type Config struct {
	MaxPlayers int
	Scheme     physics.Scheme
	Constants  physics.Constants
	Animation  body.AnimationConfig
	Camera     camera.Config

	// SplitScreen gives each player a follow camera placed at spawn plus
	// CameraOffset. Without it one camera stays at SharedCamera.
	SplitScreen  bool
	CameraOffset mgl64.Vec3
	SharedCamera mgl64.Vec3

	// Spawns are used in join order and wrap around. Empty spawns line
	// players up along +X, SpawnSpacing apart.
	Spawns       []mgl64.Vec3
	SpawnSpacing float64

	// The first TeamSize players join TeamA, the rest TeamB.
	TeamSize int
	TeamA    Team
	TeamB    Team
}

var (
	DefaultTeamA = Team{Name: "A", Color: colorful.Color{R: 0.9, G: 0.22, B: 0.27}}
	DefaultTeamB = Team{Name: "B", Color: colorful.Color{R: 0.27, G: 0.48, B: 0.62}}
)

func DefaultConfig() Config {
	return Config{
		MaxPlayers:   4,
		Scheme:       physics.SingleStick,
		Constants:    physics.DefaultConstants(),
		Animation:    body.DefaultAnimationConfig(),
		Camera:       camera.DefaultConfig(),
		SplitScreen:  true,
		CameraOffset: mgl64.Vec3{0, 5, -10},
		SharedCamera: mgl64.Vec3{0, 20, -20},
		SpawnSpacing: 2,
		TeamSize:     2,
		TeamA:        DefaultTeamA,
		TeamB:        DefaultTeamB,
	}
}

func (c Config) spawnPoint(index int) mgl64.Vec3 {
	if len(c.Spawns) > 0 {
		return c.Spawns[index%len(c.Spawns)]
	}
	return mgl64.Vec3{float64(index) * c.SpawnSpacing, 0, 0}
}

func (c Config) teamFor(index int) Team {
	if index < c.TeamSize {
		return c.TeamA
	}
	return c.TeamB
}
