package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/molleindustria/localplay/internal/config"
	"github.com/molleindustria/localplay/internal/debug"
	"github.com/molleindustria/localplay/internal/event"
	"github.com/molleindustria/localplay/internal/logger"
	"github.com/molleindustria/localplay/internal/physics"
	"github.com/molleindustria/localplay/internal/session"
	"github.com/molleindustria/localplay/internal/world"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	interactive := flag.Bool("interactive", false, "drive Player1 from the terminal")
	watch := flag.Bool("watch", false, "reload movement tuning when the config file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	out, closeLog, err := logger.OpenFile(cfg.Logging.File)
	if err != nil {
		slog.Error("Failed to open log file", "error", err)
		os.Exit(1)
	}
	defer closeLog()
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: out,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *configPath, *interactive, *watch); err != nil {
		slog.Error("Simulation stopped", "error", err)
		stop()
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, configPath string, interactive, watch bool) error {
	bus := event.NewBus()
	event.SubscribeLogging(bus)

	mover, arena, err := buildMover(cfg.Arena)
	if err != nil {
		return err
	}
	sc, err := cfg.SessionConfig()
	if err != nil {
		return err
	}
	sess, err := session.New(sc, mover, bus)
	if err != nil {
		return err
	}

	players := cfg.Sim.Players
	if interactive && players < 1 {
		players = 1
	}
	for range players {
		if _, err := sess.Join(); err != nil {
			return fmt.Errorf("join: %w", err)
		}
	}
	slog.Info("Session ready",
		"players", sess.Len(),
		"scheme", cfg.Movement.Scheme,
		"mover", cfg.Arena.Mover,
		"split_screen", sess.SplitScreen(),
	)

	var reloads <-chan string
	if watch {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer w.Close()
		reloads = w.Events
		slog.Info("Watching config for changes", "path", configPath)
	}

	if interactive {
		// The console steps on its own ticker; integrators pick up a reload
		// on their next frame.
		if reloads != nil {
			go func() {
				for path := range reloads {
					applyReload(sess, path)
				}
			}()
		}
		return runConsole(ctx, sess, arena)
	}
	return runScripted(ctx, sess, cfg.Sim, reloads)
}

func buildMover(cfg config.ArenaConfig) (physics.Mover, *world.Arena, error) {
	switch cfg.Mover {
	case "plane":
		return physics.PlaneMover{FloorY: float64(cfg.FloorY + 1)}, nil, nil
	case "voxel":
		arena, err := world.NewFloorArena(cfg.FloorY, cfg.HalfSize, cfg.Walls)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Arena built", "half_size", cfg.HalfSize, "solid_blocks", arena.SolidCount())
		return physics.NewVoxelMover(arena), arena, nil
	default:
		return nil, nil, fmt.Errorf("unknown mover %q", cfg.Mover)
	}
}

func runConsole(ctx context.Context, sess *session.Session, arena *world.Arena) error {
	players := sess.Players()
	if len(players) == 0 {
		return errors.New("no player to control")
	}
	p := players[0]
	cam, err := sess.Camera(p.Name())
	if err != nil {
		return err
	}

	var blocks debug.BlockQuerier
	if arena != nil {
		blocks = arena
	}
	return debug.NewConsole(sess, p.Character, cam, blocks).Start(ctx)
}

// runScripted steps the session with scripted input for the configured number
// of frames, applying config reloads between frames.
func runScripted(ctx context.Context, sess *session.Session, sim config.SimConfig, reloads <-chan string) error {
	dt := sim.TickInterval()
	players := sess.Players()

	for frame := 0; frame < sim.Frames; frame++ {
		select {
		case <-ctx.Done():
			slog.Info("Interrupted", "frame", frame)
			return nil
		case path, ok := <-reloads:
			if ok {
				applyReload(sess, path)
			}
		default:
		}

		inputs := scriptedInputs(players, frame, dt)
		var err error
		if sim.Parallel {
			err = sess.StepParallel(ctx, dt, inputs)
		} else {
			err = sess.Step(dt, inputs)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	for _, p := range players {
		st := p.Character.State()
		cam, _ := sess.Camera(p.Name())
		slog.Info("Final transform",
			"player", p.Name(),
			"pos", st.Position,
			"yaw", st.Yaw,
			"grounded", st.Grounded,
			"clip", p.Character.Animation().Name,
			"camera", cam.Position(),
		)
	}
	return nil
}

func applyReload(sess *session.Session, path string) {
	cfg, err := config.Load(path)
	if err != nil {
		slog.Warn("Config reload rejected", "path", path, "error", err)
		return
	}
	sess.SetScheme(cfg.Movement.Scheme)
	sess.ApplyConstants(cfg.Movement.Constants())
}
