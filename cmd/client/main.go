package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"daemon-hunt/internal/config"
	"daemon-hunt/internal/game"
	"daemon-hunt/internal/input"
	"daemon-hunt/internal/logger"
	"daemon-hunt/internal/observability"
	"daemon-hunt/internal/protocol"
	"daemon-hunt/internal/render"
	"daemon-hunt/internal/scheduler"
	"daemon-hunt/internal/transport"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.json")
	username := flag.String("username", "", "override the configured username")
	server := flag.String("server", "", "override the configured server url")
	flag.Parse()

	// Load .env file from parent directory, then the current one
	envErr := godotenv.Load("../.env")
	if envErr != nil {
		envErr = godotenv.Load(".env")
	}

	if *username != "" {
		viper.Set("username", *username)
	}
	if *server != "" {
		viper.Set("server", *server)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid configuration")
	}

	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if envErr != nil {
		logger.Log.Debug("no .env file found, using environment variables only")
	}

	if err := run(cfg); err != nil {
		logger.Log.WithError(err).Error("client stopped")
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Log.WithFields(logrus.Fields{
		"username": cfg.Username,
		"server":   cfg.Server,
	})

	conn, err := transport.Dial(ctx, cfg.Server, transport.DefaultOptions())
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info("connected")

	scene := render.NewScene()
	queue := protocol.NewQueue()
	world := game.NewWorld(game.Options{
		Username:        cfg.Username,
		Scale:           cfg.SpriteScale,
		PositionDivisor: cfg.Motion.PositionDivisor,
		RotationSpeed:   cfg.Motion.RotationSpeed,
		EnergyRate:      cfg.Battle.EnergyRate,
		BloodPoolSize:   cfg.Effects.BloodPoolSize,
		BloodPoolLimit:  cfg.Effects.BloodPoolLimit,
	}, scene, queue)

	opts := scheduler.Options{
		Username:       cfg.Username,
		TickRate:       cfg.TickRate,
		DropSampleRate: cfg.Log.DropSampleRate,
	}

	if cfg.Render.Enabled {
		opts.Renderer = render.New(render.Options{
			Width:         cfg.Window.Width,
			Height:        cfg.Window.Height,
			Scale:         cfg.SpriteScale,
			FontPath:      cfg.Render.FontPath,
			FontSize:      cfg.Render.FontSize,
			SnapshotPath:  cfg.Render.SnapshotPath,
			SnapshotEvery: cfg.Render.SnapshotEvery,
		}, scene)
	}

	if cfg.Input.Stdin {
		events := make(chan game.InputEvent, 16)
		opts.Input = events
		go func() {
			if err := input.Run(ctx, os.Stdin, events); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Warn("stdin input stopped")
			}
		}()
	}

	sched := scheduler.New(world, queue, conn, opts)

	// Start debug server
	if cfg.Debug.Enabled {
		router := observability.NewRouter(observability.RouterConfig{
			Source:      sched,
			Stats:       func() any { return debugStats(sched, conn) },
			CORSOrigins: cfg.Debug.CORSOrigins,
		})
		_, err := observability.StartDebugServer(ctx, observability.ServerConfig{
			Enabled:       true,
			ListenAddr:    cfg.Debug.ListenAddr,
			AllowExternal: cfg.Debug.AllowExternal,
		}, router)
		if err != nil {
			log.WithError(err).Warn("debug server disabled")
		}
	}

	err = sched.Run(ctx)
	st := sched.Stats()
	log.WithFields(logrus.Fields{
		"ticks":   st.Ticks,
		"frames":  st.Frames,
		"dropped": st.Dropped,
		"sent":    st.Sent,
	}).Info("client loop finished")
	return err
}

func debugStats(s *scheduler.Scheduler, c *transport.Conn) any {
	return struct {
		Loop      scheduler.Stats `json:"loop"`
		Transport transport.Stats `json:"transport"`
	}{s.Stats(), c.Stats()}
}
