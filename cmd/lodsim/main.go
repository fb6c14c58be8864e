// lodsim flies a camera toward the planet and back without a window and prints one JSON
// line of LOD and mesh statistics per frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/spacecraft/internal/config"
	"github.com/Faultbox/spacecraft/internal/debugserver"
	"github.com/Faultbox/spacecraft/internal/engine/camera"
	"github.com/Faultbox/spacecraft/internal/game"
	"github.com/Faultbox/spacecraft/internal/logger"
)

var (
	flagFrames  = flag.Int("frames", 600, "Number of frames to simulate")
	flagNear    = flag.Float64("near", 0.01, "Closest approach as altitude in planet radii")
	flagSummary = flag.Bool("summary", false, "Print only the last frame")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the frame reports, so logs only go to the file if one is set
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, false); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "lodsim: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	world, err := game.NewWorld(cfg)
	if err != nil {
		return err
	}

	r := cfg.Planet.Radius
	script := camera.Scripted{
		From:   mgl32.Vec3{0, 0, r * cfg.Camera.StartDistance},
		To:     mgl32.Vec3{0, 0, r * (1 + float32(*flagNear))},
		Frames: *flagFrames,
	}
	cam := camera.NewFlyCamera(script.From)
	world.AddCamera(cam, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.Metrics.Listen != "" {
		go debugserver.ListenAndServe(ctx, debugserver.New(cfg.Metrics.Listen, world))
	}

	enc := json.NewEncoder(os.Stdout)
	var last game.FrameStats
	for i := 0; i <= *flagFrames; i++ {
		if ctx.Err() != nil {
			logger.Info("interrupted", zap.Int("frame", i))
			break
		}
		cam.Position = script.At(i)
		last = world.Tick()
		if !*flagSummary {
			if err := enc.Encode(last); err != nil {
				return fmt.Errorf("writing frame %d: %w", i, err)
			}
		}
	}

	if *flagSummary {
		return enc.Encode(last)
	}
	return nil
}
