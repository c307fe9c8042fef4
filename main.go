package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/overlay-it/internal/background"
	"github.com/iburimskiy/overlay-it/internal/batch"
	"github.com/iburimskiy/overlay-it/internal/config"
	"github.com/iburimskiy/overlay-it/internal/driver"
	"github.com/iburimskiy/overlay-it/internal/game"
	"github.com/iburimskiy/overlay-it/internal/logging"
	"github.com/iburimskiy/overlay-it/internal/shape"
	"github.com/iburimskiy/overlay-it/internal/snapshot"
	"github.com/iburimskiy/overlay-it/internal/soundtrack"
)

const loadTimeout = 30 * time.Second

func main() {
	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "overlay:", err)
		if cfg.Snapshot == "" {
			_ = zenity.Error(err.Error(), zenity.Title("Overlay It"))
		}
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	log := logging.New(os.Stderr, level)

	location := cfg.Image
	if location == "" {
		picked, err := background.Pick()
		if errors.Is(err, background.ErrNoImage) {
			log.Info("no background selected, exiting")
			return nil
		}
		if err != nil {
			return err
		}
		location = picked
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	bg, err := background.Load(ctx, location)
	cancel()
	if err != nil {
		return err
	}
	log.Info("background loaded", "source", bg.Source, "format", bg.Format, "width", bg.Width(), "height", bg.Height())

	canvas, err := shape.NewCanvas(float64(bg.Width()), float64(bg.Height()))
	if err != nil {
		return err
	}
	factory, err := shape.NewFactory(canvas, shape.NewRand(cfg.Seed))
	if err != nil {
		return err
	}
	gen, err := batch.NewGenerator(factory)
	if err != nil {
		return err
	}

	if cfg.Snapshot != "" {
		return writeSnapshot(cfg, bg, gen, log)
	}

	loop, err := driver.New(driver.Config{
		Generator: gen,
		Count:     cfg.ShapeCount,
		Interval:  cfg.Interval,
		Fade:      cfg.Fade,
		Floor:     cfg.FadeFloor,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	if cfg.Music != "" {
		track, err := soundtrack.Play(cfg.Music, log)
		if err != nil {
			log.Warn("soundtrack disabled", "err", err)
		} else {
			defer track.Close()
		}
	}

	return game.Run(game.New(bg.Img, loop, cfg.HUD), config.WindowTitle)
}

func writeSnapshot(cfg config.Config, bg *background.Image, gen *batch.Generator, log *slog.Logger) error {
	b, err := gen.Generate(context.Background(), cfg.ShapeCount)
	if err != nil {
		return err
	}
	img, err := snapshot.Render(bg.Img, b, 1)
	if err != nil {
		return err
	}
	if err := snapshot.Save(cfg.Snapshot, img); err != nil {
		return err
	}
	log.Info("snapshot written", "path", cfg.Snapshot, "summary", batch.Summarize(b))
	return nil
}
