// Package config holds the overlay's tunables and binds them to flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/iburimskiy/overlay-it/internal/logging"
)

const (
	WindowTitle = "Overlay It - any key to exit"

	DefaultShapeCount = 1000
	DefaultInterval   = 3 * time.Second
	DefaultFade       = 0
	DefaultFadeFloor  = 0.4
	DefaultLogLevel   = "info"
)

// ErrInvalid marks configuration the overlay refuses to start with.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// Image is a path or file/http(s) URL; empty asks the user to pick one.
	Image string
	// Music optionally loops an audio file under the overlay.
	Music string
	// Snapshot renders one batch to this PNG path and exits.
	Snapshot string

	ShapeCount int
	Interval   time.Duration
	Fade       time.Duration
	FadeFloor  float64
	Seed       uint64
	HUD        bool
	LogLevel   string
}

func Default() Config {
	return Config{
		ShapeCount: DefaultShapeCount,
		Interval:   DefaultInterval,
		Fade:       DefaultFade,
		FadeFloor:  DefaultFadeFloor,
		LogLevel:   DefaultLogLevel,
	}
}

// RegisterFlags binds every field to fs, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Image, "image", c.Image, "background image path or URL (empty opens a file picker)")
	fs.StringVar(&c.Music, "music", c.Music, "optional wav/mp3/flac file looped while the overlay runs")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "render a single batch to this PNG file and exit")
	fs.IntVar(&c.ShapeCount, "count", c.ShapeCount, "shapes per batch")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between batches")
	fs.DurationVar(&c.Fade, "fade", c.Fade, "cross-fade duration, 0 disables fading")
	fs.Float64Var(&c.FadeFloor, "fade-floor", c.FadeFloor, "layer opacity at the bottom of a fade")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show generation statistics")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// Validate fails fast on values the cycle cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.ShapeCount <= 0 {
		errs = append(errs, fmt.Errorf("count %d must be positive", c.ShapeCount))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval %v must be positive", c.Interval))
	}
	if c.Fade < 0 {
		errs = append(errs, fmt.Errorf("fade %v must not be negative", c.Fade))
	}
	if c.FadeFloor < 0 || c.FadeFloor >= 1 {
		errs = append(errs, fmt.Errorf("fade floor %v must be in [0, 1)", c.FadeFloor))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
