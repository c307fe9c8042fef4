package config

import (
	"errors"
	"flag"
	"io"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.ShapeCount != 1000 || c.Interval != 3*time.Second || c.Fade != 0 {
		t.Errorf("Default() = %+v, want 1000 shapes every 3s without fade", c)
	}
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("overlay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.RegisterFlags(fs)

	args := []string{"-image", "bg.png", "-count", "50", "-interval", "500ms", "-fade", "1s", "-seed", "7", "-hud"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Image != "bg.png" || c.ShapeCount != 50 || c.Interval != 500*time.Millisecond ||
		c.Fade != time.Second || c.Seed != 7 || !c.HUD {
		t.Errorf("parsed config = %+v", c)
	}
	if c.FadeFloor != DefaultFadeFloor {
		t.Errorf("FadeFloor = %v, want default %v", c.FadeFloor, DefaultFadeFloor)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero count", func(c *Config) { c.ShapeCount = 0 }, "count"},
		{"zero interval", func(c *Config) { c.Interval = 0 }, "interval"},
		{"negative fade", func(c *Config) { c.Fade = -time.Second }, "fade"},
		{"floor of one", func(c *Config) { c.FadeFloor = 1 }, "fade floor"},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want mention of %q", err, tt.want)
			}
		})
	}
}
