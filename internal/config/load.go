package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/focusar/internal/core/presentation"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOCUSAR_"

// Load decodes YAML over the defaults. An empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadFile loads path, applies environment overrides and validates the result.
// An empty path means defaults plus environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if cfg, err = Load(f); err != nil {
			return Config{}, err
		}
		if err := cfg.loadCatalogFile(filepath.Dir(path)); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadCatalogFile folds the external catalog into Descriptions.
func (c *Config) loadCatalogFile(dir string) error {
	name := c.Presentation.CatalogFile
	if name == "" {
		return nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	cat, err := presentation.LoadCatalog(f)
	if err != nil {
		return err
	}
	c.Presentation.Descriptions = cat.Merge(c.Presentation.Descriptions)
	return nil
}

// overrides lists the scalar settings that can come from the environment.
type overrides struct {
	LogLevel        string        `env:"LOG_LEVEL"`
	TickRate        float64       `env:"TICK_RATE"`
	MaxDistance     float64       `env:"MAX_DISTANCE"`
	Cooldown        time.Duration `env:"COOLDOWN"`
	FocusThreshold  time.Duration `env:"FOCUS_THRESHOLD"`
	DisplayDuration time.Duration `env:"DISPLAY_DURATION"`
	ReticleDistance float64       `env:"RETICLE_DISTANCE"`
	CapFactor       float64       `env:"CAP_FACTOR"`
	Listen          string        `env:"LISTEN"`
}

// ApplyEnv overlays FOCUSAR_* variables from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix})
}

// ApplyEnvFrom overlays FOCUSAR_* variables from the given map.
func (c *Config) ApplyEnvFrom(environ map[string]string) error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func (c *Config) applyEnv(opts env.Options) error {
	o := overrides{
		LogLevel:        c.LogLevel,
		TickRate:        c.TickRate,
		MaxDistance:     c.Focus.MaxDistance,
		Cooldown:        c.Focus.Cooldown,
		FocusThreshold:  c.Focus.FocusThreshold,
		DisplayDuration: c.Focus.DisplayDuration,
		ReticleDistance: c.Focus.ReticleDistance,
		CapFactor:       c.Proximity.CapFactor,
		Listen:          c.Server.Listen,
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	c.LogLevel = o.LogLevel
	c.TickRate = o.TickRate
	c.Focus.MaxDistance = o.MaxDistance
	c.Focus.Cooldown = o.Cooldown
	c.Focus.FocusThreshold = o.FocusThreshold
	c.Focus.DisplayDuration = o.DisplayDuration
	c.Focus.ReticleDistance = o.ReticleDistance
	c.Proximity.CapFactor = o.CapFactor
	c.Server.Listen = o.Listen
	return nil
}

// Encode writes the configuration as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Fingerprint is a short stable hash of the effective configuration, logged at
// startup and announced to remote renderers.
func (c Config) Fingerprint() string {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(buf.Bytes()))
}
