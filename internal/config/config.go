// Package config loads the interaction engine configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/focusar/internal/core/activation"
	"github.com/zeusync/focusar/internal/core/audio"
	"github.com/zeusync/focusar/internal/core/focus"
	"github.com/zeusync/focusar/internal/core/observability/log"
	"github.com/zeusync/focusar/internal/core/presentation"
	"github.com/zeusync/focusar/internal/core/proximity"
	"github.com/zeusync/focusar/internal/core/systems/physics"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	LogLevel string `yaml:"log_level"`
	// TickRate is the frame rate in Hz used by the runner.
	TickRate float64 `yaml:"tick_rate"`

	Focus        FocusConfig         `yaml:"focus"`
	Proximity    ProximityConfig     `yaml:"proximity"`
	Presentation PresentationConfig  `yaml:"presentation"`
	Activations  []activation.Window `yaml:"activations,omitempty"`
	Server       ServerConfig        `yaml:"server"`
}

type FocusConfig struct {
	MaxDistance     float64       `yaml:"max_distance"`
	Cooldown        time.Duration `yaml:"cooldown"`
	FocusThreshold  time.Duration `yaml:"focus_threshold"`
	DisplayDuration time.Duration `yaml:"display_duration"`
	ReticleObject   string        `yaml:"reticle_object"`
	ReticleDistance float64       `yaml:"reticle_distance"`
}

type ProximityConfig struct {
	// TargetObject is the virtual object on the content marker. Empty
	// disables the controller.
	TargetObject   string           `yaml:"target_object"`
	BaselineScale  physics.Vec3     `yaml:"baseline_scale"`
	BaselineOffset physics.Vec3     `yaml:"baseline_offset"`
	CapFactor      float64          `yaml:"cap_factor"`
	Below          float64          `yaml:"below"`
	Bands          []proximity.Band `yaml:"bands"`
	MarkerA        string           `yaml:"marker_a"`
	MarkerB        string           `yaml:"marker_b"`
}

type PresentationConfig struct {
	// DefaultCatalog layers Descriptions over the built-in part descriptions.
	DefaultCatalog bool `yaml:"default_catalog"`
	// CatalogFile is a YAML identifier to description map, relative to the
	// config file. Inline Descriptions win over it.
	CatalogFile  string            `yaml:"catalog_file,omitempty"`
	Descriptions map[string]string `yaml:"descriptions,omitempty"`
	// Audio maps candidate identifiers to clip handles.
	Audio map[string]string `yaml:"audio,omitempty"`
}

type ServerConfig struct {
	// Listen enables the websocket presentation feed when set, e.g. ":8090".
	Listen       string        `yaml:"listen"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	SendBuffer   int           `yaml:"send_buffer"`
}

// Default returns the settings the jet engine and robot scenes ship with.
func Default() Config {
	fc := focus.DefaultConfig()
	curve := proximity.DefaultCurve()
	return Config{
		LogLevel: "info",
		TickRate: 60,
		Focus: FocusConfig{
			MaxDistance:     fc.MaxDistance,
			Cooldown:        fc.Cooldown,
			FocusThreshold:  fc.FocusThreshold,
			DisplayDuration: fc.DisplayDuration,
			ReticleObject:   "reticle",
			ReticleDistance: 2,
		},
		Proximity: ProximityConfig{
			TargetObject:   "content",
			BaselineScale:  physics.Splat(1),
			BaselineOffset: physics.Vec3{Y: 0.75},
			CapFactor:      proximity.DefaultConfig().CapFactor,
			Below:          curve.Below(),
			Bands:          curve.Bands(),
			MarkerA:        "content",
			MarkerB:        "minus",
		},
		Presentation: PresentationConfig{DefaultCatalog: true},
		Server: ServerConfig{
			Path:         "/ws",
			WriteTimeout: 5 * time.Second,
			SendBuffer:   256,
		},
	}
}

// Validate checks every value the engine constructors would reject, so a bad
// file fails before anything runs.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %v must be positive", ErrInvalid, c.TickRate)
	}
	if err := c.FocusConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Focus.ReticleDistance < 0 {
		return fmt.Errorf("%w: reticle distance %v is negative", ErrInvalid, c.Focus.ReticleDistance)
	}
	if _, err := c.ProximityConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for _, w := range c.Activations {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if c.Server.SendBuffer < 0 {
		return fmt.Errorf("%w: send buffer %d is negative", ErrInvalid, c.Server.SendBuffer)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() log.Level { return log.ParseLevel(c.LogLevel) }

// TickInterval is the duration of one frame.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.TickRate)
}

func (c Config) FocusConfig() focus.Config {
	return focus.Config{
		MaxDistance:     c.Focus.MaxDistance,
		Cooldown:        c.Focus.Cooldown,
		FocusThreshold:  c.Focus.FocusThreshold,
		DisplayDuration: c.Focus.DisplayDuration,
	}
}

func (c Config) ProximityConfig() (proximity.Config, error) {
	curve, err := proximity.NewCurve(c.Proximity.Below, c.Proximity.Bands)
	if err != nil {
		return proximity.Config{}, err
	}
	if c.Proximity.CapFactor == 0 {
		return proximity.Config{}, proximity.ErrInvalidCapFactor
	}
	return proximity.Config{Curve: curve, CapFactor: c.Proximity.CapFactor}, nil
}

// Target returns the proximity target, or nil when none is configured.
func (c Config) Target() *proximity.Target {
	if c.Proximity.TargetObject == "" {
		return nil
	}
	return &proximity.Target{
		Object: c.Proximity.TargetObject,
		Scale:  c.Proximity.BaselineScale,
		Offset: c.Proximity.BaselineOffset,
	}
}

func (c Config) Catalog() presentation.Catalog {
	extra := presentation.Catalog(c.Presentation.Descriptions)
	if c.Presentation.DefaultCatalog {
		return presentation.DefaultCatalog().Merge(extra)
	}
	return presentation.Catalog{}.Merge(extra)
}

func (c Config) Clips() audio.Clips {
	clips := make(audio.Clips, len(c.Presentation.Audio))
	for id, h := range c.Presentation.Audio {
		clips[id] = audio.Handle(h)
	}
	return clips
}
