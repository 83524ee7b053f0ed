// Package config loads client settings from config.json, with defaults for
// every key and DAEMON_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the settings file looked up in the config directory
const FileName = "config.json"

// EnvPrefix prefixes environment overrides, e.g. DAEMON_WINDOW_WIDTH
const EnvPrefix = "DAEMON"

// =============================================================================
// SECTIONS
// =============================================================================

// WindowConfig holds the canvas size in pixels
type WindowConfig struct {
	Width  int
	Height int
}

// EffectsConfig bounds the pooled blood effects
type EffectsConfig struct {
	BloodPoolSize  int // prefilled instances
	BloodPoolLimit int // growth bound
}

// MotionConfig holds smoothing divisors for interpolation
type MotionConfig struct {
	PositionDivisor float64
	RotationSpeed   float64
}

// BattleConfig holds battle preparation settings
type BattleConfig struct {
	EnergyRate float64 // energy per second while preparing
}

// LogConfig holds logger settings
type LogConfig struct {
	Level          string
	Format         string  // text or json
	DropSampleRate float64 // dropped-frame warnings per second
}

// DebugConfig holds debug HTTP server settings
type DebugConfig struct {
	Enabled       bool
	ListenAddr    string
	AllowExternal bool
	CORSOrigins   []string
}

// RenderConfig holds headless renderer settings
type RenderConfig struct {
	Enabled       bool
	SnapshotPath  string
	SnapshotEvery int
	FontPath      string
	FontSize      float64
}

// InputConfig selects local input sources
type InputConfig struct {
	Stdin bool
}

// =============================================================================
// COMPLETE CLIENT CONFIGURATION
// =============================================================================

// Config holds the complete client configuration
type Config struct {
	Username    string
	Server      string
	TickRate    int
	SpriteScale float64

	Window  WindowConfig
	Effects EffectsConfig
	Motion  MotionConfig
	Battle  BattleConfig
	Log     LogConfig
	Debug   DebugConfig
	Render  RenderConfig
	Input   InputConfig
}

func setDefaults() {
	viper.SetDefault("username", "")
	viper.SetDefault("server", "ws://localhost:8080/ws")
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("spriteScale", 2.0)

	viper.SetDefault("window.width", 960)
	viper.SetDefault("window.height", 720)

	viper.SetDefault("effects.bloodPoolSize", 10)
	viper.SetDefault("effects.bloodPoolLimit", 10)

	viper.SetDefault("motion.positionDivisor", 5.0)
	viper.SetDefault("motion.rotationSpeed", 5.0)

	viper.SetDefault("battle.energyRate", 6.0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.dropSampleRate", 5.0)

	viper.SetDefault("debug.enabled", false)
	viper.SetDefault("debug.listenAddr", "127.0.0.1:6061")
	viper.SetDefault("debug.allowExternal", false)
	viper.SetDefault("debug.corsOrigins", []string{})

	viper.SetDefault("render.enabled", true)
	viper.SetDefault("render.snapshotPath", "")
	viper.SetDefault("render.snapshotEvery", 60)
	viper.SetDefault("render.fontPath", "")
	viper.SetDefault("render.fontSize", 14.0)

	viper.SetDefault("input.stdin", true)
}

// Load reads configDir/config.json. A missing file is not an error; defaults
// and environment overrides still apply. The username is required.
func Load(configDir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Username:    strings.TrimSpace(viper.GetString("username")),
		Server:      viper.GetString("server"),
		TickRate:    viper.GetInt("tickRate"),
		SpriteScale: viper.GetFloat64("spriteScale"),
		Window: WindowConfig{
			Width:  viper.GetInt("window.width"),
			Height: viper.GetInt("window.height"),
		},
		Effects: EffectsConfig{
			BloodPoolSize:  viper.GetInt("effects.bloodPoolSize"),
			BloodPoolLimit: viper.GetInt("effects.bloodPoolLimit"),
		},
		Motion: MotionConfig{
			PositionDivisor: viper.GetFloat64("motion.positionDivisor"),
			RotationSpeed:   viper.GetFloat64("motion.rotationSpeed"),
		},
		Battle: BattleConfig{
			EnergyRate: viper.GetFloat64("battle.energyRate"),
		},
		Log: LogConfig{
			Level:          viper.GetString("log.level"),
			Format:         viper.GetString("log.format"),
			DropSampleRate: viper.GetFloat64("log.dropSampleRate"),
		},
		Debug: DebugConfig{
			Enabled:       viper.GetBool("debug.enabled"),
			ListenAddr:    viper.GetString("debug.listenAddr"),
			AllowExternal: viper.GetBool("debug.allowExternal"),
			CORSOrigins:   viper.GetStringSlice("debug.corsOrigins"),
		},
		Render: RenderConfig{
			Enabled:       viper.GetBool("render.enabled"),
			SnapshotPath:  viper.GetString("render.snapshotPath"),
			SnapshotEvery: viper.GetInt("render.snapshotEvery"),
			FontPath:      viper.GetString("render.fontPath"),
			FontSize:      viper.GetFloat64("render.fontSize"),
		},
		Input: InputConfig{
			Stdin: viper.GetBool("input.stdin"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the client cannot start without
func (c Config) Validate() error {
	if c.Username == "" {
		return errors.New("username is required (config.json or DAEMON_USERNAME)")
	}
	if c.Server == "" {
		return errors.New("server url is required")
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}
	return nil
}
