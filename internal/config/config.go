package config

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vidmerge/internal/dirs"
	"vidmerge/internal/model"
)

// EnvPrefix namespaces environment overrides, e.g. VIDMERGE_OUT_DIR.
const EnvPrefix = "VIDMERGE"

// Settings are the resolved configuration values.
type Settings struct {
	OutDir        string  `mapstructure:"out_dir"`
	FFmpeg        string  `mapstructure:"ffmpeg"`
	FFprobe       string  `mapstructure:"ffprobe"`
	ImageDuration float64 `mapstructure:"image_duration"`
	LogLevel      string  `mapstructure:"log_level"`
	Verbose       bool    `mapstructure:"verbose"`
	DryRun        bool    `mapstructure:"dry_run"`
	DropDir       string  `mapstructure:"drop_dir"`
}

// flagKeys maps persistent flag names to viper keys.
var flagKeys = map[string]string{
	"out-dir":   "out_dir",
	"verbose":   "verbose",
	"ffmpeg":    "ffmpeg",
	"ffprobe":   "ffprobe",
	"log-level": "log_level",
	"dry-run":   "dry_run",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("image_duration", model.DefaultImageDuration)
	v.SetDefault("log_level", "info")
	if out, err := dirs.DefaultOutputDir(); err == nil {
		v.SetDefault("out_dir", out)
	}
	// Keys without a flag need a default so env overrides reach Unmarshal.
	drop, _ := dirs.DefaultDropDir()
	v.SetDefault("drop_dir", drop)
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: any errors are returned for optional handling by caller.
func Init(root *cobra.Command) error {
	// Ensure base directories exist
	_ = dirs.EnsureAll()

	v := viper.GetViper()
	if cfgDir, err := dirs.ConfigDir(); err == nil {
		v.AddConfigPath(cfgDir)
	}
	v.SetConfigName("config") // supports config.{yaml|yml|json|toml}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	for flag, key := range flagKeys {
		if f := root.PersistentFlags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}

	// Read config file if present (ignore not found)
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return err
		}
	}
	return nil
}

// Decode resolves Settings from v.
func Decode(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	if s.ImageDuration <= 0 {
		s.ImageDuration = model.DefaultImageDuration
	}
	return s, nil
}

// Current resolves Settings from the global viper instance set up by Init.
func Current() (Settings, error) { return Decode(viper.GetViper()) }

// CLIOptions converts settings to the options the commands consume.
func (s Settings) CLIOptions() model.CLIOptions {
	return model.CLIOptions{
		OutDir:        s.OutDir,
		FFmpegPath:    s.FFmpeg,
		FFprobePath:   s.FFprobe,
		ImageDuration: s.ImageDuration,
		LogLevel:      s.LogLevel,
		DryRun:        s.DryRun,
		Verbose:       s.Verbose,
	}
}
