package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	s, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.ImageDuration)
	assert.Equal(t, "info", s.LogLevel)
	assert.NotEmpty(t, s.OutDir)
}

func TestDecodeFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("out_dir: /srv/out\nimage_duration: 3.5\nffmpeg: /opt/ffmpeg\n"), 0o644))
	t.Setenv("VIDMERGE_LOG_LEVEL", "debug")
	t.Setenv("VIDMERGE_DROP_DIR", "/srv/drop")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(cfg)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.ReadInConfig())

	s, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", s.OutDir)
	assert.Equal(t, 3.5, s.ImageDuration)
	assert.Equal(t, "/opt/ffmpeg", s.FFmpeg)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "/srv/drop", s.DropDir)

	opts := s.CLIOptions()
	assert.Equal(t, "/opt/ffmpeg", opts.FFmpegPath)
	assert.Equal(t, 3.5, opts.ImageDuration)
}

func TestDecodeFixesBadImageDuration(t *testing.T) {
	v := viper.New()
	v.Set("image_duration", -1)
	s, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.ImageDuration)
}
