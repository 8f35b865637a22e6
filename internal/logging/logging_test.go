package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, hclog.Debug, ParseLevel("debug"))
	assert.Equal(t, hclog.Warn, ParseLevel("WARN"))
	assert.Equal(t, hclog.Info, ParseLevel(""))
	assert.Equal(t, hclog.Info, ParseLevel("chatty"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Name: "test", Level: "warn", Output: &buf})
	l.Info("hidden")
	l.Warn("shown", "op", "merge")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "op=merge")
}

func TestNewFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	l, c, err := NewFile(dir, "tui.log", Options{Level: "debug"})
	require.NoError(t, err)
	l.Debug("hello")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(filepath.Join(dir, "tui.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
