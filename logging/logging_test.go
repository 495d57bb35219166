package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, LevelWarn, "text")

	l.Info("hidden")
	l.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=1")
}

func TestSlogLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(&buf, LevelDebug, "json")
	l.Debug("tick", "n", 3)
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"n":3`)
}

func TestOrNoOp(t *testing.T) {
	assert.NotNil(t, OrNoOp(nil))
	assert.NotPanics(t, func() { OrNoOp(nil).Error("x") })
}

func TestSetup_DisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, f, err := Setup(false, dir, LevelInfo, "text")
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.NotNil(t, l)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSetup_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, f, err := Setup(true, dir, LevelDebug, "text")
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()

	l.Info("test log message")

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRotatedName(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "navagent_20240309_140507.log", RotatedName(at))
}

func TestSetup_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, make([]byte, MaxFileSize+1), 0o644))

	_, f, err := Setup(true, dir, LevelInfo, "text")
	require.NoError(t, err)
	defer f.Close()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var rotated []os.DirEntry
	for _, e := range entries {
		if e.Name() != FileName && filepath.Ext(e.Name()) == ".log" {
			rotated = append(rotated, e)
		}
	}
	require.Len(t, rotated, 1)
	assert.Regexp(t, `^navagent_\d{8}_\d{6}\.log$`, rotated[0].Name())
	old, err := rotated[0].Info()
	require.NoError(t, err)
	assert.EqualValues(t, MaxFileSize+1, old.Size())

	fresh, err := os.Stat(path)
	require.NoError(t, err)
	assert.Less(t, fresh.Size(), int64(MaxFileSize))
}
