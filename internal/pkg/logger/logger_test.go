package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveLogFilePath_DefaultFilename(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveLogFilePath(Options{Dir: filepath.Join(dir, "nested")})

	require.NoError(t, err)
	assert.Equal(t, defaultLogFilename, filepath.Base(got))
	_, err = os.Stat(got)
	assert.NoError(t, err)
}

func TestNew_FileModeWritesJSON(t *testing.T) {
	dir := t.TempDir()

	log := New("release", Options{Dir: dir, Filename: "test.log"})
	log.Info("load dispatched", zap.String("load_number", "LD-1"))
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"load dispatched"`)
	assert.Contains(t, string(content), `"load_number":"LD-1"`)
	assert.Contains(t, string(content), `"level":"info"`)
}

func TestNew_DebugModeEnablesDebugLevel(t *testing.T) {
	log := New(" DEBUG ", Options{})

	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNew_StdoutModeSkipsFile(t *testing.T) {
	dir := t.TempDir()

	log := New(ModeStdout, Options{Dir: dir})

	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestZ_FallsBackBeforeInit(t *testing.T) {
	saved := L
	L = nil
	t.Cleanup(func() { L = saved })

	assert.NotNil(t, Z())
	assert.NotNil(t, Named("jobs"))
}

func TestNormalizePositiveInt(t *testing.T) {
	assert.Equal(t, 5, normalizePositiveInt(5, 9))
	assert.Equal(t, 9, normalizePositiveInt(0, 9))
	assert.Equal(t, 9, normalizePositiveInt(-1, 9))
}
