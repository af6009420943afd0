package cli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wrapped/internal/logging"
	"wrapped/internal/storage"
	"wrapped/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "wrapped", rootCmd.Use)
	for _, name := range []string{"config", "slide-duration", "size", "log-level"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}

	found := false
	for _, child := range rootCmd.Commands() {
		if child == termCmd {
			found = true
		}
	}
	assert.True(t, found, "term subcommand is registered")
	assert.NoError(t, termCmd.Args(termCmd, []string{}))
	assert.Error(t, termCmd.Args(termCmd, []string{"extra"}))
}

func TestLoadSettingsFromConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	saved := preferences.DefaultSettings()
	saved.SparkleCapacity = 5
	require.NoError(t, storage.SaveSettingsTo(path, saved))

	opts := options{configPath: path}
	settings, resolved, err := opts.loadSettings(logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, 5, settings.SparkleCapacity)
}

func TestFlagOverrides(t *testing.T) {
	opts := options{
		configPath:    filepath.Join(t.TempDir(), "missing.yaml"),
		slideDuration: 2 * time.Second,
		size:          96,
	}
	settings, _, err := opts.loadSettings(logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, settings.SlideDuration)
	assert.Equal(t, 96.0, settings.Size)
}

func TestInvalidOverrides(t *testing.T) {
	dir := t.TempDir()

	_, _, err := options{configPath: filepath.Join(dir, "a.yaml"), size: 4}.loadSettings(logging.Discard())
	assert.Error(t, err)

	_, _, err = options{configPath: filepath.Join(dir, "b.yaml"), slideDuration: -time.Second}.loadSettings(logging.Discard())
	assert.Error(t, err)
}

func TestBrokenSettingsFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: [oops"), 0o644))

	var buffer bytes.Buffer
	logger := logging.New()
	logger.SetOutput(log.New(&buffer, "", 0))

	settings, _, err := options{configPath: path}.loadSettings(logger)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
	assert.Contains(t, buffer.String(), "WARN: using default settings")
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() {
		logging.Default().SetLevel(logging.LevelInfo)
		logging.Default().SetOutput(log.New(os.Stderr, "", log.LstdFlags))
	})

	var buffer bytes.Buffer
	logger, err := options{logLevel: "warn"}.setupLogging(log.New(&buffer, "", 0))
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buffer.String(), "hidden")
	assert.Contains(t, buffer.String(), "shown")

	_, err = options{logLevel: "loud"}.setupLogging(nil)
	assert.Error(t, err)
}

func TestTermLogOutput(t *testing.T) {
	output, closeLog, err := termLogOutput("")
	require.NoError(t, err)
	assert.NotNil(t, output)
	closeLog()

	path := filepath.Join(t.TempDir(), "term.log")
	output, closeLog, err = termLogOutput(path)
	require.NoError(t, err)
	output.Print("hello")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
