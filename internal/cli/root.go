package cli

import (
	"fmt"
	"log"
	"os"
	"time"

	"wrapped/internal/logging"
	"wrapped/internal/storage"
	"wrapped/internal/ui/preferences"

	"github.com/spf13/cobra"
)

const appName = "wrapped"

// Version is set at build time via ldflags.
var Version = "dev"

// options holds the flags shared by every command.
type options struct {
	configPath    string
	slideDuration time.Duration
	size          float64
	logLevel      string
}

var rootOptions options

var rootCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Year-in-review slideshow with a circular progress ring",
	Long: `Wrapped plays a series of slides, each timed by a circular progress ring
that sparkles as it fills. Tap the ring or press space to pause; the arrow
keys move between slides.

Settings are read from settings.yaml in the user config directory, or from
the file given with --config.`,
	SilenceUsage: true,
	RunE:         runGUI,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("wrapped version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOptions.configPath, "config", "", "Settings file (default: <user config dir>/wrapped/settings.yaml)")
	flags.DurationVar(&rootOptions.slideDuration, "slide-duration", 0, "Override how long each slide stays on screen")
	flags.Float64Var(&rootOptions.size, "size", 0, "Override the progress ring size")
	flags.StringVar(&rootOptions.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// settingsPath returns the file settings are loaded from and saved to.
func (opts options) settingsPath() (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return storage.SettingsPath(appName)
}

// loadSettings reads the settings file and applies flag overrides. An
// unreadable file is logged and replaced by defaults so the app still starts.
func (opts options) loadSettings(logger *logging.Logger) (preferences.Settings, string, error) {
	path, err := opts.settingsPath()
	if err != nil {
		return preferences.DefaultSettings(), "", err
	}

	settings, err := storage.LoadSettingsFrom(path)
	if err != nil {
		logger.Warn("using default settings", "path", path, "error", err)
		settings = preferences.DefaultSettings()
	}

	if opts.slideDuration != 0 {
		if !preferences.ValidSlideDuration(opts.slideDuration) {
			return settings, path, fmt.Errorf("--slide-duration must be between 0 and %s", preferences.MaxSlideDuration)
		}
		settings.SlideDuration = opts.slideDuration
	}
	if opts.size != 0 {
		if !preferences.ValidSize(opts.size) {
			return settings, path, fmt.Errorf("--size must be between %g and %g", preferences.MinSize, preferences.MaxSize)
		}
		settings.Size = opts.size
		if !preferences.ValidStrokeWidth(settings.StrokeWidth, settings.Size) {
			settings.StrokeWidth = preferences.DefaultSettings().StrokeWidth
		}
	}
	return settings, path, nil
}

// setupLogging configures the shared logger and returns it.
func (opts options) setupLogging(output *log.Logger) (*logging.Logger, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.Default()
	logger.SetLevel(level)
	if output == nil {
		output = log.New(os.Stderr, "", log.LstdFlags)
	}
	logger.SetOutput(output)
	return logger, nil
}
