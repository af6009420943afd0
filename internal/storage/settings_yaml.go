package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wrapped/internal/core/model"
	"wrapped/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// ErrInvalidSettings marks a settings file that exists but cannot be parsed.
var ErrInvalidSettings = errors.New("invalid settings")

type yamlSlide struct {
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle,omitempty"`
	DurationMS int    `yaml:"duration_ms,omitempty"`
}

type yamlSettings struct {
	SlideDurationMS   int         `yaml:"slide_duration_ms"`
	Loop              bool        `yaml:"loop"`
	Size              float64     `yaml:"size"`
	StrokeWidth       float64     `yaml:"stroke_width"`
	Markers           *int        `yaml:"markers"`
	ReduceMotion      bool        `yaml:"reduce_motion"`
	SparkleLifetimeMS int         `yaml:"sparkle_lifetime_ms"`
	SparkleCapacity   int         `yaml:"sparkle_capacity"`
	Slides            []yamlSlide `yaml:"slides,omitempty"`
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFrom(configPath)
}

// LoadSettingsFrom reads user preferences from a specific file. Fields that
// are missing or out of range keep their defaults.
func LoadSettingsFrom(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("%w: parse settings yaml: %v", ErrInvalidSettings, err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(configPath, settings)
}

// SaveSettingsTo writes user preferences to a specific file.
func SaveSettingsTo(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	markers := settings.Markers
	fileData := yamlSettings{
		SlideDurationMS:   int(settings.SlideDuration / time.Millisecond),
		Loop:              settings.Loop,
		Size:              settings.Size,
		StrokeWidth:       settings.StrokeWidth,
		Markers:           &markers,
		ReduceMotion:      settings.ReduceMotion,
		SparkleLifetimeMS: int(settings.SparkleLifetime / time.Millisecond),
		SparkleCapacity:   settings.SparkleCapacity,
	}
	for _, slide := range settings.Slides {
		fileData.Slides = append(fileData.Slides, yamlSlide{
			Title:      slide.Title,
			Subtitle:   slide.Subtitle,
			DurationMS: int(slide.Duration / time.Millisecond),
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if duration := time.Duration(fileData.SlideDurationMS) * time.Millisecond; preferences.ValidSlideDuration(duration) {
		settings.SlideDuration = duration
	}
	if preferences.ValidSize(fileData.Size) {
		settings.Size = fileData.Size
	}
	if preferences.ValidStrokeWidth(fileData.StrokeWidth, settings.Size) {
		settings.StrokeWidth = fileData.StrokeWidth
	}
	if fileData.Markers != nil && preferences.ValidMarkers(*fileData.Markers) {
		settings.Markers = *fileData.Markers
	}
	if lifetime := time.Duration(fileData.SparkleLifetimeMS) * time.Millisecond; preferences.ValidSparkleLifetime(lifetime) {
		settings.SparkleLifetime = lifetime
	}
	if preferences.ValidSparkleCapacity(fileData.SparkleCapacity) {
		settings.SparkleCapacity = fileData.SparkleCapacity
	}

	var slides []model.Slide
	for _, slide := range fileData.Slides {
		if slide.Title == "" {
			continue
		}
		entry := model.Slide{Title: slide.Title, Subtitle: slide.Subtitle}
		if duration := time.Duration(slide.DurationMS) * time.Millisecond; preferences.ValidSlideDuration(duration) {
			entry.Duration = duration
		}
		slides = append(slides, entry)
	}
	if len(slides) > 0 {
		settings.Slides = slides
	}

	settings.Loop = fileData.Loop
	settings.ReduceMotion = fileData.ReduceMotion
}
