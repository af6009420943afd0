package cli

import (
	"fmt"

	"wrapped/internal/core/timekeeper"
	"wrapped/internal/logging"
	"wrapped/internal/platform"
	"wrapped/internal/storage"
	"wrapped/internal/ui/preferences"
	"wrapped/internal/ui/slideshow"
	"wrapped/internal/ui/tray"
	"wrapped/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"
)

func runGUI(cmd *cobra.Command, args []string) error {
	logger, err := rootOptions.setupLogging(nil)
	if err != nil {
		return err
	}
	settings, settingsPath, err := rootOptions.loadSettings(logger)
	if err != nil {
		return err
	}

	lock, err := platform.AcquireInstance(appName, settingsPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	fyneApp := app.NewWithID("com.wrapped.app")
	fyneApp.SetIcon(resources.MustIcon(resources.IconLogo))

	keeper := timekeeper.New(settings.DriverConfig(), timekeeper.Config{})
	slideshowWindow := slideshow.New(fyneApp, slideshowConfig(settings, logger), settings.Slides)
	slideshowWindow.SetCallbacks(slideshow.Callbacks{
		OnTogglePause: func() { keeper.Toggle() },
		OnNext:        keeper.Next,
		OnPrevious:    keeper.Previous,
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		if err := storage.SaveSettingsTo(settingsPath, settings); err != nil {
			logger.Warn("save settings failed", "path", settingsPath, "error", err)
		}
		keeper.UpdateConfig(settings.DriverConfig())
		slideshowWindow.UpdateConfig(slideshowConfig(settings, logger), settings.Slides)
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnPreferences: prefsWindow.Show,
			OnTogglePause: func() { keeper.Toggle() },
			OnNext:        keeper.Next,
			OnPrevious:    keeper.Previous,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconLogo))
		slideshowWindow.SetCloseIntercept(slideshowWindow.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	events := keeper.Subscribe(64)
	go func() {
		for event := range events {
			fyne.Do(func() {
				slideshowWindow.Apply(event)
				if hasTray {
					updateTray(desktopApp, trayManager, event)
				}
			})
		}
	}()

	keeper.Start()
	slideshowWindow.Show()
	fyneApp.Run()

	keeper.Stop()
	slideshowWindow.Progress().Dispose()
	return nil
}

func slideshowConfig(settings preferences.Settings, logger *logging.Logger) slideshow.Config {
	config := slideshow.DefaultConfig()
	config.Progress = settings.ProgressConfig()
	config.Logger = logger.With("component", "sparkle")
	return config
}

func updateTray(desktopApp desktop.App, trayManager *tray.Manager, event timekeeper.Event) {
	if event.Type == timekeeper.EventProgress {
		return
	}
	paused := event.State == timekeeper.StatePaused
	trayManager.SetStatus(fmt.Sprintf("slide %d of %d", event.Slide+1, event.Slides))
	trayManager.SetPaused(paused)
	trayManager.SetFinished(event.State == timekeeper.StateFinished)
	if paused {
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconLogoPaused))
	} else {
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconLogo))
	}
}
