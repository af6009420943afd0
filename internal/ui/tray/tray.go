package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Wrapped"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences func()
	OnTogglePause func()
	OnNext        func()
	OnPrevious    func()
	OnQuit        func()
}

// Manager handles system tray state. Labels mirror the driver; every action
// goes back to the owner through Callbacks.
type Manager struct {
	app          desktop.App
	statusItem   *fyne.MenuItem
	pauseItem    *fyne.MenuItem
	nextItem     *fyne.MenuItem
	previousItem *fyne.MenuItem
	callbacks    Callbacks
	paused       bool
	finished     bool
	statusLabel  string
}

// New creates a tray manager with the provided callbacks. A nil app keeps the
// menu in memory only.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.pauseItem = fyne.NewMenuItem("Pause", call(&manager.callbacks.OnTogglePause))
	manager.nextItem = fyne.NewMenuItem("Next slide", call(&manager.callbacks.OnNext))
	manager.previousItem = fyne.NewMenuItem("Previous slide", call(&manager.callbacks.OnPrevious))

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetPaused updates pause state.
func (manager *Manager) SetPaused(paused bool) {
	manager.paused = paused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.refreshStatus()
}

// SetFinished disables the pause item once the last slide has completed.
func (manager *Manager) SetFinished(finished bool) {
	manager.finished = finished
	manager.pauseItem.Disabled = finished
	manager.refreshStatus()
}

// Menu builds the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.previousItem,
		manager.nextItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", call(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit)),
	)
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	switch {
	case manager.finished:
		status = fmt.Sprintf("%s (done)", status)
	case manager.paused:
		status = fmt.Sprintf("%s (paused)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

// call reads the handler at tap time so callbacks can be swapped later.
func call(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
