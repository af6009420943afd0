package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	require.Failf(t, "missing menu item", "label %q", label)
	return nil
}

func TestMenuActionsCallOwner(t *testing.T) {
	var toggles, nexts, previous, prefs, quits int
	manager := New(nil, Callbacks{
		OnTogglePause: func() { toggles++ },
		OnNext:        func() { nexts++ },
		OnPrevious:    func() { previous++ },
		OnPreferences: func() { prefs++ },
		OnQuit:        func() { quits++ },
	})
	menu := manager.Menu()

	findItem(t, menu, "Pause").Action()
	findItem(t, menu, "Next slide").Action()
	findItem(t, menu, "Previous slide").Action()
	findItem(t, menu, "Preferences").Action()
	findItem(t, menu, "Quit").Action()

	assert.Equal(t, 1, toggles)
	assert.Equal(t, 1, nexts)
	assert.Equal(t, 1, previous)
	assert.Equal(t, 1, prefs)
	assert.Equal(t, 1, quits)
}

func TestPauseLabelMirrorsOwner(t *testing.T) {
	manager := New(nil, Callbacks{})
	manager.SetStatus("slide 2 of 5")
	assert.Equal(t, "Status: slide 2 of 5", manager.statusItem.Label)

	findItem(t, manager.Menu(), "Pause").Action()
	assert.Equal(t, "Pause", manager.pauseItem.Label, "tapping never flips the label on its own")

	manager.SetPaused(true)
	assert.Equal(t, "Resume", manager.pauseItem.Label)
	assert.Equal(t, "Status: slide 2 of 5 (paused)", manager.statusItem.Label)

	manager.SetPaused(false)
	assert.Equal(t, "Pause", manager.pauseItem.Label)
}

func TestFinishedDisablesPause(t *testing.T) {
	manager := New(nil, Callbacks{})
	manager.SetStatus("slide 5 of 5")
	manager.SetFinished(true)

	assert.True(t, manager.pauseItem.Disabled)
	assert.Equal(t, "Status: slide 5 of 5 (done)", manager.statusItem.Label)
}

func TestCallbacksMayBeNil(t *testing.T) {
	manager := New(nil, Callbacks{})
	for _, item := range manager.Menu().Items {
		if item.Action != nil {
			assert.NotPanics(t, item.Action)
		}
	}
}
