package platform

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAddressIsStableAndInRange(t *testing.T) {
	first := LockAddress("wrapped", "/tmp/a.yaml")
	assert.Equal(t, first, LockAddress("wrapped", "/tmp/a.yaml"))
	assert.NotEqual(t, first, LockAddress("wrapped", "/tmp/b.yaml"))

	require.True(t, strings.HasPrefix(first, "127.0.0.1:"))
	port, err := strconv.Atoi(strings.TrimPrefix(first, "127.0.0.1:"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, minLockPort)
	assert.LessOrEqual(t, port, maxLockPort)
}

func TestSecondAcquireFails(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")

	lock, err := AcquireInstance("wrapped-test", settingsPath)
	if err != nil {
		t.Skipf("lock port unavailable: %v", err)
	}
	defer lock.Release()
	assert.Equal(t, LockAddress("wrapped-test", settingsPath), lock.Address())

	_, err = AcquireInstance("wrapped-test", settingsPath)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, lock.Release())
	assert.NoError(t, lock.Release())

	again, err := AcquireInstance("wrapped-test", settingsPath)
	require.NoError(t, err)
	assert.NoError(t, again.Release())
}

func TestNilLock(t *testing.T) {
	var lock *InstanceLock
	assert.NoError(t, lock.Release())
	assert.Empty(t, lock.Address())
}
