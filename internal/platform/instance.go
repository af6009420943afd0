// Package platform holds OS-facing helpers for the desktop app.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another slideshow already plays from the same settings.
var ErrAlreadyRunning = errors.New("slideshow already running")

const (
	minLockPort = 20000
	maxLockPort = 39999
)

// InstanceLock keeps one window per settings file. It binds a localhost port
// derived from the app name and the settings path; the OS frees the port if
// the process dies.
type InstanceLock struct {
	listener net.Listener
	address  string
}

// AcquireInstance takes the lock for appName and settingsPath.
func AcquireInstance(appName, settingsPath string) (*InstanceLock, error) {
	address := LockAddress(appName, settingsPath)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w (lock %s): %v", ErrAlreadyRunning, address, err)
	}
	return &InstanceLock{listener: listener, address: address}, nil
}

// LockAddress returns the localhost address used as the lock.
func LockAddress(appName, settingsPath string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(settingsPath))
	rangeSize := uint32(maxLockPort - minLockPort + 1)
	return fmt.Sprintf("127.0.0.1:%d", minLockPort+int(hash.Sum32()%rangeSize))
}

// Release frees the lock. It is safe on a nil lock and safe to repeat.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// Address returns the bound address.
func (lock *InstanceLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}
