package progress

import "sync"

var (
	activeLocksMu sync.Mutex
	activeLocks   = make(map[string]struct{})
)

func registerActiveLock(path string) {
	activeLocksMu.Lock()
	activeLocks[path] = struct{}{}
	activeLocksMu.Unlock()
}

func unregisterActiveLock(path string) {
	activeLocksMu.Lock()
	delete(activeLocks, path)
	activeLocksMu.Unlock()
}

// IsPathLockedByCurrentProcess reports whether this process holds the lock on
// path. flock locks are per-process, so probing our own file would succeed.
func IsPathLockedByCurrentProcess(path string) bool {
	activeLocksMu.Lock()
	defer activeLocksMu.Unlock()
	_, ok := activeLocks[path]
	return ok
}
