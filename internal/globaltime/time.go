// Package globaltime centralizes wall-clock access so tests can freeze time.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu  sync.RWMutex
	now = time.Now
)

// UTC returns the current time in UTC.
func UTC() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return now().UTC()
}

// Freeze pins the clock to t until Unfreeze is called.
func Freeze(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	now = func() time.Time { return t }
}

// Unfreeze restores the real clock.
func Unfreeze() {
	mu.Lock()
	defer mu.Unlock()
	now = time.Now
}
