// Package notify owns the transient UI notifications of the session surface.
// Timers live here, in the presentation layer, fully decoupled from session
// state transitions: by the time a toast is scheduled the session is already
// in its final state.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDuration is how long a toast stays visible unless configured
// otherwise.
const DefaultDuration = 2000 * time.Millisecond

// Toast surfaces one transient message at a time for a bounded duration.
// Scheduling a new message cancels the previous timer.
type Toast struct {
	duration time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	message string
}

// NewToast builds a Toast with the given visibility duration.
func NewToast(duration time.Duration, log zerolog.Logger) *Toast {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toast{duration: duration, log: log}
}

// LoggedOut satisfies the session controller's Notifier contract.
func (t *Toast) LoggedOut() {
	t.Show("You have been signed out")
}

// Show schedules msg for display and arms the expiry timer. Non-blocking.
func (t *Toast) Show(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.message = msg
	t.timer = time.AfterFunc(t.duration, t.expire)
	t.log.Debug().Str("message", msg).Dur("duration", t.duration).Msg("toast scheduled")
}

// Current returns the visible message, if any.
func (t *Toast) Current() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message, t.message != ""
}

// Cancel dismisses the current message immediately.
func (t *Toast) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.message = ""
}

func (t *Toast) expire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = ""
	t.timer = nil
}
