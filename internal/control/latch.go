package control

import "sync"

// Latch accumulates input events between frames. It is safe for use from
// an input goroutine while the frame loop takes snapshots.
type Latch struct {
	mu     sync.Mutex
	held   Intent
	pulse  Intent
	queued []Command
}

// Press marks i as held until Release.
func (l *Latch) Press(i Intent) {
	l.mu.Lock()
	l.held = l.held.With(i)
	l.mu.Unlock()
}

func (l *Latch) Release(i Intent) {
	l.mu.Lock()
	l.held = l.held.Without(i)
	l.mu.Unlock()
}

// Pulse activates i for the next snapshot only. Terminals deliver key
// repeats but no key-up events, so the terminal front end pulses.
func (l *Latch) Pulse(i Intent) {
	l.mu.Lock()
	l.pulse = l.pulse.With(i)
	l.mu.Unlock()
}

// Trigger queues a one-shot command for the next snapshot.
func (l *Latch) Trigger(c Command) {
	l.mu.Lock()
	l.queued = append(l.queued, c)
	l.mu.Unlock()
}

// Key feeds a key event through DefaultBindings. down is ignored for
// commands, which fire on press only.
func (l *Latch) Key(key string, down bool) bool {
	b, ok := Lookup(key)
	if !ok {
		return false
	}
	switch {
	case b.Command != 0:
		if down {
			l.Trigger(b.Command)
		}
	case down:
		l.Press(b.Intent)
	default:
		l.Release(b.Intent)
	}
	return true
}

// Snapshot returns the active intent and drains the queued commands.
func (l *Latch) Snapshot() (Intent, []Command) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.held.With(l.pulse)
	cmds := l.queued
	l.pulse = None
	l.queued = nil
	return i, cmds
}

// Reset releases everything.
func (l *Latch) Reset() {
	l.mu.Lock()
	l.held, l.pulse, l.queued = None, None, nil
	l.mu.Unlock()
}
