package game

import "sync"

// Observer is the callback surface a presentation collaborator registers.
// Every callback is parameterless: observers pull fresh snapshots after being
// signaled. Nil fields are skipped.
type Observer struct {
	BoardChanged func()
	ChatChanged  func()
	ScoreChanged func()
	ReturnToMenu func()
}

// signal is a bitmask of pending refresh notifications.
type signal uint8

const (
	sigBoard signal = 1 << iota
	sigChat
	sigScore
	sigMenu
)

type observerEntry struct {
	id int
	ob Observer
}

// Bus fans state-change signals out to registered observers in registration
// order. No ordering is guaranteed beyond that, and no payload is carried.
type Bus struct {
	mu      sync.RWMutex
	entries []observerEntry
	nextID  int
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers an observer and returns its handle.
func (b *Bus) Subscribe(ob Observer) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.entries = append(b.entries, observerEntry{id: b.nextID, ob: ob})
	return b.nextID
}

// Unsubscribe removes a previously registered observer.
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.id == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// publish delivers the pending signals. Observers run on the calling
// goroutine; a snapshot of the registry is taken first so callbacks may
// subscribe or unsubscribe safely.
func (b *Bus) publish(s signal) {
	if s == 0 {
		return
	}
	b.mu.RLock()
	entries := make([]observerEntry, len(b.entries))
	copy(entries, b.entries)
	b.mu.RUnlock()

	for _, e := range entries {
		if s&sigBoard != 0 && e.ob.BoardChanged != nil {
			e.ob.BoardChanged()
		}
		if s&sigChat != 0 && e.ob.ChatChanged != nil {
			e.ob.ChatChanged()
		}
		if s&sigScore != 0 && e.ob.ScoreChanged != nil {
			e.ob.ScoreChanged()
		}
		if s&sigMenu != 0 && e.ob.ReturnToMenu != nil {
			e.ob.ReturnToMenu()
		}
	}
}
