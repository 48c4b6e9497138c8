package realtime

import "sync"

// Collection names the store collections that emit change events.
type Collection string

const (
	CollectionTasks       Collection = "tasks"
	CollectionTeamMembers Collection = "teamMembers"
)

// Bus is the in-process change bus behind live projections. Writers
// publish the collection they touched after a committed write; each
// subscriber re-reads the collection and re-derives its view, so a
// dropped signal only delays convergence until the next write.
type Bus struct {
	mu   sync.RWMutex
	subs map[Collection]map[chan Collection]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Collection]map[chan Collection]struct{})}
}

// Subscribe registers for change events on one collection. The cancel
// func must be called exactly once; it closes the channel.
func (b *Bus) Subscribe(col Collection) (ch chan Collection, cancel func()) {
	ch = make(chan Collection, 16)
	b.mu.Lock()
	if b.subs[col] == nil {
		b.subs[col] = make(map[chan Collection]struct{})
	}
	b.subs[col][ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		if subs, ok := b.subs[col]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, col)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
}

// Publish notifies every subscriber of the collection. Slow
// subscribers are skipped rather than blocking the writer.
func (b *Bus) Publish(col Collection) {
	b.mu.RLock()
	for ch := range b.subs[col] {
		select {
		case ch <- col:
		default: // drop if slow
		}
	}
	b.mu.RUnlock()
}
