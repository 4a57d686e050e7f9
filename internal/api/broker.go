package api

import (
	"sync"

	"github.com/dkvc/AutumSem-OR/internal/model"
)

// Broker fans out solve progress in-process. Slow subscribers drop events
// rather than block the solver.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan model.ProgressMessage]struct{} // solveId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan model.ProgressMessage]struct{}{}}
}

func (b *Broker) Subscribe(solveID string) chan model.ProgressMessage {
	ch := make(chan model.ProgressMessage, 16)
	b.mu.Lock()
	if b.subs[solveID] == nil {
		b.subs[solveID] = map[chan model.ProgressMessage]struct{}{}
	}
	b.subs[solveID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(solveID string, ch chan model.ProgressMessage) {
	b.mu.Lock()
	if m := b.subs[solveID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, solveID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(solveID string, evt model.ProgressMessage) {
	b.mu.Lock()
	for ch := range b.subs[solveID] {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
