package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/dkvc/AutumSem-OR/internal/model"
)

// EventBroker fans solve progress out to stream subscribers.
type EventBroker interface {
	Subscribe(solveID string) chan model.ProgressMessage
	Unsubscribe(solveID string, ch chan model.ProgressMessage)
	Publish(solveID string, evt model.ProgressMessage)
}

// RedisBroker implements EventBroker over Redis Pub/Sub so progress reaches
// subscribers connected to other instances.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan model.ProgressMessage]*redis.PubSub
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb, subs: map[chan model.ProgressMessage]*redis.PubSub{}}
}

func (b *RedisBroker) Subscribe(solveID string) chan model.ProgressMessage {
	ch := make(chan model.ProgressMessage, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(solveID))
	// initial consume to ensure the subscription is active
	_, _ = ps.Receive(ctx)

	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()

	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt model.ProgressMessage
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(solveID string, ch chan model.ProgressMessage) {
	b.mu.Lock()
	ps := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	if ps != nil {
		// Closing the PubSub ends the channel loop, which closes ch.
		_ = ps.Close()
	}
}

func (b *RedisBroker) Publish(solveID string, evt model.ProgressMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(solveID), data).Err()
}

func (b *RedisBroker) chanName(solveID string) string { return "solve:" + solveID }
