package api

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dkvc/AutumSem-OR/internal/model"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	id := "solve-1"
	ch := b.Subscribe(id)

	evt := model.ProgressMessage{SolveID: id, Phase: "construction", Objective: 41.5}
	b.Publish(id, evt)

	select {
	case got := <-ch:
		if got.Phase != evt.Phase || got.Objective != evt.Objective {
			t.Fatalf("got %+v, want %+v", got, evt)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(id, ch)
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
}

func TestBrokerIsolatesSolves(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("solve-a")
	defer b.Unsubscribe("solve-a", ch)

	b.Publish("solve-b", model.ProgressMessage{SolveID: "solve-b", Phase: "done"})
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsWhenSubscriberSlow(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("solve-1")
	defer b.Unsubscribe("solve-1", ch)
	// Overfill the buffer; publishes must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish("solve-1", model.ProgressMessage{Phase: "search"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestRedisBrokerRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	b := NewRedisBroker(rdb)

	ch := b.Subscribe("solve-1")
	evt := model.ProgressMessage{SolveID: "solve-1", Phase: "improvement", Objective: 12.25}
	b.Publish("solve-1", evt)

	select {
	case got := <-ch:
		if got.Phase != evt.Phase || got.Objective != evt.Objective {
			t.Fatalf("got %+v, want %+v", got, evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redis event")
	}

	b.Unsubscribe("solve-1", ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after unsubscribe")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for channel close")
	}
}
