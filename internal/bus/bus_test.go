package bus

import (
	"context"
	"testing"
	"time"
)

type ping struct {
	N int
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub[ping]().Register()
	events, stop := hub.Subscribe(context.Background())
	defer stop()

	Publish(ping{N: 7})

	select {
	case ev := <-events:
		if ev.N != 7 {
			t.Fatalf("event = %+v, want N=7", ev)
		}
	default:
		t.Fatal("subscriber did not receive the published event")
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub[ping]().Register()
	events, stop := hub.Subscribe(context.Background())
	stop()

	Publish(ping{N: 1})

	select {
	case ev := <-events:
		t.Fatalf("unsubscribed channel still received %+v", ev)
	default:
	}
}

func TestHubSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub[ping]().Register()
	_, stop := hub.Subscribe(context.Background())
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			Publish(ping{N: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publishing blocked on a subscriber that never reads")
	}
}
