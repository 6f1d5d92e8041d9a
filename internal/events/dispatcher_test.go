package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var first, second int
	dispatcher.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		first++
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		second++
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventLoginSucceeded}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if first != 1 || second != 1 {
		t.Fatalf("handlers called %d/%d times, want 1/1", first, second)
	}
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called int
	dispatcher.Subscribe(EventLoginFailed, func(context.Context, Event) error {
		called++
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTokenRefreshed}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if called != 0 {
		t.Fatalf("handler called %d times for a different event type", called)
	}
}
