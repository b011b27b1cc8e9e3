package broadcast

import (
	"testing"

	"github.com/jskopek/shellviz/modules/core/entries"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var a, b []entries.Entry
	bus.Subscribe(func(e entries.Entry) { a = append(a, e) })
	bus.Subscribe(func(e entries.Entry) { b = append(b, e) })

	bus.Publish(entries.Entry{ID: "x", Data: "1"})
	bus.Publish(entries.Entry{ID: "y", Data: "2"})

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected both subscribers to see 2 entries, got %d and %d", len(a), len(b))
	}
	if a[0].ID != "x" || a[1].ID != "y" {
		t.Errorf("delivery order must match publish order, got %v", a)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe(func(entries.Entry) { count++ })

	bus.Publish(entries.Entry{ID: "a"})
	bus.Unsubscribe(id)
	bus.Publish(entries.Entry{ID: "b"})

	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}

	// Unknown ids are ignored.
	bus.Unsubscribe("no-such-subscription")
}

func TestBusSynchronousDelivery(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe(func(entries.Entry) { delivered = true })

	bus.Publish(entries.Entry{ID: "a"})

	// Handlers run on the publisher's goroutine, so the effect is
	// visible as soon as Publish returns.
	if !delivered {
		t.Error("expected synchronous delivery")
	}
}
