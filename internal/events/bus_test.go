package events

import (
	"sync"
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	var got []Event
	bus.Subscribe(EventRoomStateChange, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	})

	bus.Publish(Event{Type: EventRoomStateChange, RoomID: "101", Timestamp: time.Now()})
	bus.Publish(Event{Type: EventRoomCreated, RoomID: "102", Timestamp: time.Now()})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].RoomID != "101" {
		t.Errorf("expected room 101, got %s", got[0].RoomID)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	calls := map[string]int{}
	first := bus.Subscribe(EventRoomReset, func(e Event) {
		mu.Lock()
		calls["first"]++
		mu.Unlock()
	})
	bus.Subscribe(EventRoomReset, func(e Event) {
		mu.Lock()
		calls["second"]++
		mu.Unlock()
	})

	bus.Unsubscribe(first)
	bus.Publish(Event{Type: EventRoomReset, RoomID: "101"})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls["first"] != 0 {
		t.Errorf("unsubscribed handler should not run, ran %d times", calls["first"])
	}
	if calls["second"] != 1 {
		t.Errorf("remaining handler should run once, ran %d times", calls["second"])
	}
}

func TestEventTypeString(t *testing.T) {
	if EventRoomStateChange.String() != "RoomStateChange" {
		t.Errorf("unexpected name %q", EventRoomStateChange.String())
	}
	if EventType(99).String() != "Unknown" {
		t.Errorf("unexpected name %q", EventType(99).String())
	}
}

func TestPublishAssignsIncreasingSeq(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	seqs := map[string]uint64{}
	bus.Subscribe(EventRoomStateChange, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		seqs[e.RoomID] = e.Seq
	})

	bus.Publish(Event{Type: EventRoomStateChange, RoomID: "101"})
	bus.Publish(Event{Type: EventRoomStateChange, RoomID: "102"})
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	if seqs["101"] == 0 || seqs["102"] <= seqs["101"] {
		t.Errorf("expected increasing seq, got 101=%d 102=%d", seqs["101"], seqs["102"])
	}
}
