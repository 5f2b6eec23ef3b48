package events

import (
	"testing"

	"github.com/nathoo/roguecore/types"
)

func TestPublish_MatchingType(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(types.EventTagAdded, func(ev types.Event) {
		got = append(got, ev.Data["tag"].(string))
	})

	b.Publish(
		types.Event{Type: types.EventTagAdded, Data: map[string]any{"tag": "A"}},
		types.Event{Type: types.EventTagRemoved, Data: map[string]any{"tag": "B"}},
	)

	if len(got) != 1 || got[0] != "A" {
		t.Errorf("expected [A], got %v", got)
	}
}

func TestPublish_WildcardAndOrder(t *testing.T) {
	b := NewBus()
	var order []string
	b.Subscribe("", func(types.Event) { order = append(order, "first") })
	b.Subscribe(types.EventRunStarted, func(types.Event) { order = append(order, "second") })

	b.Publish(types.Event{Type: types.EventRunStarted})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected subscription order, got %v", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	h := b.Subscribe("", func(types.Event) { calls++ })

	b.Unsubscribe(h)
	b.Unsubscribe(h)
	b.Unsubscribe(Handle(999))
	b.Publish(types.Event{Type: types.EventRunEnded})

	if calls != 0 {
		t.Errorf("expected no calls after unsubscribe, got %d", calls)
	}
	if b.Len() != 0 {
		t.Errorf("expected 0 subscriptions, got %d", b.Len())
	}
}

func TestUnsubscribe_DuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var h Handle
	h = b.Subscribe("", func(types.Event) {
		calls++
		b.Unsubscribe(h)
	})
	b.Subscribe("", func(types.Event) { calls++ })

	b.Publish(types.Event{Type: "a"}, types.Event{Type: "b"})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRecorder(t *testing.T) {
	b := NewBus()
	rec := &Recorder{}
	b.Subscribe("", rec.Record)

	b.Publish(
		types.Event{Type: types.EventActionAcquired},
		types.Event{Type: types.EventStackChanged},
		types.Event{Type: types.EventActionAcquired},
	)

	if got := rec.Types(); len(got) != 3 || got[1] != types.EventStackChanged {
		t.Errorf("unexpected types %v", got)
	}
	if got := rec.OfType(types.EventActionAcquired); len(got) != 2 {
		t.Errorf("expected 2 acquired events, got %d", len(got))
	}
	rec.Reset()
	if len(rec.Events) != 0 {
		t.Error("expected reset to clear events")
	}
}
