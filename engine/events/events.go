// Package events implements the synchronous notification bus. Handlers run
// inline, in subscription order, after the mutation an event describes has
// committed. Handlers must not re-enter acquisition.
package events

import "github.com/nathoo/roguecore/types"

// Handler receives a published event.
type Handler func(ev types.Event)

// Handle identifies a subscription for Unsubscribe. The zero Handle is never
// issued.
type Handle int

type subscription struct {
	handle    Handle
	eventType string
	fn        Handler
}

// Bus fans events out to subscribers.
type Bus struct {
	subs []subscription
	next Handle
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for eventType. An empty eventType receives every
// event.
func (b *Bus) Subscribe(eventType string, fn Handler) Handle {
	b.next++
	b.subs = append(b.subs, subscription{handle: b.next, eventType: eventType, fn: fn})
	return b.next
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(h Handle) {
	for i, sub := range b.subs {
		if sub.handle == h {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers each event to matching subscribers. Subscriptions added or
// removed by a handler take effect from the next event.
func (b *Bus) Publish(evs ...types.Event) {
	for _, ev := range evs {
		subs := b.subs
		for _, sub := range subs {
			if sub.eventType != "" && sub.eventType != ev.Type {
				continue
			}
			if sub.fn != nil {
				sub.fn(ev)
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Recorder collects every event it sees. Attach it with Bus.Subscribe("", r.Record).
type Recorder struct {
	Events []types.Event
}

// Record appends ev.
func (r *Recorder) Record(ev types.Event) {
	r.Events = append(r.Events, ev)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	out := make([]string, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Type
	}
	return out
}

// OfType returns the recorded events of one type.
func (r *Recorder) OfType(eventType string) []types.Event {
	var out []types.Event
	for _, ev := range r.Events {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
