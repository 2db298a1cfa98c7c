package events

import (
	"sync"
	"time"

	"fotosorter/internal/domain"
)

// Type classifies messages emitted during a sorting session.
type Type string

const (
	TypePhase    Type = "phase"
	TypeOffer    Type = "offer"
	TypeDecision Type = "decision"
	TypeResolved Type = "resolved"
	TypeMove     Type = "move"
	TypeError    Type = "error"
)

// Event is a sequenced payload consumed by front ends.
type Event struct {
	Seq       int64              `json:"seq"`
	Timestamp time.Time          `json:"timestamp"`
	SessionID string             `json:"sessionId"`
	Type      Type               `json:"type"`
	Phase     domain.Phase       `json:"phase,omitempty"`
	Message   string             `json:"message,omitempty"`
	RecordID  string             `json:"recordId,omitempty"`
	Path      string             `json:"path,omitempty"`
	Category  string             `json:"category,omitempty"`
	Offer     *domain.Offer      `json:"offer,omitempty"`
	Move      *domain.MoveResult `json:"move,omitempty"`
}

// Bus stores recent events and provides incremental reads.
type Bus struct {
	mu          sync.RWMutex
	nextSeq     int64
	maxEvents   int
	events      []Event
	subscribers []func(Event)
}

// NewBus creates a bounded in-memory event buffer.
func NewBus(maxEvents int) *Bus {
	if maxEvents <= 0 {
		maxEvents = 500
	}

	return &Bus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Subscribe registers fn to receive every event published afterwards.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish appends one event, assigns sequence and timestamp, and notifies
// subscribers outside the lock.
func (b *Bus) Publish(event Event) Event {
	b.mu.Lock()
	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}
	subscribers := append([]func(Event){}, b.subscribers...)
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(event)
	}
	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *Bus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
