package events

import (
	"sync"
	"time"
)

// Event is anything published on the bus
type Event interface {
	Type() string
	Timestamp() time.Time
	GameID() string
}

// BaseEvent carries the fields every event shares
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
}

func (e BaseEvent) Type() string { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string { return e.Game }

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber receives the event types it declares interest in
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// EventMetadata identifies the player and round an event belongs to
type EventMetadata struct {
	PlayerID int `json:"player_id"`
	Round    int `json:"round"`
}

// Publisher is what the game engine needs from a bus
type Publisher interface {
	Publish(Event)
}

// Bus is the full event bus surface
type Bus interface {
	Publisher
	Subscribe(Subscriber)
	Unsubscribe(subscriberID string)
	SubscribeFunc(eventType string, handler EventHandler) string
}

var _ Bus = (*EventBus)(nil)

// Recorder is a Subscriber that keeps every event it receives, in order.
// It is meant for tests and replays.
type Recorder struct {
	id     string
	mu     sync.Mutex
	events []Event
}

func NewRecorder(id string) *Recorder { return &Recorder{id: id} }

func (r *Recorder) ID() string { return r.id }
func (r *Recorder) InterestedIn(_ string) bool { return true }

func (r *Recorder) HandleEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of every recorded event, in order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type()
	}
	return types
}
