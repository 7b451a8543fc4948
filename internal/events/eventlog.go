// Package events provides the outbound notification queue of the simulation.
// The engine appends while it mutates state; the integration layer drains afterwards,
// so nothing ever reacts re-entrantly during a tick.
package events

import "sync"

// EventType defines the category of a notification.
type EventType string

const (
	EventTypeCashChanged      EventType = "CASH_CHANGED"
	EventTypeBankrupt         EventType = "BANKRUPT"
	EventTypeDayPassed        EventType = "DAY_PASSED"
	EventTypeMonthPassed      EventType = "MONTH_PASSED"
	EventTypeYearPassed       EventType = "YEAR_PASSED"
	EventTypeTierUpgraded     EventType = "TIER_UPGRADED"
	EventTypeGameMessage      EventType = "GAME_MESSAGE"
	EventTypeEventTriggered   EventType = "EVENT_TRIGGERED"
	EventTypeProjectCompleted EventType = "PROJECT_COMPLETED"
	EventTypeProjectFailed    EventType = "PROJECT_FAILED"
)

// historyLimit bounds how much already-drained history Replay keeps.
const historyLimit = 1000

// GameEvent is one notification, stamped with the simulated date it was raised on.
type GameEvent struct {
	Seq     int64       `json:"seq"`
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Day     int         `json:"day"`
}

// CashChangedPayload carries the balance after a ledger movement.
type CashChangedPayload struct {
	Cash int64 `json:"cash"`
}

// CounterPayload carries the new value of a calendar counter.
type CounterPayload struct {
	Value int `json:"value"`
}

// TierPayload carries the tier reached.
type TierPayload struct {
	Tier string `json:"tier"`
}

// MessagePayload carries free-form text for the player.
type MessagePayload struct {
	Text string `json:"text"`
}

// EventLog is the ordered, in-memory notification queue.
type EventLog struct {
	mu      sync.Mutex
	seq     int64
	pending []GameEvent
	history []GameEvent
}

// NewEventLog creates an empty queue.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append adds a notification. Sequence numbers are assigned here.
func (el *EventLog) Append(event GameEvent) GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.seq++
	event.Seq = el.seq
	el.pending = append(el.pending, event)
	return event
}

// Drain returns everything appended since the previous drain, oldest first.
func (el *EventLog) Drain() []GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()
	out := el.pending
	el.pending = nil

	el.history = append(el.history, out...)
	if len(el.history) > historyLimit {
		el.history = append([]GameEvent(nil), el.history[len(el.history)-historyLimit:]...)
	}
	return out
}

// Pending reports how many notifications are waiting to be drained.
func (el *EventLog) Pending() int {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.pending)
}

// Replay returns a copy of recently drained notifications.
func (el *EventLog) Replay() []GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()
	return append([]GameEvent(nil), el.history...)
}

// GetByType filters recently drained notifications by type.
func (el *EventLog) GetByType(t EventType) []GameEvent {
	el.mu.Lock()
	defer el.mu.Unlock()
	var result []GameEvent
	for _, e := range el.history {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}
