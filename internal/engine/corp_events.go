package engine

import (
	"errors"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/corpevent"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

var (
	// ErrEventNotFound is returned when resolving an event that is not pending.
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidChoice is returned for a choice index outside the template's choices.
	ErrInvalidChoice = errors.New("invalid choice")
)

// motivationSpread divides motivation outcomes across the whole roster.
const motivationSpread = 3

// PendingEvent is a triggered event waiting for the player's choice.
type PendingEvent struct {
	ID       string             `json:"id"`
	Template corpevent.Template `json:"template"`
	Year     int                `json:"year"`
	Month    int                `json:"month"`
	Day      int                `json:"day"`
}

// EventTriggeredPayload is attached to event-triggered notifications.
type EventTriggeredPayload struct {
	EventID string   `json:"event_id"`
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Choices []string `json:"choices"`
}

// EventSystem rolls daily for corporate events and applies the chosen outcomes.
type EventSystem struct {
	ctx       *Context
	ledger    *Ledger
	workforce *Workforce
	pool      []corpevent.Template
	pending   []*PendingEvent
}

// NewEventSystem creates a system drawing from pool in order.
func NewEventSystem(ctx *Context, ledger *Ledger, workforce *Workforce, pool []corpevent.Template) *EventSystem {
	return &EventSystem{ctx: ctx, ledger: ledger, workforce: workforce, pool: pool}
}

// Reset drops every pending event.
func (es *EventSystem) Reset() {
	es.pending = nil
}

// TryTrigger draws once per template in pool order and fires at most one event.
func (es *EventSystem) TryTrigger() (*PendingEvent, bool) {
	for _, tpl := range es.pool {
		if es.ctx.Rand.Float64() >= tpl.DailyChance() {
			continue
		}
		pe := &PendingEvent{ID: es.ctx.NewID(), Template: tpl}
		if c := es.ctx.Company; c != nil {
			pe.Year, pe.Month, pe.Day = c.Year, c.Month, c.Day
		}
		es.pending = append(es.pending, pe)

		labels := make([]string, len(tpl.Choices))
		for i, ch := range tpl.Choices {
			labels[i] = ch.Label
		}
		es.ctx.Emit(events.EventTypeEventTriggered, EventTriggeredPayload{
			EventID: pe.ID, Key: tpl.Key, Title: tpl.Title, Choices: labels,
		})
		es.ctx.Logger.Event("EVENT_TRIGGERED", tpl.Key, tpl.Title)
		return pe, true
	}
	return nil, false
}

// Resolve applies choice to a pending event and retires it.
// A money loss the company cannot afford leaves the event pending.
func (es *EventSystem) Resolve(eventID string, choice int) error {
	idx := -1
	for i, pe := range es.pending {
		if pe.ID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	pe := es.pending[idx]
	if choice < 0 || choice >= len(pe.Template.Choices) {
		return fmt.Errorf("%w: %d of %d", ErrInvalidChoice, choice, len(pe.Template.Choices))
	}

	ch := pe.Template.Choices[choice]
	if err := es.apply(pe.Template, ch); err != nil {
		return err
	}

	es.pending = append(es.pending[:idx], es.pending[idx+1:]...)
	es.ctx.Message(fmt.Sprintf("[%s] %s", pe.Template.Title, ch.ResultText))
	return nil
}

func (es *EventSystem) apply(tpl corpevent.Template, ch corpevent.Choice) error {
	v := ch.OutcomeValue
	switch ch.OutcomeType {
	case corpevent.OutcomeMoneyGain:
		return es.ledger.AddRevenue(int64(v), "Event: "+tpl.Title)
	case corpevent.OutcomeMoneyLoss:
		return es.ledger.Spend(int64(v), "Event: "+tpl.Title)
	case corpevent.OutcomeReputationGain:
		es.ctx.Company.AdjustReputation(v)
	case corpevent.OutcomeReputationLoss:
		es.ctx.Company.AdjustReputation(-v)
	case corpevent.OutcomeMotivationGain:
		es.workforce.AdjustAllMotivation(v / motivationSpread)
	case corpevent.OutcomeMotivationLoss:
		es.workforce.AdjustAllMotivation(-v / motivationSpread)
	default:
		es.ctx.Logger.Warn("unknown event outcome", "event", tpl.Key, "outcome", ch.OutcomeType)
	}
	return nil
}

// Pending returns unresolved events, oldest first.
func (es *EventSystem) Pending() []*PendingEvent {
	return append([]*PendingEvent(nil), es.pending...)
}
