package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

// Impact classifies how a notification affected the company.
type Impact string

const (
	ImpactPositive Impact = "POSITIVE"
	ImpactNegative Impact = "NEGATIVE"
	ImpactNeutral  Impact = "NEUTRAL"
)

// RecapEvent is a human-readable line of the "while you were away" history.
type RecapEvent struct {
	Seq       int64            `json:"seq"`
	Date      string           `json:"date"`
	EventType events.EventType `json:"event_type"`
	Summary   string           `json:"summary"`
	Impact    Impact           `json:"impact"`
}

// Recap turns the last limit archived notifications into readable lines.
// Day ticks and cash movements are left out; they would drown everything else.
func Recap(ctx context.Context, repo NotificationRepository, limit int) ([]RecapEvent, error) {
	archived, err := repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	out := make([]RecapEvent, 0, len(archived))
	for _, e := range archived {
		summary, impact, ok := summarize(e)
		if !ok {
			continue
		}
		out = append(out, RecapEvent{
			Seq:       e.Seq,
			Date:      fmt.Sprintf("%d-%02d-%02d", e.Year, e.Month, e.Day),
			EventType: e.Type,
			Summary:   summary,
			Impact:    impact,
		})
	}
	return out, nil
}

func summarize(e events.GameEvent) (string, Impact, bool) {
	var fields map[string]interface{}
	decode(e.Payload, &fields)

	switch e.Type {
	case events.EventTypeProjectCompleted:
		return fmt.Sprintf("Delivered %v for %v", fields["title"], fields["client"]), ImpactPositive, true
	case events.EventTypeProjectFailed:
		return fmt.Sprintf("Missed the deadline on %v for %v", fields["title"], fields["client"]), ImpactNegative, true
	case events.EventTypeTierUpgraded:
		return fmt.Sprintf("Reached %v", fields["tier"]), ImpactPositive, true
	case events.EventTypeBankrupt:
		return fmt.Sprintf("Cash fell to %v", fields["cash"]), ImpactNegative, true
	case events.EventTypeEventTriggered:
		return fmt.Sprintf("%v", fields["title"]), ImpactNeutral, true
	case events.EventTypeYearPassed:
		return fmt.Sprintf("Year %v began", fields["value"]), ImpactNeutral, true
	case events.EventTypeGameMessage:
		return fmt.Sprintf("%v", fields["text"]), ImpactNeutral, true
	}
	return "", ImpactNeutral, false
}

// decode reads a payload that is either archived JSON or a live struct.
func decode(payload interface{}, into *map[string]interface{}) {
	var raw []byte
	switch p := payload.(type) {
	case nil:
		return
	case json.RawMessage:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return
		}
		raw = b
	}
	_ = json.Unmarshal(raw, into)
}
