package engine

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/company"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

// Rand is the single deterministic random source threaded through every system.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
	Uint64() uint64
}

// Context is the shared simulation state handed to every subsystem constructor.
// Only the Engine replaces Company; subsystems read it and adjust reputation through it.
type Context struct {
	Company *company.State
	Rand    Rand
	Events  *events.EventLog
	Logger  *logger.Logger
}

// Emit appends a notification stamped with the current simulated date.
func (c *Context) Emit(t events.EventType, payload interface{}) {
	e := events.GameEvent{Type: t, Payload: payload}
	if c.Company != nil {
		e.Year, e.Month, e.Day = c.Company.Year, c.Company.Month, c.Company.Day
	}
	c.Events.Append(e)
}

// Message broadcasts free-form text for the player and logs it.
func (c *Context) Message(text string) {
	c.Emit(events.EventTypeGameMessage, events.MessagePayload{Text: text})
	c.Logger.Event("GAME_MESSAGE", "GAME", text)
}

// NewID draws a v4 UUID from the simulation's random source, so seeded runs get seeded IDs.
func (c *Context) NewID() string {
	id, err := uuid.NewRandomFromReader(randReader{c.Rand})
	if err != nil {
		// randReader never fails; fall back to the global generator regardless.
		return uuid.NewString()
	}
	return id.String()
}

// randReader adapts Rand to io.Reader.
type randReader struct {
	r Rand
}

func (rr randReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], rr.r.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}
