package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/company"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

// scriptedRand replays floats in order (then 0.99, which never triggers an event)
// and returns zero for every integer roll.
type scriptedRand struct {
	floats []float64
	n      uint64
}

func (s *scriptedRand) IntN(n int) int { return 0 }

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Uint64() uint64 {
	s.n++
	return s.n
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func newTestContext(rng Rand) *Context {
	return &Context{
		Company: company.New("Test Co"),
		Rand:    rng,
		Events:  events.NewEventLog(),
		Logger:  logger.Discard(),
	}
}

// hireAll hires every current candidate and returns their IDs.
func hireAll(t *testing.T, w *Workforce) []string {
	t.Helper()
	var ids []string
	for _, c := range w.Candidates() {
		e, err := w.Hire(c.ID)
		require.NoError(t, err)
		ids = append(ids, e.ID)
	}
	return ids
}

func staffMember(id string, skill, motivation int) *employee.Employee {
	return &employee.Employee{
		ID: id, FirstName: "Test", LastName: id,
		Personality: employee.PersonalityNormal, Role: employee.RoleDeveloper,
		Skill: skill, Motivation: motivation, Teamwork: 50, Creativity: 50,
		Level: 1, MonthlySalary: 1000, IsHired: true,
	}
}

func countType(batch []events.GameEvent, t events.EventType) int {
	n := 0
	for _, e := range batch {
		if e.Type == t {
			n++
		}
	}
	return n
}
