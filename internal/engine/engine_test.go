package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/company"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/office"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

// quietConfig has no corporate events, so calendar tests see only calendar effects.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.EventPool = nil
	return cfg
}

func newTestEngine(cfg Config, seed uint64) *Engine {
	return New(cfg, seeded(seed), logger.Discard())
}

func advance(e *Engine, days int) {
	for i := 0; i < days; i++ {
		e.AdvanceDay()
	}
}

func TestNewGameDefaults(t *testing.T) {
	e := newTestEngine(quietConfig(), 1)
	s := e.State()

	assert.Equal(t, "Pocket Office", s.Company.Name)
	assert.Equal(t, 10, s.Company.Reputation)
	assert.Equal(t, company.TierStartup, s.Company.Tier)
	assert.Equal(t, 2024, s.Company.Year)
	assert.Equal(t, "Month 1, Year 2024", s.Date)
	assert.Equal(t, int64(10000), s.Cash)
	assert.Equal(t, 1, s.Floors)
	assert.Equal(t, 1000, s.MonthlyRent)
	assert.Equal(t, 15, s.Buffs.Productivity)
	assert.Equal(t, RunStateRunning, s.RunState)

	assert.Len(t, e.Candidates(), 5)
	assert.Len(t, e.Projects(project.StatusAvailable), 2)
	assert.Len(t, e.Layout(), 3)
	assert.Equal(t, 1, countType(e.Drain(), events.EventTypeGameMessage))
}

func TestMonthRollover(t *testing.T) {
	e := newTestEngine(quietConfig(), 2)
	e.Drain()

	advance(e, 29)
	s := e.State()
	assert.Equal(t, 30, s.Company.Day)
	assert.Equal(t, 1, s.Company.Month)
	assert.Equal(t, int64(10000), s.Cash)
	e.Drain()

	advance(e, 1)
	s = e.State()
	assert.Equal(t, 1, s.Company.Day)
	assert.Equal(t, 2, s.Company.Month)
	assert.Equal(t, int64(9000), s.Cash, "rent for one floor")
	assert.Len(t, e.Projects(project.StatusAvailable), 4)

	batch := e.Drain()
	require.NotEmpty(t, batch)
	assert.Equal(t, events.EventTypeDayPassed, batch[0].Type)
	assert.Equal(t, events.CounterPayload{Value: 31}, batch[0].Payload)
	assert.Equal(t, 1, countType(batch, events.EventTypeMonthPassed))
	for _, ev := range batch {
		assert.Equal(t, 2, ev.Month, "notifications carry the new date")
	}
}

func TestYearRolloverOrdering(t *testing.T) {
	e := newTestEngine(quietConfig(), 3)
	require.NoError(t, e.TakeLoan(100000))
	e.Drain()

	advance(e, 359)
	assert.Equal(t, 2024, e.State().Company.Year)
	e.Drain()

	advance(e, 1)
	s := e.State()
	assert.Equal(t, 2025, s.Company.Year)
	assert.Equal(t, 1, s.Company.Month)
	assert.Equal(t, 1, s.Company.Day)

	batch := e.Drain()
	monthAt, yearAt := -1, -1
	for i, ev := range batch {
		switch ev.Type {
		case events.EventTypeMonthPassed:
			monthAt = i
		case events.EventTypeYearPassed:
			yearAt = i
		}
	}
	require.GreaterOrEqual(t, monthAt, 0)
	require.GreaterOrEqual(t, yearAt, 0)
	assert.Less(t, monthAt, yearAt, "month work precedes year work")

	var review string
	for _, ev := range batch {
		if msg, ok := ev.Payload.(events.MessagePayload); ok && strings.HasPrefix(msg.Text, "Annual Review") {
			review = msg.Text
		}
	}
	assert.Contains(t, review, "Year 2025")

	ledger := e.Ledger()
	assert.Equal(t, 2025, ledger[len(ledger)-1].Year)
}

func TestAnnualScore(t *testing.T) {
	assert.Equal(t, 0, AnnualScore(0, 0, 0))
	assert.Equal(t, 0, AnnualScore(0, -50000, 0))
	assert.Equal(t, 100, AnnualScore(1000, 10_000_000, 100))
	assert.Equal(t, 35, AnnualScore(150, 50000, 50))
	assert.Equal(t, 3, AnnualScore(25, 0, 0), "2.5 rounds half away from zero")
}

func TestYearEndRaisesReputation(t *testing.T) {
	e := newTestEngine(quietConfig(), 4)
	e.mu.Lock()
	e.ledger.Initialize(512000)
	e.ctx.Company.Reputation = 300
	e.mu.Unlock()

	advance(e, 360)
	// reputation 30 + cash 40 (500k after rent, capped) + no staff = 70
	assert.Equal(t, 307, e.State().Company.Reputation)
}

func TestTierUpgradesAtMonthEndAndNeverRegresses(t *testing.T) {
	e := newTestEngine(quietConfig(), 5)
	e.mu.Lock()
	staff := make([]*employee.Employee, 6)
	for i := range staff {
		staff[i] = staffMember(string(rune('a'+i)), 50, 50)
	}
	e.workforce.Load(staff)
	require.NoError(t, e.ledger.AddRevenue(30000, "seed"))
	e.ctx.Company.Reputation = 60
	e.mu.Unlock()
	e.Drain()

	advance(e, 29)
	assert.Equal(t, company.TierStartup, e.State().Company.Tier, "tier only changes at month end")

	advance(e, 1)
	assert.Equal(t, company.TierSME, e.State().Company.Tier)
	assert.Equal(t, 1, countType(e.Drain(), events.EventTypeTierUpgraded))

	e.mu.Lock()
	e.ctx.Company.Reputation = 0
	e.mu.Unlock()
	advance(e, 30)
	assert.Equal(t, company.TierSME, e.State().Company.Tier)
	assert.Zero(t, countType(e.Drain(), events.EventTypeTierUpgraded))
}

func TestFloorLimitFollowsTier(t *testing.T) {
	e := newTestEngine(quietConfig(), 6)
	assert.ErrorIs(t, e.UnlockFloor(1), ErrFloorLimit)

	e.mu.Lock()
	e.ctx.Company.Tier = company.TierSME
	e.mu.Unlock()

	require.NoError(t, e.UnlockFloor(1))
	require.NoError(t, e.PlaceRoom(1, 4, 2, office.RoomBreak))
	require.NoError(t, e.UnlockFloor(2))
	assert.ErrorIs(t, e.UnlockFloor(3), ErrFloorLimit)

	s := e.State()
	assert.Equal(t, 3, s.Floors)
	assert.Equal(t, 3000, s.MonthlyRent)
	assert.Equal(t, 15, s.Buffs.Morale)
}

func TestOfficeMoraleLiftsMotivationMonthly(t *testing.T) {
	e := newTestEngine(quietConfig(), 8)
	tired := staffMember("tired", 40, 8)
	tired.IsBurnedOut = true
	e.mu.Lock()
	e.workforce.Load([]*employee.Employee{tired})
	e.mu.Unlock()

	require.NoError(t, e.PlaceRoom(0, 4, 2, office.RoomBreak))
	require.NoError(t, e.PlaceRoom(0, 5, 2, office.RoomHROffice))

	advance(e, 29)
	assert.Equal(t, 8, tired.Motivation, "no lift mid-month")

	advance(e, 1)
	assert.Equal(t, 8+(15+8)/5, tired.Motivation)
	assert.False(t, tired.IsBurnedOut)
}

func TestFloorsUnlockInOrder(t *testing.T) {
	e := newTestEngine(quietConfig(), 6)
	e.mu.Lock()
	e.ctx.Company.Tier = company.TierEnterprise
	e.mu.Unlock()

	require.NoError(t, e.UnlockFloor(1))
	assert.ErrorIs(t, e.UnlockFloor(3), office.ErrFloorOutOfOrder, "floor 2 comes first")
	assert.Equal(t, 2, e.State().Floors)

	require.NoError(t, e.UnlockFloor(2))
	require.NoError(t, e.UnlockFloor(3))
	assert.Equal(t, 4, e.State().Floors)
}

func TestAssignProjectAppliesOfficeBuffs(t *testing.T) {
	e := newTestEngine(quietConfig(), 7)
	dev := staffMember("dev", 20, 20)
	e.mu.Lock()
	e.workforce.Load([]*employee.Employee{dev})
	e.mu.Unlock()

	offer := e.Projects(project.StatusAvailable)[0]
	p, err := e.AssignProject(offer.ID, []string{"dev"})
	require.NoError(t, err)
	assert.InDelta(t, 23.0, p.DailyOutput, 1e-9, "three desks give +15% productivity")
	assert.Equal(t, project.StatusActive, p.Status)

	assert.ErrorIs(t, e.Fire("dev"), ErrEmployeeBusy)
}

func TestPauseGatesTicks(t *testing.T) {
	e := newTestEngine(quietConfig(), 8)
	assert.Equal(t, RunStatePaused, e.TogglePause())
	assert.False(t, e.AdvanceDay())
	assert.Zero(t, e.Update(time.Hour))
	assert.Equal(t, 1, e.State().Company.Day)

	e.TogglePause()
	assert.Equal(t, 4.0, e.SetSpeed(8))
	assert.Equal(t, 4, e.Update(10*time.Second))
	assert.Equal(t, 5, e.State().Company.Day)
}

func TestInsolventCompanyKeepsRunning(t *testing.T) {
	e := newTestEngine(quietConfig(), 9)
	e.mu.Lock()
	e.ledger.Initialize(500)
	e.mu.Unlock()
	e.Drain()

	advance(e, 30)
	assert.Equal(t, int64(-500), e.State().Cash)
	assert.Equal(t, 1, countType(e.Drain(), events.EventTypeBankrupt))

	assert.True(t, e.AdvanceDay())
	assert.Equal(t, 2, e.State().Company.Day)
}

func TestSeededRunsAreIdentical(t *testing.T) {
	play := func() (State, []LedgerEntry) {
		e := newTestEngine(DefaultConfig(), 2024)
		for _, c := range e.Candidates() {
			_, err := e.Hire(c.ID)
			require.NoError(t, err)
		}
		for day := 0; day < 400; day++ {
			for _, p := range e.Projects(project.StatusAvailable) {
				var free []string
				for _, emp := range e.Employees() {
					if !emp.IsAssigned {
						free = append(free, emp.ID)
					}
				}
				if len(free) > 0 {
					_, _ = e.AssignProject(p.ID, free[:1])
				}
			}
			for _, pe := range e.PendingEvents() {
				_ = e.ResolveEvent(pe.ID, 0)
			}
			e.AdvanceDay()
		}
		return e.State(), e.Ledger()
	}

	s1, l1 := play()
	s2, l2 := play()
	assert.Equal(t, s1, s2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, 2025, s1.Company.Year)
}

func TestInvariantsHoldThroughLongRun(t *testing.T) {
	e := newTestEngine(DefaultConfig(), 99)
	for _, c := range e.Candidates() {
		_, _ = e.Hire(c.ID)
	}
	lastTier := company.TierStartup
	for day := 0; day < 720; day++ {
		e.AdvanceDay()
		s := e.State()
		assert.GreaterOrEqual(t, s.Company.Reputation, company.MinReputation)
		assert.LessOrEqual(t, s.Company.Reputation, company.MaxReputation)
		assert.GreaterOrEqual(t, s.Company.Tier, lastTier)
		lastTier = s.Company.Tier
		for _, emp := range e.Employees() {
			assert.GreaterOrEqual(t, emp.Motivation, employee.MinStat)
			assert.LessOrEqual(t, emp.Motivation, employee.MaxStat)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	sum := e.ledger.StartingCash()
	for _, entry := range e.ledger.Entries() {
		sum += entry.Amount
	}
	assert.Equal(t, sum, e.ledger.Cash())
}
