package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/company"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/corpevent"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/office"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

// ErrFloorLimit is returned when unlocking more floors than the company tier allows.
var ErrFloorLimit = errors.New("floor limit reached for current tier")

// Calendar shape.
const (
	DaysPerMonth   = 30
	MonthsPerYear  = 12
	annualScoreMax = 100

	// moralePerMotivation is how many office morale points lift staff motivation by one each month.
	moralePerMotivation = 5
)

// Config holds the tunables of one simulation.
type Config struct {
	CompanyName       string
	StartingCash      int64
	InterestRate      float64
	DayDuration       time.Duration
	MinSpeed          float64
	MaxSpeed          float64
	FloorWidth        int
	FloorHeight       int
	RentPerFloor      int
	ProjectsPerMonth  int
	CandidatePoolSize int
	EventPool         []corpevent.Template
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		CompanyName:       "Pocket Office",
		StartingCash:      10000,
		InterestRate:      DefaultInterestRate,
		DayDuration:       10 * time.Second,
		MinSpeed:          0.5,
		MaxSpeed:          4.0,
		FloorWidth:        office.DefaultWidth,
		FloorHeight:       office.DefaultHeight,
		RentPerFloor:      office.DefaultRentPerFloor,
		ProjectsPerMonth:  2,
		CandidatePoolSize: 5,
		EventPool:         corpevent.DefaultPool(),
	}
}

// Engine is the single writer over one company's simulation.
// Every exported method takes the same lock, so API calls and the real-time driver
// never interleave inside a day tick.
type Engine struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	ctx       *Context
	clock     *Clock
	ledger    *Ledger
	workforce *Workforce
	projects  *ProjectSystem
	corp      *EventSystem
	office    *office.Office
}

// New wires every subsystem around one context and starts a fresh game.
func New(cfg Config, rng Rand, log *logger.Logger) *Engine {
	ctx := &Context{Rand: rng, Events: events.NewEventLog(), Logger: log}
	ledger := NewLedger(ctx, cfg.InterestRate)
	workforce := NewWorkforce(ctx)

	e := &Engine{
		cfg:       cfg,
		now:       time.Now,
		ctx:       ctx,
		clock:     NewClock(cfg.DayDuration, cfg.MinSpeed, cfg.MaxSpeed),
		ledger:    ledger,
		workforce: workforce,
		projects:  NewProjectSystem(ctx, ledger, workforce),
		corp:      NewEventSystem(ctx, ledger, workforce, cfg.EventPool),
	}
	e.newGame(cfg.CompanyName)
	return e
}

// NewGame discards the current company and starts over.
func (e *Engine) NewGame(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newGame(name)
}

func (e *Engine) newGame(name string) {
	e.ctx.Company = company.New(name)
	e.ledger.Initialize(e.cfg.StartingCash)
	e.workforce.Reset()
	e.projects.Reset()
	e.corp.Reset()

	e.office = office.New(e.cfg.FloorWidth, e.cfg.FloorHeight, e.cfg.RentPerFloor)
	if err := e.office.UnlockFloor(0); err != nil {
		e.ctx.Logger.Error("ground floor unlock failed", "error", err)
	}

	e.workforce.GenerateCandidates(e.cfg.CandidatePoolSize)
	e.projects.Generate(e.cfg.ProjectsPerMonth)

	e.ctx.Message(fmt.Sprintf("Welcome to %s! Build your empire.", name))
	e.ctx.Logger.Info("new game started", "company", name, "cash", e.ledger.Cash())
}

// Update feeds elapsed real time to the clock and runs every day that falls due.
// Returns the number of days advanced.
func (e *Engine) Update(elapsed time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	days := e.clock.Accumulate(elapsed)
	for i := 0; i < days; i++ {
		e.advanceDay()
	}
	return days
}

// AdvanceDay runs one day tick unless paused.
func (e *Engine) AdvanceDay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.clock.IsPaused() {
		return false
	}
	e.advanceDay()
	return true
}

// advanceDay rolls the calendar first so every notification and ledger entry of the
// tick carries the new date. Work order: projects, events, month, year.
func (e *Engine) advanceDay() {
	c := e.ctx.Company
	newMonth, newYear := false, false

	c.Day++
	// DAY_PASSED carries the raw counter, 31 on the tick that closes a month
	dayCount := c.Day
	if c.Day > DaysPerMonth {
		c.Day = 1
		c.Month++
		newMonth = true
		if c.Month > MonthsPerYear {
			c.Month = 1
			c.Year++
			newYear = true
		}
	}

	e.ctx.Emit(events.EventTypeDayPassed, events.CounterPayload{Value: dayCount})
	e.projects.Tick()
	e.corp.TryTrigger()

	if newMonth {
		e.monthEnd()
	}
	if newYear {
		e.yearEnd()
	}
}

func (e *Engine) monthEnd() {
	c := e.ctx.Company
	e.ctx.Emit(events.EventTypeMonthPassed, events.CounterPayload{Value: c.Month})

	e.ledger.ProcessMonthlyCosts(e.workforce.TotalMonthlySalary(), int64(e.office.MonthlyRent()))
	if lift := e.office.TotalBuffs().Morale / moralePerMotivation; lift > 0 {
		e.workforce.AdjustAllMotivation(lift)
	}
	e.projects.Generate(e.cfg.ProjectsPerMonth)
	e.checkTier()

	e.ctx.Logger.Info("month closed", "date", c.DateString(), "cash", e.ledger.Cash(),
		"employees", e.workforce.HiredCount(), "reputation", c.Reputation)
}

func (e *Engine) checkTier() {
	c := e.ctx.Company
	q := company.QualifyingTier(e.workforce.HiredCount(), e.ledger.TotalEarned(), c.Reputation)
	if !c.UpgradeTier(q) {
		return
	}
	e.ctx.Emit(events.EventTypeTierUpgraded, events.TierPayload{Tier: q.String()})
	e.ctx.Message(fmt.Sprintf("Company upgraded to %s!", q))
}

func (e *Engine) yearEnd() {
	c := e.ctx.Company
	e.ctx.Emit(events.EventTypeYearPassed, events.CounterPayload{Value: c.Year})

	score := AnnualScore(c.Reputation, e.ledger.Cash(), e.workforce.AverageMotivation())
	e.ctx.Message(fmt.Sprintf("Annual Review: Score %d/100 - Year %d", score, c.Year))
	c.AdjustReputation(score / 10)
}

// AnnualScore rates a year out of 100 from reputation, cash and average motivation.
func AnnualScore(reputation int, cash int64, avgMotivation float64) int {
	rep := clamp(float64(reputation)/10, 0, 30)
	fin := clamp(float64(cash)/10000, 0, 40)
	team := clamp(avgMotivation/100*30, 0, 30)
	return min(annualScoreMax, int(math.Round(rep+fin+team)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// TogglePause flips the clock. Paused engines ignore elapsed time.
func (e *Engine) TogglePause() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.clock.TogglePause()
	e.ctx.Logger.Info("clock toggled", "state", s)
	return s
}

// SetSpeed changes the day cadence and returns the clamped multiplier.
func (e *Engine) SetSpeed(multiplier float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.SetSpeed(multiplier)
}

// Candidates lists applicants.
func (e *Engine) Candidates() []employee.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyEmployees(e.workforce.Candidates())
}

// RefreshCandidates replaces the applicant pool.
func (e *Engine) RefreshCandidates() []employee.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyEmployees(e.workforce.GenerateCandidates(e.cfg.CandidatePoolSize))
}

// Hire moves a candidate onto the roster.
func (e *Engine) Hire(candidateID string) (employee.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	emp, err := e.workforce.Hire(candidateID)
	if err != nil {
		return employee.Employee{}, err
	}
	return *emp, nil
}

// Fire removes an unassigned employee.
func (e *Engine) Fire(employeeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workforce.Fire(employeeID)
}

// Employees lists the roster in hiring order.
func (e *Engine) Employees() []employee.Employee {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyEmployees(e.workforce.Employees())
}

// Projects lists every project, optionally filtered by status.
func (e *Engine) Projects(status project.Status) []project.ClientProject {
	e.mu.Lock()
	defer e.mu.Unlock()

	var list []*project.ClientProject
	if status == "" {
		list = e.projects.Projects()
	} else {
		list = e.projects.ByStatus(status)
	}
	return copyProjects(list)
}

// AssignProject staffs a project. Office productivity buffs scale the team's output.
func (e *Engine) AssignProject(projectID string, employeeIDs []string) (project.ClientProject, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	multiplier := 1 + float64(e.office.TotalBuffs().Productivity)/100
	if err := e.projects.Assign(projectID, employeeIDs, multiplier); err != nil {
		return project.ClientProject{}, err
	}
	p, _ := e.projects.Project(projectID)
	return copyProject(p), nil
}

// PendingEvents lists unresolved corporate events.
func (e *Engine) PendingEvents() []PendingEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending := e.corp.Pending()
	out := make([]PendingEvent, len(pending))
	for i, pe := range pending {
		out[i] = *pe
	}
	return out
}

// ResolveEvent applies the chosen response.
func (e *Engine) ResolveEvent(eventID string, choice int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.corp.Resolve(eventID, choice)
}

// TakeLoan opens a loan.
func (e *Engine) TakeLoan(amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.TakeLoan(amount)
}

// RepayLoan pays down the loan.
func (e *Engine) RepayLoan(amount int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.RepayLoan(amount)
}

// Ledger returns the transaction log.
func (e *Engine) Ledger() []LedgerEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Entries()
}

// UnlockFloor opens the next floor if the tier allows it.
func (e *Engine) UnlockFloor(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index >= 0 && index < e.office.UnlockedFloors() {
		return nil
	}
	if index >= e.ctx.Company.Tier.MaxFloors() {
		return fmt.Errorf("%w: %s allows %d", ErrFloorLimit, e.ctx.Company.Tier, e.ctx.Company.Tier.MaxFloors())
	}
	if err := e.office.UnlockFloor(index); err != nil {
		return err
	}
	e.ctx.Message(fmt.Sprintf("Floor %d unlocked. Rent is now $%d/mo", index, e.office.MonthlyRent()))
	return nil
}

// PlaceRoom builds a room on an unlocked floor.
func (e *Engine) PlaceRoom(floor, x, y int, t office.RoomType) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.office.PlaceRoom(floor, x, y, t)
}

// Layout lists the non-empty tiles of every unlocked floor.
func (e *Engine) Layout() []office.RoomTile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.office.Layout()
}

// Drain hands the queued notifications to the caller.
func (e *Engine) Drain() []events.GameEvent {
	return e.ctx.Events.Drain()
}

// History returns already drained notifications.
func (e *Engine) History() []events.GameEvent {
	return e.ctx.Events.Replay()
}

// State is a point-in-time copy of the headline figures.
type State struct {
	Company           company.State `json:"company"`
	Date              string        `json:"date"`
	Cash              int64         `json:"cash"`
	TotalEarned       int64         `json:"total_earned"`
	TotalSpent        int64         `json:"total_spent"`
	LoanPrincipal     int64         `json:"loan_principal"`
	InterestRate      float64       `json:"interest_rate"`
	RunState          RunState      `json:"run_state"`
	Speed             float64       `json:"speed"`
	DayDuration       string        `json:"day_duration"`
	Employees         int           `json:"employees"`
	MonthlySalary     int64         `json:"monthly_salary"`
	AverageMotivation float64       `json:"average_motivation"`
	Floors            int           `json:"floors"`
	MaxFloors         int           `json:"max_floors"`
	MonthlyRent       int           `json:"monthly_rent"`
	Buffs             office.Buffs  `json:"buffs"`
	ActiveProjects    int           `json:"active_projects"`
	PendingEvents     int           `json:"pending_events"`
}

// State snapshots the headline figures.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := *e.ctx.Company
	c.UnlockedDepartments = append([]string(nil), c.UnlockedDepartments...)
	return State{
		Company:           c,
		Date:              c.DateString(),
		Cash:              e.ledger.Cash(),
		TotalEarned:       e.ledger.TotalEarned(),
		TotalSpent:        e.ledger.TotalSpent(),
		LoanPrincipal:     e.ledger.LoanPrincipal(),
		InterestRate:      e.ledger.InterestRate(),
		RunState:          e.clock.State(),
		Speed:             e.clock.Speed(),
		DayDuration:       e.clock.DayDuration().String(),
		Employees:         e.workforce.HiredCount(),
		MonthlySalary:     e.workforce.TotalMonthlySalary(),
		AverageMotivation: e.workforce.AverageMotivation(),
		Floors:            e.office.UnlockedFloors(),
		MaxFloors:         c.Tier.MaxFloors(),
		MonthlyRent:       e.office.MonthlyRent(),
		Buffs:             e.office.TotalBuffs(),
		ActiveProjects:    len(e.projects.ByStatus(project.StatusActive)),
		PendingEvents:     len(e.corp.Pending()),
	}
}

func copyEmployees(list []*employee.Employee) []employee.Employee {
	out := make([]employee.Employee, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out
}

func copyProject(p *project.ClientProject) project.ClientProject {
	cp := *p
	cp.AssignedEmployeeIDs = append([]string(nil), p.AssignedEmployeeIDs...)
	return cp
}

func copyProjects(list []*project.ClientProject) []project.ClientProject {
	out := make([]project.ClientProject, len(list))
	for i, p := range list {
		out[i] = copyProject(p)
	}
	return out
}
