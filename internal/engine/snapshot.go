package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/company"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/office"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
)

// SnapshotVersion is bumped whenever the snapshot layout changes incompatibly.
const SnapshotVersion = 1

// ErrInvalidSnapshot is returned when a snapshot fails validation. Nothing is applied.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the full serializable state handed to the persistence gateway.
type Snapshot struct {
	Version        int                     `json:"version"`
	SavedAt        time.Time               `json:"saved_at"`
	Company        company.State           `json:"company"`
	Cash           int64                   `json:"cash"`
	Employees      []employee.Employee     `json:"employees"`
	ActiveProjects []project.ClientProject `json:"active_projects"`
	Floors         int                     `json:"floors"`
	Layout         []office.RoomTile       `json:"layout"`
}

// Snapshot captures the current game.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := *e.ctx.Company
	c.UnlockedDepartments = append([]string(nil), c.UnlockedDepartments...)
	return &Snapshot{
		Version:        SnapshotVersion,
		SavedAt:        e.now().UTC(),
		Company:        c,
		Cash:           e.ledger.Cash(),
		Employees:      copyEmployees(e.workforce.Employees()),
		ActiveProjects: copyProjects(e.projects.ByStatus(project.StatusActive)),
		Floors:         e.office.UnlockedFloors(),
		Layout:         e.office.Layout(),
	}
}

// Restore replaces the running game with s in one step.
// The ledger restarts from the saved cash; roster and projects are replaced wholesale.
func (e *Engine) Restore(s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := office.Restore(e.cfg.FloorWidth, e.cfg.FloorHeight, e.cfg.RentPerFloor, s.Floors, s.Layout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	c := s.Company
	c.UnlockedDepartments = append([]string(nil), s.Company.UnlockedDepartments...)
	e.ctx.Company = &c
	e.ledger.Initialize(s.Cash)

	roster := make([]*employee.Employee, len(s.Employees))
	for i := range s.Employees {
		emp := s.Employees[i]
		emp.Release()
		// burnout is derived from motivation, never trusted from the save
		emp.IsBurnedOut = emp.Motivation <= employee.BurnoutThreshold
		roster[i] = &emp
	}
	e.workforce.Load(roster)

	active := make([]*project.ClientProject, len(s.ActiveProjects))
	for i := range s.ActiveProjects {
		p := copyProject(&s.ActiveProjects[i])
		for _, id := range p.AssignedEmployeeIDs {
			if emp, ok := e.workforce.Employee(id); ok {
				emp.Assign(p.ID)
			}
		}
		active[i] = &p
	}
	e.projects.Load(active)
	e.corp.Reset()
	e.office = o

	e.ctx.Message(fmt.Sprintf("Game loaded: %s, %s", c.Name, c.DateString()))
	e.ctx.Logger.Info("snapshot restored", "company", c.Name, "saved_at", s.SavedAt,
		"employees", len(roster), "active_projects", len(active))
	return nil
}

// Validate checks the invariants a snapshot must hold before it can be applied.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: empty", ErrInvalidSnapshot)
	}
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidSnapshot, s.Version)
	}

	c := s.Company
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: company name missing", ErrInvalidSnapshot)
	case c.Reputation < company.MinReputation || c.Reputation > company.MaxReputation:
		return fmt.Errorf("%w: reputation %d", ErrInvalidSnapshot, c.Reputation)
	case c.Tier < company.TierStartup || c.Tier > company.TierGlobalCorp:
		return fmt.Errorf("%w: tier %d", ErrInvalidSnapshot, c.Tier)
	case c.Month < 1 || c.Month > MonthsPerYear || c.Day < 1 || c.Day > DaysPerMonth:
		return fmt.Errorf("%w: date %d/%d", ErrInvalidSnapshot, c.Month, c.Day)
	case s.Floors < 1 || s.Floors > c.Tier.MaxFloors():
		return fmt.Errorf("%w: %d floors for %s", ErrInvalidSnapshot, s.Floors, c.Tier)
	}

	ids := make(map[string]bool, len(s.Employees))
	for _, emp := range s.Employees {
		if emp.ID == "" || ids[emp.ID] {
			return fmt.Errorf("%w: employee id %q", ErrInvalidSnapshot, emp.ID)
		}
		ids[emp.ID] = true
		for _, stat := range []int{emp.Skill, emp.Motivation, emp.Teamwork, emp.Creativity} {
			if stat < employee.MinStat || stat > employee.MaxStat {
				return fmt.Errorf("%w: %s stat %d", ErrInvalidSnapshot, emp.ID, stat)
			}
		}
		if emp.Level < 1 {
			return fmt.Errorf("%w: %s level %d", ErrInvalidSnapshot, emp.ID, emp.Level)
		}
	}

	staffed := make(map[string]bool)
	for _, p := range s.ActiveProjects {
		if p.Status != project.StatusActive {
			return fmt.Errorf("%w: project %s is %s", ErrInvalidSnapshot, p.ID, p.Status)
		}
		for _, id := range p.AssignedEmployeeIDs {
			if !ids[id] || staffed[id] {
				return fmt.Errorf("%w: project %s staff %s", ErrInvalidSnapshot, p.ID, id)
			}
			staffed[id] = true
		}
	}
	return nil
}
