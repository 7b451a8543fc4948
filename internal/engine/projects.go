package engine

import (
	"errors"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
	"github.com/MRamiBalles/PocketOffice/server/internal/domain/project"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
)

var (
	// ErrProjectNotFound is returned for unknown project IDs.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectNotAvailable is returned when assigning to a project that was already taken.
	ErrProjectNotAvailable = errors.New("project is not available")
	// ErrNoStaff is returned when assigning an empty team.
	ErrNoStaff = errors.New("no employees given")
	// ErrEmployeeUnavailable is returned for employees that are not hired or already busy.
	ErrEmployeeUnavailable = errors.New("employee is not available")
)

// Experience and motivation changes applied to a team when its project ends.
const (
	projectExperience      = 50
	completedMotivationAdj = 10
	failedMotivationAdj    = -15
)

var (
	clientNames   = []string{"Acme Corp", "TechNova", "MegaDeal Ltd", "PixelBrand", "CloudFirst Inc"}
	projectTitles = []string{"Website Revamp", "App Development", "Brand Campaign", "Data Migration", "Office System"}
)

// ProjectPayload is attached to project completion and failure notifications.
type ProjectPayload struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Client    string `json:"client"`
	Reward    int    `json:"reward,omitempty"`
	Penalty   int    `json:"penalty,omitempty"`
}

// ProjectSystem generates offers, staffs them and advances active work one day at a time.
type ProjectSystem struct {
	ctx       *Context
	ledger    *Ledger
	workforce *Workforce
	projects  []*project.ClientProject
}

// NewProjectSystem wires the lifecycle to the ledger and roster it pays and releases.
func NewProjectSystem(ctx *Context, ledger *Ledger, workforce *Workforce) *ProjectSystem {
	return &ProjectSystem{ctx: ctx, ledger: ledger, workforce: workforce}
}

// Reset drops every project.
func (ps *ProjectSystem) Reset() {
	ps.projects = nil
}

// Generate appends count new Available offers.
func (ps *ProjectSystem) Generate(count int) []*project.ClientProject {
	rng := ps.ctx.Rand
	created := make([]*project.ClientProject, 0, count)
	for i := 0; i < count; i++ {
		p := &project.ClientProject{
			ID:                  ps.ctx.NewID(),
			ClientName:          clientNames[rng.IntN(len(clientNames))],
			Title:               projectTitles[rng.IntN(len(projectTitles))],
			RequiredSkillPoints: 100 + rng.IntN(400),
			DeadlineDays:        10 + rng.IntN(20),
			RewardMoney:         2000 + rng.IntN(18000),
			RewardReputation:    5 + rng.IntN(20),
			PenaltyReputation:   5 + rng.IntN(10),
			Status:              project.StatusAvailable,
		}
		ps.projects = append(ps.projects, p)
		created = append(created, p)
	}
	if count > 0 {
		ps.ctx.Logger.Debug("project offers generated", "count", count)
	}
	return created
}

// Assign staffs an Available project and fixes its daily output.
// outputMultiplier scales the team's summed productivity, e.g. for office facilities.
// Nothing changes unless every employee is valid.
func (ps *ProjectSystem) Assign(projectID string, employeeIDs []string, outputMultiplier float64) error {
	p, ok := ps.Project(projectID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if p.Status != project.StatusAvailable {
		return fmt.Errorf("%w: %s is %s", ErrProjectNotAvailable, p.Title, p.Status)
	}
	if len(employeeIDs) == 0 {
		return ErrNoStaff
	}

	team := make([]*employee.Employee, 0, len(employeeIDs))
	seen := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		e, ok := ps.workforce.Employee(id)
		if !ok || e.IsAssigned || seen[id] {
			return fmt.Errorf("%w: %s", ErrEmployeeUnavailable, id)
		}
		seen[id] = true
		team = append(team, e)
	}

	var output float64
	for _, e := range team {
		e.Assign(p.ID)
		output += e.EffectiveProductivity()
	}
	p.AssignedEmployeeIDs = append([]string(nil), employeeIDs...)
	p.DailyOutput = output * outputMultiplier
	p.Status = project.StatusActive

	ps.ctx.Logger.Info("project staffed", "project", p.Title, "client", p.ClientName,
		"team", len(team), "daily_output", p.DailyOutput)
	return nil
}

// Tick advances every Active project by one day and settles the finished ones.
func (ps *ProjectSystem) Tick() {
	for _, p := range ps.projects {
		if p.Status != project.StatusActive {
			continue
		}
		p.DaysElapsed++
		switch {
		case p.Progress() >= 1:
			ps.complete(p)
		case p.IsOverdue():
			ps.fail(p)
		}
	}
}

func (ps *ProjectSystem) complete(p *project.ClientProject) {
	p.Status = project.StatusCompleted
	if err := ps.ledger.AddRevenue(int64(p.RewardMoney), "Project: "+p.Title); err != nil {
		ps.ctx.Logger.Error("project revenue rejected", "project", p.ID, "error", err)
	}
	ps.ctx.Company.AdjustReputation(p.RewardReputation)
	ps.release(p, completedMotivationAdj)

	ps.ctx.Emit(events.EventTypeProjectCompleted, ProjectPayload{
		ProjectID: p.ID, Title: p.Title, Client: p.ClientName, Reward: p.RewardMoney,
	})
	ps.ctx.Message(fmt.Sprintf("Project '%s' completed! +$%d", p.Title, p.RewardMoney))
}

func (ps *ProjectSystem) fail(p *project.ClientProject) {
	p.Status = project.StatusFailed
	ps.ctx.Company.AdjustReputation(-p.PenaltyReputation)
	ps.release(p, failedMotivationAdj)

	ps.ctx.Emit(events.EventTypeProjectFailed, ProjectPayload{
		ProjectID: p.ID, Title: p.Title, Client: p.ClientName, Penalty: p.PenaltyReputation,
	})
	ps.ctx.Message(fmt.Sprintf("Project '%s' failed. Reputation -%d", p.Title, p.PenaltyReputation))
}

func (ps *ProjectSystem) release(p *project.ClientProject, motivation int) {
	for _, id := range p.AssignedEmployeeIDs {
		e, ok := ps.workforce.Employee(id)
		if !ok {
			continue
		}
		e.Release()
		if levels := e.GainExperience(projectExperience); levels > 0 {
			ps.ctx.Message(fmt.Sprintf("%s reached level %d", e.FullName(), e.Level))
		}
		e.AdjustMotivation(motivation)
	}
}

// Project looks up any project by ID.
func (ps *ProjectSystem) Project(id string) (*project.ClientProject, bool) {
	for _, p := range ps.projects {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Projects returns every project in creation order.
func (ps *ProjectSystem) Projects() []*project.ClientProject {
	return append([]*project.ClientProject(nil), ps.projects...)
}

// ByStatus filters projects in creation order.
func (ps *ProjectSystem) ByStatus(s project.Status) []*project.ClientProject {
	var out []*project.ClientProject
	for _, p := range ps.projects {
		if p.Status == s {
			out = append(out, p)
		}
	}
	return out
}

// Load replaces every project with restored ones.
func (ps *ProjectSystem) Load(list []*project.ClientProject) {
	ps.projects = append([]*project.ClientProject(nil), list...)
}
