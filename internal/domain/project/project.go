// Package project defines client projects and their lifecycle states.
// This package is PURE and must NOT import any infrastructure packages.
package project

// Status is a project's lifecycle state. Completed and Failed are terminal.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ClientProject is a contract the company can staff for money and reputation.
type ClientProject struct {
	ID                  string   `json:"id"`
	ClientName          string   `json:"client_name"`
	Title               string   `json:"title"`
	RequiredSkillPoints int      `json:"required_skill_points"`
	DeadlineDays        int      `json:"deadline_days"`
	DaysElapsed         int      `json:"days_elapsed"`
	RewardMoney         int      `json:"reward_money"`
	RewardReputation    int      `json:"reward_reputation"`
	PenaltyReputation   int      `json:"penalty_reputation"`
	Status              Status   `json:"status"`
	AssignedEmployeeIDs []string `json:"assigned_employee_ids"`

	// DailyOutput is fixed when staff is assigned and never recomputed.
	DailyOutput float64 `json:"daily_output"`
}

// Progress is the completed fraction in [0, 1].
func (p *ClientProject) Progress() float64 {
	if p.RequiredSkillPoints <= 0 {
		return 0
	}
	v := float64(p.DaysElapsed) * p.DailyOutput / float64(p.RequiredSkillPoints)
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// IsOverdue reports whether an active project has used up its deadline.
func (p *ClientProject) IsOverdue() bool {
	return p.Status == StatusActive && p.DaysElapsed >= p.DeadlineDays
}

// HasAssignee reports whether employeeID is staffed on the project.
func (p *ClientProject) HasAssignee(employeeID string) bool {
	for _, id := range p.AssignedEmployeeIDs {
		if id == employeeID {
			return true
		}
	}
	return false
}
