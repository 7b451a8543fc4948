package engine

import (
	"errors"
	"fmt"

	"github.com/MRamiBalles/PocketOffice/server/internal/domain/employee"
)

var (
	// ErrEmployeeNotFound is returned for unknown employee or candidate IDs.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeBusy is returned when firing someone still staffed on a project.
	ErrEmployeeBusy = errors.New("employee is assigned to a project")
)

var (
	firstNames = []string{"Alex", "Sam", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Jamie", "Avery", "Quinn"}
	lastNames  = []string{"Smith", "Garcia", "Chen", "Patel", "Kim", "Novak", "Silva", "Okafor", "Berg", "Rossi"}
)

// Workforce holds the hired roster, in hiring order, and the candidate pool.
type Workforce struct {
	ctx        *Context
	employees  []*employee.Employee
	candidates []*employee.Employee
}

// NewWorkforce creates an empty roster.
func NewWorkforce(ctx *Context) *Workforce {
	return &Workforce{ctx: ctx}
}

// Reset drops every employee and candidate.
func (w *Workforce) Reset() {
	w.employees = nil
	w.candidates = nil
}

// GenerateCandidates replaces the candidate pool with n fresh applicants.
func (w *Workforce) GenerateCandidates(n int) []*employee.Employee {
	w.candidates = make([]*employee.Employee, 0, n)
	for i := 0; i < n; i++ {
		rng := w.ctx.Rand
		e := employee.New(
			w.ctx.NewID(),
			firstNames[rng.IntN(len(firstNames))],
			lastNames[rng.IntN(len(lastNames))],
			employee.Roles[rng.IntN(len(employee.Roles))],
			employee.Personalities[rng.IntN(len(employee.Personalities))],
			rng,
		)
		w.candidates = append(w.candidates, e)
	}
	return w.candidates
}

// Candidates returns the current applicants.
func (w *Workforce) Candidates() []*employee.Employee {
	return append([]*employee.Employee(nil), w.candidates...)
}

// Hire moves a candidate onto the roster.
func (w *Workforce) Hire(candidateID string) (*employee.Employee, error) {
	for i, c := range w.candidates {
		if c.ID != candidateID {
			continue
		}
		w.candidates = append(w.candidates[:i], w.candidates[i+1:]...)
		c.IsHired = true
		w.employees = append(w.employees, c)
		w.ctx.Message(fmt.Sprintf("%s joined as %s", c.FullName(), c.Role))
		return c, nil
	}
	return nil, fmt.Errorf("%w: candidate %s", ErrEmployeeNotFound, candidateID)
}

// Fire removes an unassigned employee from the roster.
func (w *Workforce) Fire(employeeID string) error {
	for i, e := range w.employees {
		if e.ID != employeeID {
			continue
		}
		if e.IsAssigned {
			return fmt.Errorf("%w: %s on %s", ErrEmployeeBusy, e.FullName(), e.CurrentProjectID)
		}
		w.employees = append(w.employees[:i], w.employees[i+1:]...)
		e.IsHired = false
		w.ctx.Message(fmt.Sprintf("%s has left the company", e.FullName()))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
}

// Employee looks up a hired employee.
func (w *Workforce) Employee(id string) (*employee.Employee, bool) {
	for _, e := range w.employees {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Employees returns the roster in hiring order.
func (w *Workforce) Employees() []*employee.Employee {
	return append([]*employee.Employee(nil), w.employees...)
}

// HiredCount is the roster size.
func (w *Workforce) HiredCount() int {
	return len(w.employees)
}

// TotalMonthlySalary is the payroll charged at each month boundary.
func (w *Workforce) TotalMonthlySalary() int64 {
	var total int64
	for _, e := range w.employees {
		total += int64(e.MonthlySalary)
	}
	return total
}

// AverageMotivation is zero for an empty roster.
func (w *Workforce) AverageMotivation() float64 {
	if len(w.employees) == 0 {
		return 0
	}
	sum := 0
	for _, e := range w.employees {
		sum += e.Motivation
	}
	return float64(sum) / float64(len(w.employees))
}

// AdjustAllMotivation applies delta to every hired employee.
func (w *Workforce) AdjustAllMotivation(delta int) {
	for _, e := range w.employees {
		e.AdjustMotivation(delta)
	}
}

// Load replaces the roster with restored employees.
func (w *Workforce) Load(list []*employee.Employee) {
	w.employees = make([]*employee.Employee, 0, len(list))
	for _, e := range list {
		e.IsHired = true
		w.employees = append(w.employees, e)
	}
}
