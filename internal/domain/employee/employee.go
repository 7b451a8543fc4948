// Package employee defines the workforce entities: stats, personalities, leveling and motivation.
// This package is PURE and must NOT import any infrastructure packages.
package employee

import "fmt"

// Personality shapes starting stats and how motivation converts into output.
type Personality string

const (
	PersonalityNormal        Personality = "Normal"
	PersonalityWorkaholic    Personality = "Workaholic"
	PersonalityLazy          Personality = "Lazy"
	PersonalityGossip        Personality = "Gossip"
	PersonalityPerfectionist Personality = "Perfectionist"
	PersonalityTeamPlayer    Personality = "TeamPlayer"
	PersonalityLoneStar      Personality = "LoneStar"
)

// Personalities lists every personality in declaration order.
var Personalities = []Personality{
	PersonalityNormal, PersonalityWorkaholic, PersonalityLazy, PersonalityGossip,
	PersonalityPerfectionist, PersonalityTeamPlayer, PersonalityLoneStar,
}

// Role is the job an employee is hired for. It sets the salary base rate.
type Role string

const (
	RoleDeveloper    Role = "Developer"
	RoleDesigner     Role = "Designer"
	RoleMarketer     Role = "Marketer"
	RoleHRSpecialist Role = "HRSpecialist"
	RoleAccountant   Role = "Accountant"
	RoleManager      Role = "Manager"
	RoleIntern       Role = "Intern"
)

// Roles lists every role in declaration order.
var Roles = []Role{
	RoleDeveloper, RoleDesigner, RoleMarketer, RoleHRSpecialist,
	RoleAccountant, RoleManager, RoleIntern,
}

const (
	MinStat = 0
	MaxStat = 100

	// BurnoutThreshold is the motivation at or below which an employee stops producing.
	BurnoutThreshold = 10

	// statFloor applies where a personality penalty would otherwise push a stat to zero.
	statFloor = 5

	statRollMin   = 20
	statRollRange = 50 // rolls land in [20, 70)
)

var baseSalaries = map[Role]int{
	RoleIntern:       500,
	RoleDeveloper:    2000,
	RoleDesigner:     1800,
	RoleMarketer:     1700,
	RoleHRSpecialist: 1600,
	RoleAccountant:   1900,
	RoleManager:      2500,
}

// BaseSalary returns the monthly base rate for a role.
func BaseSalary(r Role) int {
	if v, ok := baseSalaries[r]; ok {
		return v
	}
	return 1500
}

// Multiplier is how strongly motivation counts toward productivity.
func (p Personality) Multiplier() float64 {
	switch p {
	case PersonalityWorkaholic:
		return 1.3
	case PersonalityLazy:
		return 0.6
	case PersonalityPerfectionist:
		return 1.1
	case PersonalityGossip:
		return 0.85
	default:
		return 1.0
	}
}

// Rand is the slice of a random source that stat rolls need.
type Rand interface {
	IntN(n int) int
}

// Employee is a member (or prospective member) of the workforce.
type Employee struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Personality Personality `json:"personality"`
	Role        Role        `json:"role"`

	// Core stats, 0-100
	Skill      int `json:"skill"`
	Motivation int `json:"motivation"`
	Teamwork   int `json:"teamwork"`
	Creativity int `json:"creativity"`

	// Career
	Level            int `json:"level"`
	ExperiencePoints int `json:"experience_points"`

	MonthlySalary int  `json:"monthly_salary"`
	IsHired       bool `json:"is_hired"`

	IsAssigned       bool   `json:"is_assigned"`
	CurrentProjectID string `json:"current_project_id,omitempty"`
	IsBurnedOut      bool   `json:"is_burned_out"`
}

// New creates an unhired employee with rolled stats, personality adjustments and a salary.
func New(id, firstName, lastName string, role Role, personality Personality, rng Rand) *Employee {
	e := &Employee{
		ID:          id,
		FirstName:   firstName,
		LastName:    lastName,
		Role:        role,
		Personality: personality,
		Level:       1,
	}

	e.Skill = statRollMin + rng.IntN(statRollRange)
	e.Motivation = statRollMin + rng.IntN(statRollRange)
	e.Teamwork = statRollMin + rng.IntN(statRollRange)
	e.Creativity = statRollMin + rng.IntN(statRollRange)

	e.applyPersonality()
	e.IsBurnedOut = e.Motivation <= BurnoutThreshold
	e.MonthlySalary = e.computeSalary()
	return e
}

func (e *Employee) applyPersonality() {
	switch e.Personality {
	case PersonalityWorkaholic:
		e.Skill = min(MaxStat, e.Skill+15)
		e.Motivation = min(MaxStat, e.Motivation+20)
	case PersonalityLazy:
		e.Motivation = max(statFloor, e.Motivation-20)
	case PersonalityTeamPlayer:
		e.Teamwork = min(MaxStat, e.Teamwork+25)
	case PersonalityPerfectionist:
		// slow but precise
		e.Skill = min(MaxStat, e.Skill+20)
		e.Creativity = max(statFloor, e.Creativity-10)
	case PersonalityGossip:
		e.Teamwork = min(MaxStat, e.Teamwork+10)
		e.Motivation = max(statFloor, e.Motivation-10)
	}
}

func (e *Employee) computeSalary() int {
	return BaseSalary(e.Role) + e.Skill*10 + e.Level*100
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ExperienceToNextLevel is the experience a level-up consumes at the current level.
func (e *Employee) ExperienceToNextLevel() int {
	return e.Level * 100
}

// EffectiveProductivity is the employee's daily contribution to an assigned project.
func (e *Employee) EffectiveProductivity() float64 {
	if !e.IsAssigned || e.IsBurnedOut {
		return 0
	}
	return (float64(e.Skill) + float64(e.Motivation)*e.Personality.Multiplier()) / 2
}

// GainExperience adds experience and applies every level-up it pays for.
// Returns the number of levels gained.
func (e *Employee) GainExperience(amount int) int {
	e.ExperiencePoints += amount
	levels := 0
	for e.ExperiencePoints >= e.ExperienceToNextLevel() {
		e.ExperiencePoints -= e.ExperienceToNextLevel()
		e.levelUp()
		levels++
	}
	return levels
}

func (e *Employee) levelUp() {
	e.Level++
	e.Skill = min(MaxStat, e.Skill+5)
	e.Motivation = min(MaxStat, e.Motivation+3)
	e.IsBurnedOut = e.Motivation <= BurnoutThreshold
	e.MonthlySalary = e.computeSalary()
}

// AdjustMotivation applies delta, clamps to [0, 100] and re-derives burnout.
func (e *Employee) AdjustMotivation(delta int) {
	e.Motivation = max(MinStat, min(MaxStat, e.Motivation+delta))
	e.IsBurnedOut = e.Motivation <= BurnoutThreshold
}

// Assign marks the employee as working on projectID.
func (e *Employee) Assign(projectID string) {
	e.IsAssigned = true
	e.CurrentProjectID = projectID
}

// Release clears the project assignment.
func (e *Employee) Release() {
	e.IsAssigned = false
	e.CurrentProjectID = ""
}

func (e *Employee) String() string {
	return fmt.Sprintf("%s | %s | Lv.%d | Skill:%d Motivation:%d | $%d/mo",
		e.FullName(), e.Role, e.Level, e.Skill, e.Motivation, e.MonthlySalary)
}
