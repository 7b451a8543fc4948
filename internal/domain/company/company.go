// Package company defines the company-level state owned by the simulation clock.
// This package is PURE and must NOT import any infrastructure packages.
package company

import "fmt"

// Tier is the company's size classification. Ordered; upgrades only.
type Tier int

const (
	TierStartup    Tier = iota // 1-5 employees, 1 floor
	TierSME                    // 6-20 employees, 2-3 floors
	TierEnterprise             // 21-50 employees, 4-6 floors
	TierGlobalCorp             // 51+ employees, 7+ floors
)

const (
	MinReputation = 0
	MaxReputation = 1000
)

var tierNames = [...]string{"Startup", "SME", "Enterprise", "GlobalCorp"}

func (t Tier) String() string {
	if t < TierStartup || t > TierGlobalCorp {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText keeps tiers readable in snapshots and API payloads.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *Tier) UnmarshalText(b []byte) error {
	for i, name := range tierNames {
		if name == string(b) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", string(b))
}

// MaxFloors returns how many office floors a company of this tier may unlock.
func (t Tier) MaxFloors() int {
	switch t {
	case TierSME:
		return 3
	case TierEnterprise:
		return 6
	case TierGlobalCorp:
		return 10
	default:
		return 1
	}
}

// Threshold is the minimum a company must meet to qualify for a tier.
type Threshold struct {
	Tier        Tier
	Employees   int
	TotalEarned int64
	Reputation  int
}

// Thresholds are ordered from the highest tier down; the first satisfied one wins.
var Thresholds = []Threshold{
	{Tier: TierGlobalCorp, Employees: 51, TotalEarned: 1_000_000, Reputation: 500},
	{Tier: TierEnterprise, Employees: 21, TotalEarned: 200_000, Reputation: 200},
	{Tier: TierSME, Employees: 6, TotalEarned: 30_000, Reputation: 50},
}

// QualifyingTier returns the highest tier the given figures satisfy, or Startup.
func QualifyingTier(employees int, totalEarned int64, reputation int) Tier {
	for _, th := range Thresholds {
		if employees >= th.Employees && totalEarned >= th.TotalEarned && reputation >= th.Reputation {
			return th.Tier
		}
	}
	return TierStartup
}

// State is the company record: identity, standing and the simulated calendar.
type State struct {
	Name                string   `json:"name"`
	Reputation          int      `json:"reputation"`
	Tier                Tier     `json:"tier"`
	Year                int      `json:"year"`
	Month               int      `json:"month"`
	Day                 int      `json:"day"`
	UnlockedDepartments []string `json:"unlocked_departments"`
}

// New creates the opening state of a fresh company.
func New(name string) *State {
	return &State{
		Name:                name,
		Reputation:          10,
		Tier:                TierStartup,
		Year:                2024,
		Month:               1,
		Day:                 1,
		UnlockedDepartments: []string{"General"},
	}
}

// AdjustReputation applies delta and clamps the result into [0, 1000].
func (s *State) AdjustReputation(delta int) int {
	s.Reputation = ClampReputation(s.Reputation + delta)
	return s.Reputation
}

// UpgradeTier moves to t only if it ranks above the current tier.
func (s *State) UpgradeTier(t Tier) bool {
	if t <= s.Tier {
		return false
	}
	s.Tier = t
	return true
}

// DateString renders the calendar the way the status bar shows it.
func (s *State) DateString() string {
	return fmt.Sprintf("Month %d, Year %d", s.Month, s.Year)
}

// ClampReputation bounds a reputation value.
func ClampReputation(v int) int {
	if v < MinReputation {
		return MinReputation
	}
	if v > MaxReputation {
		return MaxReputation
	}
	return v
}
