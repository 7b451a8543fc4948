package employee

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand returns the same offset for every roll, so every stat starts at 20+n.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func TestNewRollsStatsInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		p := Personalities[i%len(Personalities)]
		e := New("E", "Ada", "Lovelace", RoleDeveloper, p, rng)
		for _, stat := range []int{e.Skill, e.Motivation, e.Teamwork, e.Creativity} {
			assert.GreaterOrEqual(t, stat, MinStat)
			assert.LessOrEqual(t, stat, MaxStat)
		}
		assert.Equal(t, 1, e.Level)
		assert.False(t, e.IsHired)
	}
}

func TestPersonalityAdjustments(t *testing.T) {
	base := fixedRand(30) // every roll = 50

	w := New("1", "A", "B", RoleDeveloper, PersonalityWorkaholic, base)
	assert.Equal(t, 65, w.Skill)
	assert.Equal(t, 70, w.Motivation)

	tp := New("2", "A", "B", RoleDeveloper, PersonalityTeamPlayer, base)
	assert.Equal(t, 75, tp.Teamwork)

	p := New("3", "A", "B", RoleDeveloper, PersonalityPerfectionist, base)
	assert.Equal(t, 70, p.Skill)
	assert.Equal(t, 40, p.Creativity)

	g := New("4", "A", "B", RoleDeveloper, PersonalityGossip, base)
	assert.Equal(t, 60, g.Teamwork)
	assert.Equal(t, 40, g.Motivation)
}

func TestLazyMotivationFloor(t *testing.T) {
	e := New("1", "A", "B", RoleIntern, PersonalityLazy, fixedRand(0)) // rolls = 20
	assert.Equal(t, 5, e.Motivation)
	assert.True(t, e.IsBurnedOut)
}

func TestSalaryFormula(t *testing.T) {
	e := New("1", "A", "B", RoleManager, PersonalityNormal, fixedRand(10)) // skill 30
	assert.Equal(t, 2500+30*10+100, e.MonthlySalary)

	intern := New("2", "A", "B", RoleIntern, PersonalityNormal, fixedRand(10))
	assert.Less(t, intern.MonthlySalary, e.MonthlySalary)
	assert.Equal(t, 1500, BaseSalary(Role("Janitor")))
}

func TestGainExperienceLoopsAcrossThresholds(t *testing.T) {
	e := New("1", "A", "B", RoleDeveloper, PersonalityNormal, fixedRand(10))
	skill, motivation := e.Skill, e.Motivation

	levels := e.GainExperience(250)

	// 100 consumed at level 1; level 2 needs 200 > 150 remaining.
	assert.Equal(t, 1, levels)
	assert.Equal(t, 2, e.Level)
	assert.Equal(t, 150, e.ExperiencePoints)
	assert.Equal(t, skill+5, e.Skill)
	assert.Equal(t, motivation+3, e.Motivation)
	assert.Equal(t, 2000+e.Skill*10+200, e.MonthlySalary)

	levels = e.GainExperience(350) // 500 total: 200 for L2, 300 for L3
	assert.Equal(t, 2, levels)
	assert.Equal(t, 4, e.Level)
	assert.Equal(t, 0, e.ExperiencePoints)
}

func TestLevelUpCapsStats(t *testing.T) {
	e := &Employee{Level: 1, Skill: 98, Motivation: 99, Role: RoleDeveloper}
	e.GainExperience(100)
	assert.Equal(t, 100, e.Skill)
	assert.Equal(t, 100, e.Motivation)
}

func TestAdjustMotivationClampsAndDerivesBurnout(t *testing.T) {
	e := &Employee{Motivation: 50}
	e.AdjustMotivation(-45)
	assert.Equal(t, 5, e.Motivation)
	assert.True(t, e.IsBurnedOut)

	e.AdjustMotivation(-100)
	assert.Equal(t, 0, e.Motivation)

	e.AdjustMotivation(11)
	assert.Equal(t, 11, e.Motivation)
	assert.False(t, e.IsBurnedOut, "motivation 11 is above the threshold")

	e.AdjustMotivation(500)
	assert.Equal(t, 100, e.Motivation)
}

func TestEffectiveProductivity(t *testing.T) {
	e := &Employee{Skill: 60, Motivation: 40, Personality: PersonalityWorkaholic}
	assert.Zero(t, e.EffectiveProductivity(), "unassigned employees produce nothing")

	e.Assign("P1")
	require.Equal(t, "P1", e.CurrentProjectID)
	assert.InDelta(t, (60+40*1.3)/2, e.EffectiveProductivity(), 1e-9)

	e.IsBurnedOut = true
	assert.Zero(t, e.EffectiveProductivity())

	e.Release()
	assert.False(t, e.IsAssigned)
	assert.Empty(t, e.CurrentProjectID)
}
