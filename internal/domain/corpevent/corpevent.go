// Package corpevent holds the corporate event templates that perturb a running company.
// Templates are static configuration, never per-run state.
package corpevent

// OutcomeType selects which part of the company a choice affects.
type OutcomeType string

const (
	OutcomeMoneyGain      OutcomeType = "MoneyGain"
	OutcomeMoneyLoss      OutcomeType = "MoneyLoss"
	OutcomeReputationGain OutcomeType = "ReputationGain"
	OutcomeReputationLoss OutcomeType = "ReputationLoss"
	OutcomeMotivationGain OutcomeType = "MotivationGain"
	OutcomeMotivationLoss OutcomeType = "MotivationLoss"
)

// Choice is one response the player can pick.
type Choice struct {
	Label        string      `json:"label"`
	ResultText   string      `json:"result_text"`
	OutcomeType  OutcomeType `json:"outcome_type"`
	OutcomeValue int         `json:"outcome_value"`
}

// Template describes an event and how often it fires.
type Template struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IconKey     string   `json:"icon_key"`
	Choices     []Choice `json:"choices"`

	// TriggerChance is the probability per month, 0.0-1.0.
	TriggerChance float64 `json:"trigger_chance"`
}

// DailyChance spreads the monthly probability over a 30-day month.
func (t Template) DailyChance() float64 {
	return t.TriggerChance / 30
}

// DefaultPool returns the stock templates in priority order.
func DefaultPool() []Template {
	return []Template{
		{
			Key:           "investor_visit",
			Title:         "Investor Visit",
			Description:   "A potential investor wants to tour your office. Impressions matter!",
			IconKey:       "icon_investor",
			TriggerChance: 0.15,
			Choices: []Choice{
				{Label: "Clean Up & Impress", ResultText: "Investor loved it!", OutcomeType: OutcomeReputationGain, OutcomeValue: 20},
				{Label: "Business as Usual", ResultText: "Investor was unimpressed.", OutcomeType: OutcomeReputationLoss, OutcomeValue: 5},
			},
		},
		{
			Key:           "employee_burnout",
			Title:         "Employee Burnout",
			Description:   "Half your team is showing signs of burnout. What do you do?",
			IconKey:       "icon_burnout",
			TriggerChance: 0.20,
			Choices: []Choice{
				{Label: "Paid Team Retreat", ResultText: "Team morale soared!", OutcomeType: OutcomeMoneyLoss, OutcomeValue: 3000},
				{Label: "Ignore It", ResultText: "Two employees quit.", OutcomeType: OutcomeMotivationLoss, OutcomeValue: 30},
			},
		},
		{
			Key:           "viral_post",
			Title:         "Viral Social Media Post",
			Description:   "A staff member posted something about the company and it's going viral!",
			IconKey:       "icon_viral",
			TriggerChance: 0.10,
			Choices: []Choice{
				{Label: "Embrace the Moment", ResultText: "Brand awareness exploded!", OutcomeType: OutcomeReputationGain, OutcomeValue: 30},
				{Label: "Issue Damage Control", ResultText: "Contained, but costly.", OutcomeType: OutcomeMoneyLoss, OutcomeValue: 1000},
			},
		},
		{
			Key:           "birthday_party",
			Title:         "Office Birthday Party",
			Description:   "It's someone's birthday! Celebrate or focus on deadlines?",
			IconKey:       "icon_party",
			TriggerChance: 0.25,
			Choices: []Choice{
				{Label: "Throw a Party!", ResultText: "Everyone's happy!", OutcomeType: OutcomeMotivationGain, OutcomeValue: 15},
				{Label: "Politely Decline", ResultText: "Morale dipped a little.", OutcomeType: OutcomeMotivationLoss, OutcomeValue: 5},
			},
		},
		{
			Key:           "press_coverage",
			Title:         "Press Coverage",
			Description:   "A journalist wants to feature your company in a tech magazine.",
			IconKey:       "icon_press",
			TriggerChance: 0.12,
			Choices: []Choice{
				{Label: "Accept Interview", ResultText: "Great exposure!", OutcomeType: OutcomeReputationGain, OutcomeValue: 25},
				{Label: "Decline for Now", ResultText: "Missed opportunity.", OutcomeType: OutcomeReputationLoss, OutcomeValue: 3},
			},
		},
		{
			Key:           "government_grant",
			Title:         "Government Grant",
			Description:   "Your company qualifies for a small business development grant!",
			IconKey:       "icon_money",
			TriggerChance: 0.08,
			Choices: []Choice{
				{Label: "Apply!", ResultText: "Grant approved! $5,000 received.", OutcomeType: OutcomeMoneyGain, OutcomeValue: 5000},
			},
		},
	}
}
