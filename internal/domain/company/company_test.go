package company

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifyingTier(t *testing.T) {
	cases := []struct {
		name      string
		employees int
		earned    int64
		rep       int
		want      Tier
	}{
		{"fresh startup", 2, 10_000, 10, TierStartup},
		{"sme", 6, 30_000, 50, TierSME},
		{"enterprise needs all three", 21, 200_000, 199, TierSME},
		{"enterprise", 30, 250_000, 300, TierEnterprise},
		{"global", 51, 1_000_000, 500, TierGlobalCorp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, QualifyingTier(tc.employees, tc.earned, tc.rep))
		})
	}
}

func TestUpgradeTierNeverRegresses(t *testing.T) {
	s := New("Acme")
	require.True(t, s.UpgradeTier(TierEnterprise))
	assert.False(t, s.UpgradeTier(TierSME))
	assert.False(t, s.UpgradeTier(TierEnterprise))
	assert.Equal(t, TierEnterprise, s.Tier)
}

func TestAdjustReputationClamps(t *testing.T) {
	s := New("Acme")
	assert.Equal(t, 0, s.AdjustReputation(-50))
	assert.Equal(t, 1000, s.AdjustReputation(5000))
}

func TestTierJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(struct {
		T Tier `json:"t"`
	}{TierSME})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"SME"}`, string(b))

	var out struct {
		T Tier `json:"t"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, TierSME, out.T)
	assert.Error(t, json.Unmarshal([]byte(`{"t":"Mega"}`), &out))
}

func TestNewCompanyDefaults(t *testing.T) {
	s := New("Pocket Office")
	assert.Equal(t, 10, s.Reputation)
	assert.Equal(t, TierStartup, s.Tier)
	assert.Equal(t, "Month 1, Year 2024", s.DateString())
	assert.Equal(t, 1, s.Tier.MaxFloors())
}
