package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
	"github.com/MRamiBalles/PocketOffice/server/internal/events"
	"github.com/MRamiBalles/PocketOffice/server/internal/platform/logger"
)

func TestSimulateIsDeterministic(t *testing.T) {
	run := func() simulationSummary {
		eng := engine.New(engine.DefaultConfig(), newRand(99), logger.Discard())
		return simulate(eng, 120, 3)
	}
	a, b := run(), run()

	assert.Equal(t, a.State.Cash, b.State.Cash)
	assert.Equal(t, a.State.Company, b.State.Company)
	assert.Equal(t, a.Completed, b.Completed)
	assert.Equal(t, a.Counts, b.Counts)

	assert.Equal(t, 5, a.State.Company.Month)
	assert.Equal(t, 1, a.State.Company.Day)
	assert.Equal(t, 3, a.State.Employees)
	assert.Equal(t, 120, a.Counts[events.EventTypeDayPassed])
	assert.Equal(t, 4, a.Counts[events.EventTypeMonthPassed])
}

func TestSimulateSummaryPrints(t *testing.T) {
	eng := engine.New(engine.DefaultConfig(), newRand(5), logger.Discard())
	s := simulate(eng, 30, 2)

	var buf bytes.Buffer
	s.print(&buf)
	assert.Contains(t, buf.String(), "30 simulated days")
	assert.Contains(t, buf.String(), "Pocket Office (Startup)")
}

func TestPrintFrame(t *testing.T) {
	var buf bytes.Buffer

	printFrame(&buf, []byte(`{"seq":4,"type":"MONTH_PASSED","payload":{"value":2},"year":2024,"month":2,"day":1}`), false)
	printFrame(&buf, []byte(`{"seq":5,"type":"DAY_PASSED","payload":{"value":2},"year":2024,"month":2,"day":2}`), false)
	printFrame(&buf, []byte(`{"type":"COMMAND_RESULT","command":"SET_SPEED","result":2}`), false)
	printFrame(&buf, []byte(`{"type":"COMMAND_RESULT","command":"RESOLVE_EVENT","error":"event not found"}`), false)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `[2024-02-01] #4 MONTH_PASSED {"value":2}`)
	assert.NotContains(t, out, "DAY_PASSED")
	assert.Contains(t, out, "> SET_SPEED ok: 2")
	assert.Contains(t, out, "! RESOLVE_EVENT failed: event not found")
}
