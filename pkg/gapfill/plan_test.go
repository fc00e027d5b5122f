package gapfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestBuildPlanGapUpShort(t *testing.T) {
	plan := BuildPlan("RIVN", planDate, 100.00, 103.00)
	require.NotNil(t, plan)

	assert.Equal(t, Short, plan.Direction)
	assert.Equal(t, 103.00, plan.Entry)
	assert.Equal(t, 100.00, plan.Target)
	assert.InDelta(t, 103.515, plan.Stop, 1e-9)
	assert.Equal(t, 3.00, plan.GapPct)
	assert.Equal(t, planDate, plan.Date)
}

func TestBuildPlanGapDownLong(t *testing.T) {
	plan := BuildPlan("LYFT", planDate, 50.00, 48.00)
	require.NotNil(t, plan)

	assert.Equal(t, Long, plan.Direction)
	assert.Equal(t, 48.00, plan.Entry)
	assert.Equal(t, 50.00, plan.Target)
	assert.InDelta(t, 47.76, plan.Stop, 1e-9)
	assert.Equal(t, -4.00, plan.GapPct)
}

func TestBuildPlanThresholdBoundary(t *testing.T) {
	// Exactly 1% qualifies, just under does not.
	assert.NotNil(t, BuildPlan("NET", planDate, 100.00, 101.00))
	assert.NotNil(t, BuildPlan("NET", planDate, 100.00, 99.00))
	assert.Nil(t, BuildPlan("NET", planDate, 100.00, 100.99))
	assert.Nil(t, BuildPlan("NET", planDate, 100.00, 99.01))
	assert.Nil(t, BuildPlan("NET", planDate, 100.00, 100.00))
}

func TestBuildPlanGapScaleInvariant(t *testing.T) {
	small := BuildPlan("WULF", planDate, 4.00, 4.20)
	big := BuildPlan("WULF", planDate, 400.00, 420.00)
	require.NotNil(t, small)
	require.NotNil(t, big)
	assert.Equal(t, small.GapPct, big.GapPct)
	assert.Equal(t, small.Direction, big.Direction)
}

func TestBuildPlanGapPctRounding(t *testing.T) {
	// 100 -> 101.234 is a 1.234% gap, reported as 1.23.
	plan := BuildPlan("OKTA", planDate, 100.00, 101.234)
	require.NotNil(t, plan)
	assert.Equal(t, 1.23, plan.GapPct)
}

func TestTradePlanAlert(t *testing.T) {
	plan := BuildPlan("RIVN", planDate, 100.00, 103.00)
	require.NotNil(t, plan)

	assert.Equal(t,
		"RIVN GAP SHORT\nGap: 3.00%\nEntry: 103.00\nTarget: 100.00\nStop: 103.52",
		plan.Alert())
}
