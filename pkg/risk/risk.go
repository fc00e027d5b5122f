// Package risk sizes a position from account settings and the plan's stop
// distance.
package risk

import "math"

// Sizer converts an account size and a per-trade risk fraction into a share
// count for a given entry/stop pair.
type Sizer struct {
	AccountSize  float64
	RiskPerTrade float64
}

// Shares returns the largest whole share count whose loss at the stop stays
// within the per-trade risk budget. Zero when the settings or the stop
// distance are unusable.
func (s Sizer) Shares(entry, stop float64) int {
	riskPerShare := math.Abs(entry - stop)
	if riskPerShare <= 0 || s.AccountSize <= 0 || s.RiskPerTrade <= 0 {
		return 0
	}
	maxRiskAmount := s.AccountSize * s.RiskPerTrade
	return int(math.Floor(maxRiskAmount / riskPerShare))
}
