// Package gapfill turns an overnight gap between the prior session close and
// the current open into a mean-reversion trade plan, and drives the
// per-symbol scan over a watchlist.
package gapfill

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the trade bias of a plan. A gap up is faded short, a gap down
// is bought long.
type Direction string

const (
	Short Direction = "SHORT"
	Long  Direction = "LONG"
)

const (
	// GapThreshold is the minimum absolute gap fraction that produces a
	// plan. Smaller gaps are noise and are ignored.
	GapThreshold = 0.01

	// stopFraction sets the stop 0.5% against the trade direction.
	stopFraction = 0.005
)

// TradePlan is the unit of work handed to the alert and log sinks. It is
// built once per qualifying symbol per run and never mutated.
type TradePlan struct {
	Symbol    string
	Date      time.Time
	Entry     float64
	Target    float64
	Stop      float64
	Direction Direction
	GapPct    float64
}

// BuildPlan derives a trade plan from the prior close and the current open.
// Returns nil when the gap is below threshold. prevClose must be positive.
func BuildPlan(symbol string, date time.Time, prevClose, open float64) *TradePlan {
	gap := (open - prevClose) / prevClose
	if math.Abs(gap) < GapThreshold {
		return nil
	}

	dir := Long
	sign := 1.0
	if gap > 0 {
		dir = Short
		sign = -1.0
	}

	entry := open
	stop := entry + sign*-1*entry*stopFraction

	return &TradePlan{
		Symbol:    symbol,
		Date:      date,
		Entry:     entry,
		Target:    prevClose,
		Stop:      stop,
		Direction: dir,
		GapPct:    roundTwo(gap * 100),
	}
}

// Alert renders the notification text for the plan.
func (p *TradePlan) Alert() string {
	return fmt.Sprintf("%s GAP %s\nGap: %s%%\nEntry: %s\nTarget: %s\nStop: %s",
		p.Symbol, p.Direction,
		decimal.NewFromFloat(p.GapPct).StringFixed(2),
		Money(p.Entry), Money(p.Target), Money(p.Stop))
}

// Money formats a price to two decimal places.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func roundTwo(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
