package gapfill

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Notifier is the alert channel. Delivery failures are logged by the scanner
// and never stop the run.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// PlanRecorder appends one row per plan to the durable trade log.
type PlanRecorder interface {
	Append(plan TradePlan) error
}

// PlanSizer suggests a share count for a plan's entry/stop distance.
type PlanSizer interface {
	Shares(entry, stop float64) int
}

// RunReport collects per-symbol outcomes for the run summary artifact.
type RunReport interface {
	Planned(plan TradePlan)
	Skipped(symbol string)
	Failed(symbol string, err error)
}

// Scanner walks the watchlist in order, evaluating each symbol and emitting
// the plan alert and log row for the ones that qualify. A failed symbol
// produces one error alert and the scan continues.
type Scanner struct {
	Evaluator *Evaluator
	Notifier  Notifier
	Log       PlanRecorder
	Sizer     PlanSizer // optional
	Report    RunReport // optional
	Logger    *zap.Logger
}

// Run evaluates every watchlist symbol sequentially.
func (s *Scanner) Run(ctx context.Context, watchlist []string) {
	for _, symbol := range watchlist {
		plan, err := s.Evaluator.Evaluate(ctx, symbol)
		if err != nil {
			s.Logger.Error("evaluation failed",
				zap.String("symbol", symbol), zap.Error(err))
			s.notify(ctx, fmt.Sprintf("%s error: %s", symbol, err))
			if s.Report != nil {
				s.Report.Failed(symbol, err)
			}
			continue
		}
		if plan == nil {
			if s.Report != nil {
				s.Report.Skipped(symbol)
			}
			continue
		}
		s.emit(ctx, *plan)
	}
}

func (s *Scanner) emit(ctx context.Context, plan TradePlan) {
	s.Logger.Info("gap qualifies",
		zap.String("symbol", plan.Symbol),
		zap.String("direction", string(plan.Direction)),
		zap.Float64("gap_pct", plan.GapPct),
		zap.Float64("entry", plan.Entry),
		zap.Float64("target", plan.Target),
		zap.Float64("stop", plan.Stop))

	msg := plan.Alert()
	if s.Sizer != nil {
		if shares := s.Sizer.Shares(plan.Entry, plan.Stop); shares > 0 {
			msg += fmt.Sprintf("\nShares: %d", shares)
		}
	}
	s.notify(ctx, msg)

	if err := s.Log.Append(plan); err != nil {
		s.Logger.Error("trade log append failed",
			zap.String("symbol", plan.Symbol), zap.Error(err))
		s.notify(ctx, fmt.Sprintf("%s error: %s", plan.Symbol, err))
	}
	if s.Report != nil {
		s.Report.Planned(plan)
	}
}

func (s *Scanner) notify(ctx context.Context, text string) {
	if err := s.Notifier.Send(ctx, text); err != nil {
		s.Logger.Error("notification failed", zap.Error(err))
	}
}
