package gapfill

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gapscan/pkg/marketdata"
)

// QuoteSettleDelay is how long the evaluator waits after opening a quote
// watch before reading it, so the snapshot has a chance to carry an opening
// print.
const QuoteSettleDelay = 5 * time.Second

// lookbackSessions covers the prior completed session plus today's bar when
// it already exists.
const lookbackSessions = 2

// Evaluator computes a gap-fill plan for one symbol from live market data.
type Evaluator struct {
	Provider marketdata.Provider
	Logger   *zap.Logger

	// Settle is the wait between watching and reading the quote. Sleep and
	// Now are injectable for tests.
	Settle time.Duration
	Sleep  func(time.Duration)
	Now    func() time.Time

	// Loc is the market time zone used to date the plan.
	Loc *time.Location
}

// NewEvaluator builds an evaluator with production timing defaults.
func NewEvaluator(provider marketdata.Provider, logger *zap.Logger, loc *time.Location) *Evaluator {
	return &Evaluator{
		Provider: provider,
		Logger:   logger,
		Settle:   QuoteSettleDelay,
		Sleep:    time.Sleep,
		Now:      time.Now,
		Loc:      loc,
	}
}

// Evaluate resolves the symbol, fetches the prior close and the price at the
// open, and derives a plan. A nil plan with a nil error means the symbol was
// skipped: fewer than two sessions of history, or a gap below threshold.
// All failures are *MarketDataError.
func (e *Evaluator) Evaluate(ctx context.Context, symbol string) (*TradePlan, error) {
	inst, err := e.Provider.Qualify(ctx, symbol)
	if err != nil {
		return nil, &MarketDataError{Symbol: symbol, Op: "qualify", Err: err}
	}

	bars, err := e.Provider.DailyBars(ctx, inst, lookbackSessions)
	if err != nil {
		return nil, &MarketDataError{Symbol: symbol, Op: "daily bars", Err: err}
	}
	if len(bars) < lookbackSessions {
		e.Logger.Info("insufficient history, skipping",
			zap.String("symbol", symbol), zap.Int("bars", len(bars)))
		return nil, nil
	}
	prevClose := bars[len(bars)-2].Close
	if prevClose <= 0 {
		return nil, &MarketDataError{Symbol: symbol, Op: "daily bars",
			Err: errors.New("previous close unavailable")}
	}

	if err := e.Provider.WatchQuote(ctx, inst); err != nil {
		return nil, &MarketDataError{Symbol: symbol, Op: "watch quote", Err: err}
	}
	defer e.Provider.ReleaseQuote(inst)

	e.Sleep(e.Settle)

	quote, err := e.Provider.Quote(ctx, inst)
	if err != nil {
		return nil, &MarketDataError{Symbol: symbol, Op: "quote", Err: err}
	}
	open, ok := quote.Price()
	if !ok {
		return nil, &MarketDataError{Symbol: symbol, Op: "quote",
			Err: errors.New("snapshot has neither last trade nor close")}
	}

	plan := BuildPlan(symbol, e.Now().In(e.Loc), prevClose, open)
	if plan == nil {
		e.Logger.Info("gap below threshold, skipping",
			zap.String("symbol", symbol),
			zap.Float64("prev_close", prevClose), zap.Float64("open", open))
	}
	return plan, nil
}
