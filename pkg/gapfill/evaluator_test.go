package gapfill

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gapscan/pkg/marketdata"
)

type symbolData struct {
	qualifyErr error
	bars       []marketdata.Bar
	barsErr    error
	quote      marketdata.Quote
	quoteErr   error
	watchErr   error
}

// fakeProvider scripts per-symbol market data and records the quote
// watch/release lifecycle.
type fakeProvider struct {
	symbols  map[string]symbolData
	watched  map[string]int
	released map[string]int
	closed   bool
}

func newFakeProvider(symbols map[string]symbolData) *fakeProvider {
	return &fakeProvider{
		symbols:  symbols,
		watched:  make(map[string]int),
		released: make(map[string]int),
	}
}

func (f *fakeProvider) Qualify(ctx context.Context, symbol string) (marketdata.Instrument, error) {
	d := f.symbols[symbol]
	if d.qualifyErr != nil {
		return marketdata.Instrument{}, d.qualifyErr
	}
	return marketdata.Instrument{Symbol: symbol, Exchange: "NASDAQ"}, nil
}

func (f *fakeProvider) DailyBars(ctx context.Context, inst marketdata.Instrument, sessions int) ([]marketdata.Bar, error) {
	d := f.symbols[inst.Symbol]
	return d.bars, d.barsErr
}

func (f *fakeProvider) WatchQuote(ctx context.Context, inst marketdata.Instrument) error {
	d := f.symbols[inst.Symbol]
	if d.watchErr != nil {
		return d.watchErr
	}
	f.watched[inst.Symbol]++
	return nil
}

func (f *fakeProvider) Quote(ctx context.Context, inst marketdata.Instrument) (marketdata.Quote, error) {
	d := f.symbols[inst.Symbol]
	return d.quote, d.quoteErr
}

func (f *fakeProvider) ReleaseQuote(inst marketdata.Instrument) {
	f.released[inst.Symbol]++
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func ptr(v float64) *float64 { return &v }

func bars(closes ...float64) []marketdata.Bar {
	out := make([]marketdata.Bar, len(closes))
	for i, c := range closes {
		out[i] = marketdata.Bar{Close: c}
	}
	return out
}

func testEvaluator(p marketdata.Provider) (*Evaluator, *time.Duration) {
	var slept time.Duration
	e := NewEvaluator(p, zap.NewNop(), time.UTC)
	e.Sleep = func(d time.Duration) { slept += d }
	e.Now = func() time.Time { return time.Date(2026, 9, 1, 9, 35, 0, 0, time.UTC) }
	return e, &slept
}

func TestEvaluateQualifyingGap(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"RIVN": {
			bars:  bars(100.00, 102.00),
			quote: marketdata.Quote{Last: ptr(103.00)},
		},
	})
	e, slept := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "RIVN")
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Equal(t, Short, plan.Direction)
	assert.Equal(t, 103.00, plan.Entry)
	// Previous close is the second-to-last bar, not the most recent one.
	assert.Equal(t, 100.00, plan.Target)
	assert.Equal(t, 3.00, plan.GapPct)
	assert.Equal(t, "2026-09-01", plan.Date.Format("2006-01-02"))

	assert.Equal(t, QuoteSettleDelay, *slept)
	assert.Equal(t, 1, p.watched["RIVN"])
	assert.Equal(t, 1, p.released["RIVN"])
}

func TestEvaluateQuoteFallsBackToClose(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"LYFT": {
			bars:  bars(50.00, 49.50),
			quote: marketdata.Quote{Close: ptr(48.00)},
		},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "LYFT")
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, Long, plan.Direction)
	assert.Equal(t, 48.00, plan.Entry)
}

func TestEvaluateInsufficientHistory(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"WULF": {bars: bars(5.00)},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "WULF")
	assert.NoError(t, err)
	assert.Nil(t, plan)
	// Never got as far as the quote.
	assert.Zero(t, p.watched["WULF"])
}

func TestEvaluateSubThresholdGap(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"NET": {
			bars:  bars(100.00, 100.20),
			quote: marketdata.Quote{Last: ptr(100.50)},
		},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "NET")
	assert.NoError(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, 1, p.released["NET"])
}

func TestEvaluateQualifyFailure(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"BOGUS": {qualifyErr: errors.New("asset not found")},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "BOGUS")
	assert.Nil(t, plan)

	var mdErr *MarketDataError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, "BOGUS", mdErr.Symbol)
	assert.Equal(t, "qualify", mdErr.Op)
}

func TestEvaluateMissingPrices(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"OKTA": {
			bars:  bars(90.00, 91.00),
			quote: marketdata.Quote{},
		},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "OKTA")
	assert.Nil(t, plan)

	var mdErr *MarketDataError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, "quote", mdErr.Op)
	// The watch is released even though evaluation failed after it.
	assert.Equal(t, 1, p.released["OKTA"])
}

func TestEvaluateQuoteErrorReleasesWatch(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"OKTA": {
			bars:     bars(90.00, 91.00),
			quoteErr: errors.New("snapshot unavailable"),
		},
	})
	e, _ := testEvaluator(p)

	_, err := e.Evaluate(context.Background(), "OKTA")
	var mdErr *MarketDataError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, 1, p.released["OKTA"])
}

func TestEvaluateBarsFailure(t *testing.T) {
	p := newFakeProvider(map[string]symbolData{
		"RIVN": {barsErr: errors.New("data outage")},
	})
	e, _ := testEvaluator(p)

	plan, err := e.Evaluate(context.Background(), "RIVN")
	assert.Nil(t, plan)

	var mdErr *MarketDataError
	require.ErrorAs(t, err, &mdErr)
	assert.Equal(t, "daily bars", mdErr.Op)
}
