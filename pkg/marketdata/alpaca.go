package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	alpacadata "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"
)

// barLookbackDays is how far back the daily-bar request reaches. Wide enough
// to cover weekends and holiday closures around the two sessions we need.
const barLookbackDays = 10

// Alpaca serves market data from the Alpaca trading and data APIs.
type Alpaca struct {
	trading *alpaca.Client
	data    *alpacadata.Client
	logger  *zap.Logger

	mu      sync.Mutex
	watched map[string]bool
}

// NewAlpaca builds an Alpaca-backed provider. baseURL selects the trading
// environment (paper or live); an empty string uses the SDK default.
func NewAlpaca(apiKey, apiSecret, baseURL string, logger *zap.Logger) *Alpaca {
	return &Alpaca{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		data: alpacadata.NewClient(alpacadata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		logger:  logger,
		watched: make(map[string]bool),
	}
}

// Qualify resolves the symbol via the assets endpoint and ensures it is
// tradable.
func (a *Alpaca) Qualify(ctx context.Context, symbol string) (Instrument, error) {
	asset, err := a.trading.GetAsset(symbol)
	if err != nil {
		return Instrument{}, fmt.Errorf("failed to get asset %s: %w", symbol, err)
	}
	if !asset.Tradable {
		return Instrument{}, fmt.Errorf("%s is not tradable", symbol)
	}
	return Instrument{Symbol: asset.Symbol, Exchange: asset.Exchange}, nil
}

// DailyBars fetches recent regular-hours daily bars and returns the most
// recent sessions of them, oldest first.
func (a *Alpaca) DailyBars(ctx context.Context, inst Instrument, sessions int) ([]Bar, error) {
	start := time.Now().AddDate(0, 0, -barLookbackDays)
	raw, err := a.data.GetBars(inst.Symbol, alpacadata.GetBarsRequest{
		TimeFrame: alpacadata.OneDay,
		Start:     start,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", inst.Symbol, err)
	}

	bars := make([]Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, Bar{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	if len(bars) > sessions {
		bars = bars[len(bars)-sessions:]
	}
	return bars, nil
}

// WatchQuote marks the instrument as watched. Quote data is served from the
// snapshot endpoint, so no upstream subscription is opened, but the scoped
// watch/release contract is still enforced.
func (a *Alpaca) WatchQuote(ctx context.Context, inst Instrument) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watched[inst.Symbol] = true
	return nil
}

// Quote reads the latest snapshot for a watched instrument.
func (a *Alpaca) Quote(ctx context.Context, inst Instrument) (Quote, error) {
	a.mu.Lock()
	ok := a.watched[inst.Symbol]
	a.mu.Unlock()
	if !ok {
		return Quote{}, fmt.Errorf("quote for %s requested without a watch", inst.Symbol)
	}

	snap, err := a.data.GetSnapshot(inst.Symbol, alpacadata.GetSnapshotRequest{})
	if err != nil {
		return Quote{}, fmt.Errorf("failed to get snapshot for %s: %w", inst.Symbol, err)
	}
	if snap == nil {
		return Quote{}, nil
	}
	return snapshotQuote(snap), nil
}

// ReleaseQuote drops the watch. Safe to call more than once.
func (a *Alpaca) ReleaseQuote(inst Instrument) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.watched, inst.Symbol)
}

// Close releases the provider. Outstanding watches are dropped; the REST
// clients hold no persistent connection.
func (a *Alpaca) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.watched); n > 0 {
		a.logger.Warn("closing provider with active quote watches", zap.Int("count", n))
	}
	a.watched = make(map[string]bool)
	return nil
}

func snapshotQuote(snap *alpacadata.Snapshot) Quote {
	var q Quote
	if snap.LatestTrade != nil && snap.LatestTrade.Price > 0 {
		price := snap.LatestTrade.Price
		q.Last = &price
	}
	if snap.DailyBar != nil && snap.DailyBar.Close > 0 {
		c := snap.DailyBar.Close
		q.Close = &c
	} else if snap.PrevDailyBar != nil && snap.PrevDailyBar.Close > 0 {
		c := snap.PrevDailyBar.Close
		q.Close = &c
	}
	return q
}
