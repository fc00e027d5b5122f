// Package marketdata defines the market-data provider the scanner depends on
// and its Alpaca-backed implementation. Components receive the Provider
// interface so tests can substitute a double.
package marketdata

import (
	"context"
	"time"
)

// Instrument is a qualified, tradable security.
type Instrument struct {
	Symbol   string
	Exchange string
}

// Bar is one completed regular-hours daily bar.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    uint64
}

// Quote is a live/delayed snapshot. Last is the most recent trade print,
// Close the current session's (or prior session's) close. Either may be
// absent.
type Quote struct {
	Last  *float64
	Close *float64
}

// Price returns the last trade price when present, else the close. The
// second return is false when neither is available.
func (q Quote) Price() (float64, bool) {
	if q.Last != nil {
		return *q.Last, true
	}
	if q.Close != nil {
		return *q.Close, true
	}
	return 0, false
}

// Provider is the market-data collaborator. Quote acquisition is scoped:
// WatchQuote before Quote, ReleaseQuote when done. ReleaseQuote is
// idempotent and must be called even when evaluation fails after the watch.
type Provider interface {
	// Qualify resolves a ticker to a tradable instrument.
	Qualify(ctx context.Context, symbol string) (Instrument, error)

	// DailyBars returns up to sessions most recent daily bars, oldest first.
	DailyBars(ctx context.Context, inst Instrument, sessions int) ([]Bar, error)

	// WatchQuote starts live-quote acquisition for the instrument.
	WatchQuote(ctx context.Context, inst Instrument) error

	// Quote reads the current snapshot for a watched instrument.
	Quote(ctx context.Context, inst Instrument) (Quote, error)

	// ReleaseQuote ends live-quote acquisition for the instrument.
	ReleaseQuote(inst Instrument)

	// Close releases the provider connection at the end of a run.
	Close() error
}
