// Package marketclock gates the run on the US equity market open.
package marketclock

import (
	"fmt"
	"time"
)

const (
	marketOpenHour = 9
	marketOpenMin  = 30

	marketTimeZone = "America/New_York"
)

// Clock knows the exchange time zone and can hold the process until the
// open. Now and Sleep are injectable for tests.
type Clock struct {
	Now   func() time.Time
	Sleep func(time.Duration)

	loc *time.Location
}

// New loads the exchange time zone and returns a wall-clock backed Clock.
func New() (*Clock, error) {
	loc, err := time.LoadLocation(marketTimeZone)
	if err != nil {
		return nil, fmt.Errorf("load market time zone: %w", err)
	}
	return &Clock{Now: time.Now, Sleep: time.Sleep, loc: loc}, nil
}

// Location returns the exchange time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// WaitForOpen blocks until today's 09:30 ET. It announces exactly once,
// before any sleep, whether it is waiting or the market is already open.
// An instant exactly at the open proceeds without waiting.
func (c *Clock) WaitForOpen(announce func(string)) {
	now := c.Now().In(c.loc)
	target := time.Date(now.Year(), now.Month(), now.Day(),
		marketOpenHour, marketOpenMin, 0, 0, c.loc)

	if !now.Before(target) {
		announce("Market already open. Starting scans...")
		return
	}
	announce("Waiting for market open at 9:30 AM ET...")
	c.Sleep(target.Sub(now))
}
