package gapfill

import "fmt"

// MarketDataError reports that required market data for a symbol could not
// be obtained. It is the only error class the evaluator returns; the scan
// loop reports it and moves to the next symbol.
type MarketDataError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *MarketDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Symbol, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Symbol, e.Op)
}

func (e *MarketDataError) Unwrap() error {
	return e.Err
}
