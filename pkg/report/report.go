// Package report accumulates per-symbol scan outcomes and writes the run
// summary artifact.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"

	"gapscan/pkg/gapfill"
)

// Outcome is one symbol's result within a run.
type Outcome struct {
	Symbol    string  `json:"symbol"`
	Status    string  `json:"status"`
	Direction string  `json:"direction,omitempty"`
	GapPct    float64 `json:"gap_pct,omitempty"`
	Entry     float64 `json:"entry,omitempty"`
	Target    float64 `json:"target,omitempty"`
	Stop      float64 `json:"stop,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Summary is the run artifact schema.
type Summary struct {
	RunID    string    `json:"run_id"`
	ScanTime string    `json:"scan_time"`
	Planned  int       `json:"planned"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Run collects outcomes for a single scan.
type Run struct {
	summary Summary
}

// NewRun starts a report with a fresh run ID.
func NewRun(scanTime time.Time) *Run {
	return &Run{summary: Summary{
		RunID:    uuid.NewString(),
		ScanTime: scanTime.Format(time.RFC3339),
	}}
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.summary.RunID
}

// Planned records a symbol that produced a trade plan.
func (r *Run) Planned(plan gapfill.TradePlan) {
	r.summary.Planned++
	r.summary.Outcomes = append(r.summary.Outcomes, Outcome{
		Symbol:    plan.Symbol,
		Status:    "planned",
		Direction: string(plan.Direction),
		GapPct:    plan.GapPct,
		Entry:     plan.Entry,
		Target:    plan.Target,
		Stop:      plan.Stop,
	})
}

// Skipped records a symbol with no plan (thin history or sub-threshold gap).
func (r *Run) Skipped(symbol string) {
	r.summary.Skipped++
	r.summary.Outcomes = append(r.summary.Outcomes, Outcome{
		Symbol: symbol,
		Status: "skipped",
	})
}

// Failed records a symbol whose evaluation errored.
func (r *Run) Failed(symbol string, err error) {
	r.summary.Failed++
	r.summary.Outcomes = append(r.summary.Outcomes, Outcome{
		Symbol: symbol,
		Status: "failed",
		Error:  err.Error(),
	})
}

// Write saves the pretty-printed summary, replacing any prior run's file.
func (r *Run) Write(path string) error {
	raw, err := json.Marshal(r.summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create run summary dir: %w", err)
	}
	if err := os.WriteFile(path, pretty.Pretty(raw), 0o644); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	return nil
}
