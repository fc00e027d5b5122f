// Package tradelog appends qualifying trade plans to a flat CSV file.
package tradelog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"gapscan/pkg/gapfill"
)

var header = []string{"symbol", "date", "entry", "target", "stop", "direction", "gap_pct"}

// Recorder appends one CSV row per trade plan to the file at Path, writing
// the header only when the file does not yet exist. Rows are never updated
// or deleted; a rerun on the same date appends duplicates.
type Recorder struct {
	Path string
}

// Append writes the plan as one row.
func (r *Recorder) Append(plan gapfill.TradePlan) error {
	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create trade log dir: %w", err)
		}
	}

	_, statErr := os.Stat(r.Path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(r.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}

	w := csv.NewWriter(file)
	if writeHeader {
		if err := w.Write(header); err != nil {
			_ = file.Close()
			return fmt.Errorf("write trade log header: %w", err)
		}
	}
	if err := w.Write(row(plan)); err != nil {
		_ = file.Close()
		return fmt.Errorf("write trade log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush trade log: %w", err)
	}
	return file.Close()
}

func row(plan gapfill.TradePlan) []string {
	return []string{
		plan.Symbol,
		plan.Date.Format("2006-01-02"),
		gapfill.Money(plan.Entry),
		gapfill.Money(plan.Target),
		gapfill.Money(plan.Stop),
		string(plan.Direction),
		gapfill.Money(plan.GapPct),
	}
}
