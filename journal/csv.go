package journal

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/morningtrading/sizer/exposure"
	"github.com/morningtrading/sizer/monitoring"
	"github.com/morningtrading/sizer/pkg/id"
	"github.com/morningtrading/sizer/risk"
)

// CSV is a flat-file auditor for environments without SQLite. It supports
// Record only; use the SQLite backend when replay queries are needed.
// The mutex serializes concurrent evaluators sharing one writer.
type CSV struct {
	mu   sync.Mutex
	w    *csv.Writer
	file *os.File
}

func NewCSV(path string) (*CSV, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(file)
	if err := w.Write([]string{
		"decision_id", "time", "symbol", "direction", "equity",
		"regime", "volatility_percentile", "reference_price",
		"approved", "lot", "reason", "detail", "coefficient", "notional",
		"total_before", "total_after", "symbol_before", "symbol_after",
	}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSV{w: w, file: file}, nil
}

func (j *CSV) Record(req risk.SizingRequest, d risk.Decision, before, after exposure.Snapshot) {
	rec := newRecord(req, d, before, after, id.New(), time.Now().UTC())

	j.mu.Lock()
	defer j.mu.Unlock()

	j.w.Write([]string{
		rec.DecisionID,
		rec.Time.Format(time.RFC3339Nano),
		rec.Symbol,
		rec.Direction,
		f(rec.Equity),
		rec.Regime,
		f(rec.VolatilityPercentile),
		f(rec.ReferencePrice),
		strconv.FormatBool(rec.Approved),
		f(rec.Lot),
		rec.Reason,
		rec.Detail,
		f(rec.Coefficient),
		f(rec.Notional),
		f(rec.TotalBefore),
		f(rec.TotalAfter),
		f(rec.SymbolBefore),
		f(rec.SymbolAfter),
	})
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		log.Printf("journal: record decision %s: %v", rec.DecisionID, err)
		monitoring.RecordAuditError()
	}
}

func (j *CSV) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.file.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
