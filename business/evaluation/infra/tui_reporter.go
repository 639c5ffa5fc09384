package infra

import (
	"context"
	"time"

	"github.com/arbx-labs/routeval/business/evaluation/app"
	"github.com/arbx-labs/routeval/pkg/ui"
)

// TUIReporter forwards evaluation outcomes to the Bubble Tea dashboard.
type TUIReporter struct {
	program *ui.Program
}

// NewTUIReporter creates a reporter bound to a running dashboard.
func NewTUIReporter(program *ui.Program) *TUIReporter {
	return &TUIReporter{program: program}
}

// Report sends the batch to the dashboard. Timing is measured by the
// scan loop and carried on the message, so the reporter itself stays
// dumb.
func (r *TUIReporter) Report(ctx context.Context, outcomes []app.Outcome) error {
	start, ok := ctx.Value(scanStartKey{}).(time.Time)
	var took time.Duration
	if ok {
		took = time.Since(start)
	}

	r.program.SendScan(outcomes, took)
	return nil
}

type scanStartKey struct{}

// WithScanStart marks the scan start time for duration reporting.
func WithScanStart(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, scanStartKey{}, start)
}
