package app

import (
	"context"

	evaldomain "github.com/arbx-labs/routeval/business/evaluation/domain"
	marketdata "github.com/arbx-labs/routeval/business/marketdata/domain"
	routing "github.com/arbx-labs/routeval/business/routing/domain"
	"github.com/shopspring/decimal"
)

// SnapshotProvider delivers a complete market snapshot for one scan
// cycle.
type SnapshotProvider interface {
	Load(ctx context.Context) (*marketdata.Snapshot, error)
}

// Outcome is the per-route result of a batch evaluation: exactly one of
// Recommendation, NoOpportunity, or Err is meaningful.
type Outcome struct {
	RouteID        string
	Route          *routing.Route
	SpreadPct      decimal.Decimal
	Recommendation *evaldomain.Recommendation
	Report         *evaldomain.ProfitReport
	Assessment     *evaldomain.RiskAssessment
	Universal      *evaldomain.UniversalResult
	NoOpportunity  bool
	Err            error
}

// Reporter renders a batch of outcomes for a human or a downstream
// consumer.
type Reporter interface {
	Report(ctx context.Context, outcomes []Outcome) error
}
