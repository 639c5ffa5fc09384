package app

import (
	"github.com/arbx-labs/routeval/business/evaluation/domain"
	"github.com/shopspring/decimal"
)

// HybridSelector decides, per opportunity, whether the legacy or the
// universal model governs the recommendation. Each model is calibrated
// for a different spread regime: the legacy simulation is conservative
// for small edges, the universal equation captures more profit at scale
// once the spread clears the loan-fee drag.
//
// Select is a pure function: same inputs always yield the same model.
type HybridSelector struct {
	legacyBelowPct    decimal.Decimal // spreads below this always use legacy
	universalAbovePct decimal.Decimal // spreads at or above this always use universal
}

// NewHybridSelector creates a selector with the given spread bands.
func NewHybridSelector(legacyBelowPct, universalAbovePct decimal.Decimal) *HybridSelector {
	return &HybridSelector{
		legacyBelowPct:    legacyBelowPct,
		universalAbovePct: universalAbovePct,
	}
}

// Select picks the governing model for an observed spread. A model
// with no result forfeits at any spread: the bands say which model is
// preferred, not that the other's computed profit stops existing.
// Inside the band both models are compared on risk-adjusted net
// profit; ties resolve to legacy.
func (s *HybridSelector) Select(spreadPct decimal.Decimal, legacy *domain.ProfitReport, universal *domain.UniversalResult) domain.Model {
	if universal == nil {
		return domain.ModelLegacy
	}
	if legacy == nil {
		return domain.ModelUniversal
	}

	if spreadPct.LessThan(s.legacyBelowPct) {
		return domain.ModelLegacy
	}

	if spreadPct.GreaterThanOrEqual(s.universalAbovePct) {
		return domain.ModelUniversal
	}

	if universal.AdjustedProfit.GreaterThan(legacy.Reported) {
		return domain.ModelUniversal
	}

	return domain.ModelLegacy
}
