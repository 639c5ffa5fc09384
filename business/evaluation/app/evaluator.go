package app

import (
	"context"
	"sync"
	"time"

	evaldomain "github.com/arbx-labs/routeval/business/evaluation/domain"
	marketdata "github.com/arbx-labs/routeval/business/marketdata/domain"
	"github.com/arbx-labs/routeval/internal/apm"
	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/arbx-labs/routeval/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// EvaluatorConfig carries the batch-level knobs.
type EvaluatorConfig struct {
	MinProfitBps    decimal.Decimal
	Workers         int
	CMin            decimal.Decimal // default flash-loan utilization floor
	CMax            decimal.Decimal // default flash-loan utilization ceiling
	DefaultFlashFee decimal.Decimal // used when the snapshot omits a pool fee
	Registerer      prometheus.Registerer
}

// Evaluator runs both profit models over a snapshot's candidate routes.
// Route evaluations are pure functions over immutable inputs, so a batch
// is evaluated by a fixed worker pool with no ordering guarantee beyond
// the output slice being indexed like the input.
type Evaluator struct {
	calc     *RouteCalculator
	flash    *UniversalCalculator
	risk     *RiskAnalyzer
	selector *HybridSelector
	cfg      EvaluatorConfig
	log      *logger.Logger
	tracer   apm.Tracer

	metrics struct {
		routesEvaluated prometheus.Counter
		opportunities   prometheus.Counter
		recommendations *prometheus.CounterVec
		evalErrors      *prometheus.CounterVec
		batchLatency    prometheus.Histogram
	}
}

// NewEvaluator wires the two calculators, the risk analyzer, and the
// hybrid selector into a batch evaluator.
func NewEvaluator(calc *RouteCalculator, flash *UniversalCalculator, risk *RiskAnalyzer, selector *HybridSelector, cfg EvaluatorConfig, log *logger.Logger) *Evaluator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	e := &Evaluator{
		calc:     calc,
		flash:    flash,
		risk:     risk,
		selector: selector,
		cfg:      cfg,
		log:      log,
		tracer:   apm.NewTracer("evaluation"),
	}

	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	e.metrics.routesEvaluated = factory.NewCounter(prometheus.CounterOpts{
		Name: "routeval_routes_evaluated_total",
		Help: "Number of candidate routes evaluated",
	})

	e.metrics.opportunities = factory.NewCounter(prometheus.CounterOpts{
		Name: "routeval_opportunities_total",
		Help: "Number of routes that cleared the profit threshold",
	})

	e.metrics.recommendations = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "routeval_recommendations_total",
		Help: "Recommendations by action",
	}, []string{"action", "model"})

	e.metrics.evalErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "routeval_evaluation_errors_total",
		Help: "Per-route evaluation errors by code",
	}, []string{"code"})

	e.metrics.batchLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeval_batch_latency_seconds",
		Help:    "Latency of full batch evaluations",
		Buckets: prometheus.DefBuckets,
	})

	return e
}

// EvaluateBatch evaluates every candidate route in the snapshot at the
// given capital. Per-route errors never abort the batch: each outcome
// carries its own recommendation, "no opportunity" marker, or error.
func (e *Evaluator) EvaluateBatch(ctx context.Context, snapshot *marketdata.Snapshot, capital decimal.Decimal) []Outcome {
	start := time.Now()
	defer func() {
		e.metrics.batchLatency.Observe(time.Since(start).Seconds())
	}()

	ctx, span := e.tracer.StartSpanFromContext(ctx, "evaluation.batch")
	defer span.End()
	span.SetAttribute(attribute.Int("routes", len(snapshot.Routes)))
	span.SetAttribute(attribute.String("capital", capital.String()))

	outcomes := make([]Outcome, len(snapshot.Routes))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = e.evaluateOne(ctx, snapshot.Routes[i], capital)
			}
		}()
	}

	for i := range snapshot.Routes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, o := range outcomes {
		e.metrics.routesEvaluated.Inc()
		switch {
		case o.Err != nil:
			span.NoticeError(o.Err)
			e.metrics.evalErrors.WithLabelValues(string(apperror.GetCode(o.Err))).Inc()
		case o.Recommendation != nil:
			e.metrics.opportunities.Inc()
			e.metrics.recommendations.
				WithLabelValues(string(o.Recommendation.Action), string(o.Recommendation.ModelUsed)).Inc()
		}
	}

	return outcomes
}

// evaluateOne runs the full pipeline for a single candidate route.
func (e *Evaluator) evaluateOne(ctx context.Context, rq marketdata.RouteQuote, capital decimal.Decimal) Outcome {
	route, err := rq.ToRoute()
	if err != nil {
		if apperror.IsCode(err, apperror.CodeAnomalousInput) {
			e.log.Warn(ctx, "anomalous route input, treating as no opportunity", "error", err)
			return Outcome{NoOpportunity: true}
		}
		return Outcome{Err: err}
	}

	out := Outcome{
		RouteID:   route.ID,
		Route:     route,
		SpreadPct: route.SpreadPct(),
	}

	legacy, err := e.calc.Calculate(ctx, route, capital)
	if err != nil {
		out.Err = err
		return out
	}

	var universal *evaldomain.UniversalResult
	if rq.Pool != nil {
		universal, err = e.flash.CalculateArbitrage(ctx, route, e.flashParams(*rq.Pool))
		if err != nil {
			// A pool too thin for leveraged execution does not kill the
			// legacy path; anything else does.
			if !apperror.IsCode(err, apperror.CodeInsufficientLiquidity) {
				out.Err = err
				return out
			}
			e.log.Debug(ctx, "flash-loan path unavailable", "route", route.ID, "error", err)
		}
	}

	out.Report = legacy
	out.Universal = universal

	model := e.selector.Select(out.SpreadPct, legacy, universal)

	// The selector never picks a model without a result, so universal
	// is non-nil whenever it governs.
	report := legacy
	capitalOrVolume := capital
	if model == evaldomain.ModelUniversal {
		report = universalReport(universal)
		capitalOrVolume = universal.Volume
	}

	if report == nil {
		out.NoOpportunity = true
		return out
	}

	assessment := e.risk.Assess(ctx, route, report)
	out.Assessment = assessment

	out.Recommendation = &evaldomain.Recommendation{
		RouteID:         route.ID,
		RouteType:       route.Classify(),
		ModelUsed:       model,
		CapitalOrVolume: capitalOrVolume,
		NetProfit:       report.Reported,
		ProfitBps:       report.ProfitBps,
		RiskScore:       assessment.Score,
		RiskLevel:       assessment.Level,
		RiskReward:      assessment.RiskReward,
		ExpectedValue:   assessment.ExpectedValue,
		KellyFraction:   assessment.RecommendedFrac,
		Action:          evaldomain.Decide(report.Reported, report.ProfitBps, assessment.Score, e.cfg.MinProfitBps),
	}

	return out
}

func (e *Evaluator) flashParams(pool marketdata.PoolStats) evaldomain.FlashLoanParams {
	fee := pool.FlashFeeRate
	if fee.IsZero() {
		fee = e.cfg.DefaultFlashFee
	}

	return evaldomain.FlashLoanParams{
		TVL:        pool.TVL,
		FeeRate:    fee,
		CMin:       e.cfg.CMin,
		CMax:       e.cfg.CMax,
		Volatility: pool.Volatility,
	}
}

// universalReport recasts a flash-loan result in profit-report terms so
// the risk analyzer can score both models uniformly.
func universalReport(res *evaldomain.UniversalResult) *evaldomain.ProfitReport {
	slipFrac := res.SlippageBuy.Add(res.SlippageSell)

	profitBps := decimal.Zero
	if res.Volume.IsPositive() {
		profitBps = res.AdjustedProfit.Div(res.Volume).Mul(bpsPerUnit)
	}

	return &evaldomain.ProfitReport{
		Capital:       res.Volume,
		GrossProceeds: res.Volume.Add(res.NetProfit),
		TotalFees:     res.LoanFee,
		TotalGas:      res.Gas,
		TotalSlippage: res.Volume.Mul(slipFrac),
		SlippageBps:   slipFrac.Mul(bpsPerUnit),
		NetProfit:     res.NetProfit.Sub(res.Gas).Sub(res.BridgeFee),
		Reported:      res.AdjustedProfit,
		ProfitBps:     profitBps,
		IsProfitable:  res.IsProfitable,
	}
}
