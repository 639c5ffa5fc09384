// Package infra contains infrastructure adapters for the evaluation context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arbx-labs/routeval/business/evaluation/app"
	"github.com/arbx-labs/routeval/business/evaluation/domain"
	"github.com/arbx-labs/routeval/internal/format"
)

const rule = "--------------------------------------------------------------------------------"
const doubleRule = "================================================================================"

// ConsoleReporter renders evaluation outcomes for CLI output.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
}

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout, verbose: verbose}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to w.
func NewConsoleReporterTo(w io.Writer, verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: w, verbose: verbose}
}

// Report prints each actionable outcome and a batch summary.
func (r *ConsoleReporter) Report(ctx context.Context, outcomes []app.Outcome) error {
	var executes, considers, skips, noOpp, errs int

	for _, out := range outcomes {
		switch {
		case out.Err != nil:
			errs++
			if r.verbose {
				fmt.Fprintf(r.out, "[%s] rejected: %v\n", time.Now().Format("15:04:05"), out.Err)
			}
		case out.Recommendation == nil:
			noOpp++
		default:
			switch out.Recommendation.Action {
			case domain.ActionExecute:
				executes++
			case domain.ActionConsider:
				considers++
			default:
				skips++
			}
			r.printOutcome(out)
		}
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, doubleRule)
	fmt.Fprintf(r.out, "SCAN SUMMARY: %d routes | %d execute | %d consider | %d skip | %d no opportunity | %d rejected\n",
		len(outcomes), executes, considers, skips, noOpp, errs)
	fmt.Fprintln(r.out, doubleRule)

	return nil
}

func (r *ConsoleReporter) printOutcome(out app.Outcome) {
	rec := out.Recommendation

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, doubleRule)
	fmt.Fprintf(r.out, "%s OPPORTUNITY [%s]\n", rec.RouteType, rec.Action)
	fmt.Fprintln(r.out, doubleRule)
	fmt.Fprintf(r.out, "Route:          %s\n", rec.RouteID)
	if out.Route != nil {
		fmt.Fprintf(r.out, "Path:           %s\n", out.Route.Path())
	}
	fmt.Fprintf(r.out, "Model:          %s\n", rec.ModelUsed)
	fmt.Fprintf(r.out, "Spread:         %s%%\n", out.SpreadPct.StringFixed(3))

	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "PROFIT")
	if rec.ModelUsed == domain.ModelUniversal {
		fmt.Fprintf(r.out, "  Loan Volume:    %s\n", format.USD(rec.CapitalOrVolume))
	} else {
		fmt.Fprintf(r.out, "  Capital:        %s\n", format.USD(rec.CapitalOrVolume))
	}
	fmt.Fprintf(r.out, "  Net Profit:     %s (%s)\n", format.USD(rec.NetProfit), format.Bps(rec.ProfitBps))

	if report := out.Report; report != nil && r.verbose {
		fmt.Fprintln(r.out, rule)
		fmt.Fprintln(r.out, "COSTS")
		fmt.Fprintf(r.out, "  Fees:           %s\n", format.USD(report.TotalFees))
		fmt.Fprintf(r.out, "  Gas:            %s\n", format.USD(report.TotalGas))
		fmt.Fprintf(r.out, "  Slippage:       %s (%s)\n", format.USD(report.TotalSlippage), format.Bps(report.SlippageBps))
	}

	if a := out.Assessment; a != nil {
		fmt.Fprintln(r.out, rule)
		fmt.Fprintln(r.out, "RISK")
		fmt.Fprintf(r.out, "  Score:          %s/100 (%s)\n", a.Score.StringFixed(1), a.Level)
		fmt.Fprintf(r.out, "  Exposure:       %s\n", format.USD(a.Exposure))
		fmt.Fprintf(r.out, "  Risk/Reward:    %s\n", format.Ratio(a.RiskReward))
		fmt.Fprintf(r.out, "  Win Prob:       %s\n", format.Percent(a.WinProbability))
		fmt.Fprintf(r.out, "  Expected Value: %s\n", format.USD(a.ExpectedValue))
		fmt.Fprintf(r.out, "  Break-even:     %s\n", format.Percent(a.BreakEvenRate))

		fmt.Fprintln(r.out, rule)
		fmt.Fprintln(r.out, "POSITION")
		fmt.Fprintf(r.out, "  Kelly Fraction: %s (quarter-Kelly)\n", format.Percent(a.RecommendedFrac))
		fmt.Fprintf(r.out, "  Suggested Cap:  %s\n", format.USD(a.SuggestedCap))
		fmt.Fprintf(r.out, "  Est. Exec Time: %dms\n", a.ExecTimeMs)
	}

	if u := out.Universal; u != nil && rec.ModelUsed == domain.ModelUniversal {
		fmt.Fprintln(r.out, rule)
		fmt.Fprintln(r.out, "EXECUTION")
		fmt.Fprintf(r.out, "  Loan Fee:       %s\n", format.USD(u.LoanFee))
		fmt.Fprintf(r.out, "  Slippage B/S:   %s / %s\n", format.Percent(u.SlippageBuy), format.Percent(u.SlippageSell))
		fmt.Fprintf(r.out, "  Exec Prob:      %s\n", format.Percent(u.ExecProbability))
		if u.BridgeFee.IsPositive() {
			fmt.Fprintf(r.out, "  Bridge Fee:     %s\n", format.USD(u.BridgeFee))
		}
	}

	fmt.Fprintln(r.out, doubleRule)
}
