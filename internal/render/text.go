package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/guttosm/investhelper/internal/domain/models"
)

const dateLayout = "2006-01-02"

// SummaryText formats the performance block shown next to the chart.
// Values use two decimals; undefined ratios print as NaN.
func SummaryText(ticker string, s models.SummaryMetrics) string {
	var b strings.Builder
	writePeriod(&b, ticker, s)
	fmt.Fprintf(&b, "Cumulative return: %.2f%%\n", s.CumulativeReturnPct)
	fmt.Fprintf(&b, "Annualized return: %.2f%%\n", s.AnnualizedReturnPct)
	fmt.Fprintf(&b, "Annualized std dev: %.2f%%\n", s.AnnualizedStdDevPct)
	fmt.Fprintf(&b, "Sharpe ratio: %.2f\n", s.SharpeRatio)
	fmt.Fprintf(&b, "Sortino ratio: %.2f", s.SortinoRatio)
	return b.String()
}

// RetirementText formats the outcome of a retirement projection. When the
// plan is not sufficient only the inflation warning follows the period line.
func RetirementText(ticker string, s models.SummaryMetrics, p models.RetirementPlan) string {
	var b strings.Builder
	writePeriod(&b, ticker, s)
	fmt.Fprintf(&b, "Annualized return: %.2f%%\n", p.AnnualizedReturnPct)
	fmt.Fprintf(&b, "Expected inflation: %.2f%%\n", p.InflationPct)
	if !p.Sufficient || p.RequiredCapital == nil {
		b.WriteString("Warning: annualized return does not cover inflation")
		return b.String()
	}
	fmt.Fprintf(&b, "Safe withdrawal rate: %.2f%%\n", p.RealWithdrawalRate*100)
	fmt.Fprintf(&b, "Annual expense: %s\n", money(p.AnnualExpense))
	fmt.Fprintf(&b, "Required capital: about %s", money(*p.RequiredCapital))
	return b.String()
}

func writePeriod(b *strings.Builder, ticker string, s models.SummaryMetrics) {
	fmt.Fprintf(b, "Ticker: %s\n", ticker)
	fmt.Fprintf(b, "Period: %s -> %s (%.2f years)\n",
		s.PeriodStart.Format(dateLayout), s.PeriodEnd.Format(dateLayout), s.YearsElapsed)
}

func money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return humanize.Comma(int64(math.Round(v)))
}
