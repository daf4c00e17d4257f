package dto

import "github.com/guttosm/investhelper/internal/domain/models"

// RetirementResponse is returned by GET /api/v1/retirement. RequiredCapital
// is null and Warning is set when returns do not cover inflation.
type RetirementResponse struct {
	Ticker                string          `json:"ticker" example:"AAPL"`
	Summary               SummaryResponse `json:"summary"`
	AnnualExpense         float64         `json:"annual_expense" example:"500000"`
	InflationPct          float64         `json:"inflation_pct" example:"2.0"`
	RealWithdrawalRatePct *float64        `json:"real_withdrawal_rate_pct" example:"6.0"`
	RequiredCapital       *float64        `json:"required_capital" example:"8333333"`
	Sufficient            bool            `json:"sufficient" example:"true"`
	Warning               string          `json:"warning,omitempty"`
	Text                  string          `json:"text"`
}

// InsufficientReturnWarning is the warning attached to insufficient plans.
const InsufficientReturnWarning = "annualized return does not cover inflation"

func NewRetirementResponse(ticker string, s models.SummaryMetrics, p models.RetirementPlan, text string) RetirementResponse {
	resp := RetirementResponse{
		Ticker:                ticker,
		Summary:               NewSummaryResponse(s),
		AnnualExpense:         p.AnnualExpense,
		InflationPct:          p.InflationPct,
		RealWithdrawalRatePct: Nullable(p.RealWithdrawalRate * 100),
		Sufficient:            p.Sufficient,
		Text:                  text,
	}
	if p.RequiredCapital != nil {
		resp.RequiredCapital = Nullable(*p.RequiredCapital)
	}
	if !p.Sufficient {
		resp.Warning = InsufficientReturnWarning
	}
	return resp
}
