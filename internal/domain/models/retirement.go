package models

// RetirementPlan is the outcome of a safe-withdrawal projection.
// RequiredCapital is nil when the real withdrawal rate is not positive.
type RetirementPlan struct {
	AnnualizedReturnPct float64
	InflationPct        float64
	RealWithdrawalRate  float64
	AnnualExpense       float64
	RequiredCapital     *float64
	Sufficient          bool
}
