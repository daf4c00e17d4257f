package retirement

import (
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/investhelper/internal/domain/models"
)

var (
	// ErrNonPositiveWithdrawalRate means returns do not beat inflation, so no
	// finite capital sustains the expense. The returned plan is still valid.
	ErrNonPositiveWithdrawalRate = errors.New("real withdrawal rate is not positive")
	// ErrInvalidInput is returned for negative or non-finite expense or inflation.
	ErrInvalidInput = errors.New("invalid retirement input")
)

// Project sizes the capital needed to fund annualExpense forever at a real
// withdrawal rate of annualizedReturnPct - inflationPct (both in percent).
//
// When the real rate is zero, negative or NaN the plan is returned with
// Sufficient=false and a nil RequiredCapital together with
// ErrNonPositiveWithdrawalRate.
func Project(annualizedReturnPct, inflationPct, annualExpense float64) (models.RetirementPlan, error) {
	if !finiteNonNegative(annualExpense) {
		return models.RetirementPlan{}, fmt.Errorf("%w: annual expense %v", ErrInvalidInput, annualExpense)
	}
	if !finiteNonNegative(inflationPct) {
		return models.RetirementPlan{}, fmt.Errorf("%w: inflation %v", ErrInvalidInput, inflationPct)
	}

	rate := annualizedReturnPct/100 - inflationPct/100
	plan := models.RetirementPlan{
		AnnualizedReturnPct: annualizedReturnPct,
		InflationPct:        inflationPct,
		RealWithdrawalRate:  rate,
		AnnualExpense:       annualExpense,
	}
	// NaN fails this comparison as well.
	if !(rate > 0) {
		return plan, fmt.Errorf("%w: %.4f", ErrNonPositiveWithdrawalRate, rate)
	}

	capital := annualExpense / rate
	plan.RequiredCapital = &capital
	plan.Sufficient = true
	return plan, nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
