package dto

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
)

func TestNullable(t *testing.T) {
	cases := []struct {
		in      float64
		wantNil bool
	}{
		{1.5, false},
		{0, false},
		{math.NaN(), true},
		{math.Inf(1), true},
		{math.Inf(-1), true},
	}
	for _, c := range cases {
		got := Nullable(c.in)
		if (got == nil) != c.wantNil {
			t.Fatalf("Nullable(%v) = %v", c.in, got)
		}
		if got != nil && *got != c.in {
			t.Fatalf("Nullable(%v) = %v", c.in, *got)
		}
	}
}

func TestMetricsResponse_NaNEncodesAsNull(t *testing.T) {
	s := models.SummaryMetrics{
		PeriodStart:         time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:           time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		AnnualizedReturnPct: math.NaN(),
		SharpeRatio:         math.NaN(),
		SortinoRatio:        math.NaN(),
	}
	resp := NewMetricsResponse("AAPL", nil, s, "text")
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	summary := out["summary"].(map[string]any)
	for _, k := range []string{"annualized_return_pct", "sharpe_ratio", "sortino_ratio"} {
		if v, ok := summary[k]; !ok || v != nil {
			t.Fatalf("%s = %v, want null", k, v)
		}
	}
	if summary["cumulative_return_pct"] != 0.0 {
		t.Fatalf("cumulative_return_pct = %v", summary["cumulative_return_pct"])
	}
	if summary["period_start"] != "2024-01-02" {
		t.Fatalf("period_start = %v", summary["period_start"])
	}
	if series, ok := out["series"].([]any); !ok || len(series) != 0 {
		t.Fatalf("series = %v, want empty array", out["series"])
	}
}

func TestNewRetirementResponse(t *testing.T) {
	capital := 1000000.0
	ok := NewRetirementResponse("AAPL", models.SummaryMetrics{}, models.RetirementPlan{
		RealWithdrawalRate: 0.04, AnnualExpense: 40000, RequiredCapital: &capital, Sufficient: true,
	}, "")
	if ok.Warning != "" || ok.RequiredCapital == nil || *ok.RequiredCapital != capital {
		t.Fatalf("unexpected %+v", ok)
	}
	if ok.RealWithdrawalRatePct == nil || math.Abs(*ok.RealWithdrawalRatePct-4) > 1e-9 {
		t.Fatalf("rate = %v", ok.RealWithdrawalRatePct)
	}

	bad := NewRetirementResponse("AAPL", models.SummaryMetrics{}, models.RetirementPlan{
		RealWithdrawalRate: math.NaN(), AnnualExpense: 40000,
	}, "")
	if bad.Warning != InsufficientReturnWarning || bad.RequiredCapital != nil || bad.RealWithdrawalRatePct != nil {
		t.Fatalf("unexpected %+v", bad)
	}
}
