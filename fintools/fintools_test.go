// Copyright 2025 The Minions Finance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fintools_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivien-cheng/minions-finance/fintools"
)

func TestExtractMonetaryValues(t *testing.T) {
	values := fintools.ExtractMonetaryValues("Revenue was $4.2 billion and costs were $1,234.56.")
	require.Len(t, values, 2)
	assert.Equal(t, 4.2e9, values[0].Amount)
	assert.Equal(t, "$4.2 billion", values[0].Raw)
	assert.Equal(t, 1234.56, values[1].Amount)
}

func TestExtractMonetaryValuesScales(t *testing.T) {
	for input, want := range map[string]float64{
		"5 million":    5e6,
		"2.5 billion":  2.5e9,
		"1.1 trillion": 1.1e12,
		"$750":         750,
	} {
		values := fintools.ExtractMonetaryValues(input)
		require.Len(t, values, 1, "input %q", input)
		assert.Equal(t, want, values[0].Amount, "input %q", input)
	}
}

func TestExtractPercentages(t *testing.T) {
	percentages := fintools.ExtractPercentages("Margins rose 12.5% while churn stayed at 3 percent.")
	require.Len(t, percentages, 2)
	assert.Equal(t, 12.5, percentages[0].Value)
	assert.Equal(t, 3.0, percentages[1].Value)
}

func TestExtractDates(t *testing.T) {
	dates := fintools.ExtractDates("Filed January 28, 2022, amended 03/15/2022, effective 2022-04-01.")
	assert.ElementsMatch(t, []string{"January 28, 2022", "03/15/2022", "2022-04-01"}, dates)
}

func TestCheckFinancialTerms(t *testing.T) {
	found := fintools.CheckFinancialTerms(
		"Total REVENUE increased while operating expenses declined.",
		[]string{"revenue", "expense", "dividend"},
	)
	assert.True(t, found["revenue"])
	assert.True(t, found["expense"])
	assert.False(t, found["dividend"])
}

func TestExtractFinancialMetrics(t *testing.T) {
	metrics := fintools.ExtractFinancialMetrics("Revenue of $2 billion, up 8% since 2021-01-01.")
	assert.NotEmpty(t, metrics.MonetaryValues)
	assert.NotEmpty(t, metrics.Percentages)
	assert.NotEmpty(t, metrics.Dates)
	assert.True(t, metrics.CommonTerms["revenue"])
}

func TestPercentageChange(t *testing.T) {
	assert.InDelta(t, 25.0, fintools.PercentageChange(100, 125), 1e-9)
	assert.InDelta(t, -50.0, fintools.PercentageChange(100, 50), 1e-9)
	assert.True(t, math.IsInf(fintools.PercentageChange(0, 10), 1))
	assert.True(t, math.IsInf(fintools.PercentageChange(0, -10), -1))
}

func TestCompoundInterest(t *testing.T) {
	// $1000 at 5% compounded annually for 10 years.
	assert.InDelta(t, 1628.89, fintools.CompoundInterest(1000, 0.05, 10, 1), 1e-9)
	// Monthly compounding grows faster.
	assert.Greater(t, fintools.CompoundInterest(1000, 0.05, 10, 12), 1628.89)
}

func TestROI(t *testing.T) {
	assert.InDelta(t, 50.0, fintools.ROI(200, 300), 1e-9)
}

func TestAnnualizedReturn(t *testing.T) {
	annualized, err := fintools.AnnualizedReturn(1000, 1210, 2)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, annualized, 1e-9)

	_, err = fintools.AnnualizedReturn(1000, 1210, 0)
	assert.Error(t, err)
}

func TestPresentAndFutureValue(t *testing.T) {
	assert.InDelta(t, 613.91, fintools.PresentValue(1000, 0.05, 10), 1e-9)
	assert.InDelta(t, 1628.89, fintools.FutureValue(1000, 0.05, 10), 1e-9)
}

func TestLoanPayment(t *testing.T) {
	// $200,000 at 6% for 30 years.
	assert.InDelta(t, 1199.10, fintools.LoanPayment(200000, 0.06, 30), 0.01)
}

func TestAmortizationSchedule(t *testing.T) {
	schedule := fintools.AmortizationSchedule(200000, 0.06, 30)
	require.Len(t, schedule, 360)

	first := schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.InDelta(t, 1000.0, first.Interest, 0.01) // 200000 * 0.06/12
	assert.InDelta(t, first.Payment-first.Interest, first.Principal, 0.01)

	// Balance is paid down to (approximately) zero at the end.
	assert.InDelta(t, 0, schedule[359].Balance, 1.0)
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, 1.23, fintools.RoundToCents(1.234))
	assert.Equal(t, 1.24, fintools.RoundToCents(1.239))
	assert.Equal(t, -1.24, fintools.RoundToCents(-1.239))
}
