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

package fintools

import (
	"fmt"
	"math"
)

// RoundToCents rounds a monetary amount to two decimal places, half away
// from zero.
func RoundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentageChange computes the percentage change from initial to final.
// A zero initial value yields +Inf or -Inf depending on the sign of final.
func PercentageChange(initial, final float64) float64 {
	if initial == 0 {
		if final > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return (final - initial) / math.Abs(initial) * 100
}

// CompoundInterest computes the final amount after compounding interest,
// rounded to cents. rate is the annual rate as a decimal, time is in years.
func CompoundInterest(principal, rate, time float64, compoundsPerYear int) float64 {
	compounds := float64(compoundsPerYear)
	return RoundToCents(principal * math.Pow(1+rate/compounds, compounds*time))
}

// ROI computes the return on investment as a percentage.
func ROI(initialInvestment, finalValue float64) float64 {
	return PercentageChange(initialInvestment, finalValue)
}

// AnnualizedReturn computes the annualized return percentage of an
// investment held for the given number of years.
func AnnualizedReturn(initialInvestment, finalValue, years float64) (float64, error) {
	if years <= 0 {
		return 0, fmt.Errorf("years must be positive, got %v", years)
	}
	totalReturn := finalValue/initialInvestment - 1
	return (math.Pow(1+totalReturn, 1/years) - 1) * 100, nil
}

// PresentValue discounts a future value back over time at the given rate,
// rounded to cents.
func PresentValue(futureValue, rate, time float64) float64 {
	return RoundToCents(futureValue / math.Pow(1+rate, time))
}

// FutureValue grows a present value over time at the given rate, rounded to
// cents.
func FutureValue(presentValue, rate, time float64) float64 {
	return RoundToCents(presentValue * math.Pow(1+rate, time))
}

// LoanPayment computes the fixed monthly payment for a loan.
// rate is the annual interest rate as a decimal.
func LoanPayment(principal, rate float64, years int) float64 {
	months := float64(years * 12)
	monthlyRate := rate / 12
	growth := math.Pow(1+monthlyRate, months)
	return RoundToCents(principal * (monthlyRate * growth) / (growth - 1))
}

// AmortizationEntry is one month of a loan amortization schedule.
type AmortizationEntry struct {
	Month     int
	Payment   float64
	Principal float64
	Interest  float64
	Balance   float64
}

// AmortizationSchedule computes the month-by-month amortization of a loan.
func AmortizationSchedule(principal, rate float64, years int) []AmortizationEntry {
	monthlyPayment := LoanPayment(principal, rate, years)
	monthlyRate := rate / 12
	balance := principal

	schedule := make([]AmortizationEntry, 0, years*12)
	for month := 1; month <= years*12; month++ {
		interest := balance * monthlyRate
		principalPayment := monthlyPayment - interest
		balance -= principalPayment

		schedule = append(schedule, AmortizationEntry{
			Month:     month,
			Payment:   monthlyPayment,
			Principal: RoundToCents(principalPayment),
			Interest:  RoundToCents(interest),
			Balance:   RoundToCents(balance),
		})
	}
	return schedule
}
