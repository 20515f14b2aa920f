/*
grosspay.go - Gross-pay computation for one employee row

PURPOSE:
  Turns one employee's run snapshot into the rounded "Total pay" figure
  an operator reviews before submitting a payroll. Orchestrates regular
  and overtime pay, fixed earnings, PTO pay, and the minimum-wage
  (tip-credit) top-up.

ALGORITHM (in order):
   1. Excluded snapshot -> 0
   2. Resolve the primary job's effective compensation; none -> 0
   3. Classify salaried (FLSA Exempt or Salaried Nonexempt)
   4. Expected hours for the pay period from the frequency table
   5. "Salaried with expected hours": salaried AND a "regular hours"
      line exactly covering the period's expected hours. When true,
      PTO is carved out of the base salary rather than added on top.
   6. PTO hours (off-cycle runs also pay out banked unused hours)
   7. Regular + overtime pay. Overtime premium is paid on the single
      blended rate across ALL concurrent hourly jobs, not each line's
      own nominal rate. The blend is what keeps totals correct for
      multi-job employees; do not simplify it to per-job premiums.
   8. Fixed earnings (excluding reimbursements and minimum-wage
      adjustment lines; positive amounts only)
   9. PTO pay at the PRIMARY job's hourly rate, regardless of which job
      a PTO line is tied to. Deliberate domain rule.
  10. Minimum-wage adjustment: max(0, tip credit - reported tips)
  11. Sum, rounded to 2 decimals (half-up)

TOTALITY:
  This function never fails. Missing jobs, a zero or absent rate, an
  excluded snapshot, or an absent schedule degrade to a defined zero or
  partial result. The output feeds a display column; see types.go.

PRECISION:
  Intermediate weighted rate is rounded to 6 decimals; the final total
  to 2. No other rounding points exist.

SEE ALSO:
  - effective.go: Record resolution used in steps 2, 7, 10
  - rate.go:      Hourly normalization and the frequency table
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	weightedRatePrecision = 6
	currencyPrecision     = 2
)

var one = decimal.NewFromInt(1)

// ComputeGrossPay computes the rounded gross pay for one employee in
// one payroll run. A zero effectiveDate means "now".
func ComputeGrossPay(snapshot EmployeeCompensation, employee *Employee, effectiveDate time.Time, schedule *PaySchedule, offCycle bool) decimal.Decimal {
	if snapshot.Excluded {
		return decimal.Zero
	}
	if effectiveDate.IsZero() {
		effectiveDate = time.Now()
	}

	primary := employee.PrimaryJob().EffectiveCompensation(effectiveDate)
	if primary == nil {
		return decimal.Zero
	}
	primaryRate := primary.HourlyRate()

	salaried := primary.FlsaStatus.IsSalaried()
	hoursInPeriod := HoursInPayPeriod(schedule)
	salariedWithExpectedHours := salaried && hasRegularHoursCovering(snapshot, hoursInPeriod)

	ptoHours := ptoHours(snapshot, hoursInPeriod, salariedWithExpectedHours, offCycle)

	var hourlyPay decimal.Decimal
	if !offCycle && salariedWithExpectedHours {
		// Salary covers worked hours only; PTO hours are carved out
		// here and paid at the primary rate below.
		hourlyPay = primaryRate.Mul(hoursInPeriod.Sub(ptoHours))
	} else {
		hourlyPay = blendedHourlyPay(snapshot, employee, effectiveDate)
	}

	fixedPay := fixedEarnings(snapshot)
	ptoPay := ptoHours.Mul(primaryRate)
	adjustment := minimumWageAdjustment(snapshot, primary, primaryRate, effectiveDate)

	return hourlyPay.Add(fixedPay).Add(ptoPay).Add(adjustment).Round(currencyPrecision)
}

// =============================================================================
// STEP 5 - SALARIED WITH EXPECTED HOURS
// =============================================================================

// hasRegularHoursCovering reports whether the snapshot has a "regular
// hours" line whose hours exactly equal the period's expected hours.
func hasRegularHoursCovering(snapshot EmployeeCompensation, hoursInPeriod decimal.Decimal) bool {
	for _, hc := range snapshot.HourlyCompensations {
		if isLine(hc.Name, LineRegularHours) && hc.Hours.Equal(hoursInPeriod) {
			return true
		}
	}
	return false
}

// =============================================================================
// STEP 6 - PTO HOURS
// =============================================================================

func ptoHours(snapshot EmployeeCompensation, hoursInPeriod decimal.Decimal, salariedWithExpectedHours, offCycle bool) decimal.Decimal {
	ordinary := decimal.Zero
	for _, pto := range snapshot.PaidTimeOff {
		ordinary = ordinary.Add(pto.Hours)
	}

	if offCycle {
		// Off-cycle runs may pay out banked, unused PTO on top of the
		// period's ordinary PTO.
		payout := decimal.Zero
		for _, pto := range snapshot.PaidTimeOff {
			if pto.FinalPayoutUnusedHours != nil {
				payout = payout.Add(*pto.FinalPayoutUnusedHours)
			}
		}
		return ordinary.Add(payout)
	}

	if salariedWithExpectedHours && ordinary.GreaterThan(hoursInPeriod) {
		// PTO cannot exceed the expected hours the salary already covers.
		return hoursInPeriod
	}
	return ordinary
}

// =============================================================================
// STEP 7 - REGULAR + OVERTIME PAY (blended rate)
// =============================================================================

// blendedHourlyPay pays every hourly line at its own job's rate, then
// adds overtime premium on the weighted average rate across all lines.
func blendedHourlyPay(snapshot EmployeeCompensation, employee *Employee, at time.Time) decimal.Decimal {
	regularRatePay := decimal.Zero
	totalHours := decimal.Zero

	for _, hc := range snapshot.HourlyCompensations {
		rate := employee.JobByUUID(hc.JobUUID).EffectiveCompensation(at).HourlyRate()
		regularRatePay = regularRatePay.Add(hc.Hours.Mul(rate))
		totalHours = totalHours.Add(hc.Hours)
	}

	weightedRate := decimal.Zero
	if !totalHours.IsZero() {
		weightedRate = regularRatePay.DivRound(totalHours, weightedRatePrecision)
	}

	pay := regularRatePay
	for _, hc := range snapshot.HourlyCompensations {
		if isLine(hc.Name, LineRegularHours) {
			continue
		}
		premium := hc.CompensationMultiplier.Sub(one)
		pay = pay.Add(hc.Hours.Mul(weightedRate).Mul(premium))
	}
	return pay
}

// =============================================================================
// STEP 8 - FIXED EARNINGS
// =============================================================================

// fixedEarnings sums positive fixed lines that are actual earnings.
// Reimbursements are not wages, and minimum-wage adjustment lines are
// recomputed by this engine rather than trusted from the snapshot.
func fixedEarnings(snapshot EmployeeCompensation) decimal.Decimal {
	total := decimal.Zero
	for _, fc := range snapshot.FixedCompensations {
		if isLine(fc.Name, LineReimbursement) || isLine(fc.Name, LineMinimumWageAdjustment) {
			continue
		}
		if fc.Amount.IsPositive() {
			total = total.Add(fc.Amount)
		}
	}
	return total
}

// =============================================================================
// STEP 10 - MINIMUM-WAGE (TIP-CREDIT) ADJUSTMENT
// =============================================================================

// minimumWageAdjustment tops pay up to the wage floor for tipped
// employees. The adjustment never reduces pay.
func minimumWageAdjustment(snapshot EmployeeCompensation, primary *JobCompensation, primaryRate decimal.Decimal, at time.Time) decimal.Decimal {
	if !primary.AdjustForMinimumWage {
		return decimal.Zero
	}
	wage := primary.EffectiveMinimumWage(at)
	if wage == nil {
		return decimal.Zero
	}

	totalHours := decimal.Zero
	for _, hc := range snapshot.HourlyCompensations {
		totalHours = totalHours.Add(hc.Hours)
	}

	tips := decimal.Zero
	for _, fc := range snapshot.FixedCompensations {
		if (isLine(fc.Name, LinePaycheckTips) || isLine(fc.Name, LineCashTips)) && fc.Amount.IsPositive() {
			tips = tips.Add(fc.Amount)
		}
	}

	tipCredit := wage.Wage.Sub(primaryRate).Mul(totalHours)
	adjustment := tipCredit.Sub(tips)
	if adjustment.IsNegative() {
		return decimal.Zero
	}
	return adjustment
}
