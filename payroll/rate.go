/*
rate.go - Hourly-rate normalization and pay-period hours

PURPOSE:
  Compensation rates arrive in whatever unit the employer entered
  (hourly, weekly, monthly, yearly, per-paycheck). Every downstream
  calculation works in hourly-equivalent terms, so this file owns the
  fixed conversion divisors and the expected-hours-per-period table.

DIVISORS:
  Year  / 2080        (52 weeks x 40 hours)
  Month / 173.333333  (2080 / 12)
  Week  / 40
  Hour    unchanged
  Paycheck -> 0       A per-paycheck rate has no hourly equivalent;
                      returning the raw rate would silently inflate
                      hourly math, so it normalizes to zero and callers
                      special-case Paycheck compensation.

  An unknown unit passes the rate through unchanged. That is an
  explicit fallback, not an error.

SEE ALSO:
  - grosspay.go: Consumes both tables
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CONVERSION DIVISORS
// =============================================================================

var (
	hoursPerYear  = decimal.NewFromInt(2080)
	hoursPerMonth = decimal.RequireFromString("173.333333")
	hoursPerWeek  = decimal.NewFromInt(40)
)

// HourlyRate converts a rate expressed in the given pay unit into an
// hourly-equivalent rate.
func HourlyRate(rate decimal.Decimal, unit PayUnit) decimal.Decimal {
	switch unit {
	case UnitHour:
		return rate
	case UnitYear:
		return rate.Div(hoursPerYear)
	case UnitMonth:
		return rate.Div(hoursPerMonth)
	case UnitWeek:
		return rate.Div(hoursPerWeek)
	case UnitPaycheck:
		return decimal.Zero
	default:
		return rate
	}
}

// HourlyRate returns the compensation's hourly-equivalent rate, or zero
// for a nil compensation.
func (c *JobCompensation) HourlyRate() decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return HourlyRate(c.Rate, c.PaymentUnit)
}

// =============================================================================
// EXPECTED HOURS PER PAY PERIOD
// =============================================================================

// hoursByFrequency maps a pay frequency to the expected worked hours in
// one pay period, assuming a 2080-hour year.
var hoursByFrequency = map[PayFrequency]decimal.Decimal{
	FrequencyDaily:       decimal.NewFromInt(8),
	FrequencyWeekly:      decimal.NewFromInt(40),
	FrequencyBiweekly:    decimal.NewFromInt(80),
	FrequencySemiMonthly: decimal.RequireFromString("86.666667"),
	FrequencyMonthly:     decimal.RequireFromString("173.333333"),
	FrequencyQuarterly:   decimal.NewFromInt(520),
	FrequencySemiAnnual:  decimal.NewFromInt(1040),
	FrequencyAnnual:      decimal.NewFromInt(2080),
}

// HoursInPayPeriod returns the expected hours for one period of the
// given schedule. Zero when no schedule is supplied or the frequency is
// unknown.
func HoursInPayPeriod(schedule *PaySchedule) decimal.Decimal {
	if schedule == nil {
		return decimal.Zero
	}
	if hours, ok := hoursByFrequency[schedule.Frequency]; ok {
		return hours
	}
	return decimal.Zero
}
