package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HOURLY-RATE NORMALIZATION
// =============================================================================

func TestHourlyRate_FixedDivisors(t *testing.T) {
	cases := []struct {
		name string
		rate string
		unit payroll.PayUnit
		want string
	}{
		{"hourly unchanged", "22.00", payroll.UnitHour, "22.00"},
		{"yearly over 2080", "52000", payroll.UnitYear, "25"},
		{"weekly over 40", "1000", payroll.UnitWeek, "25"},
		{"paycheck normalizes to zero", "3000", payroll.UnitPaycheck, "0"},
		{"unknown unit passes through", "17.50", payroll.PayUnit("Shift"), "17.50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payroll.HourlyRate(decimal.RequireFromString(tc.rate), tc.unit)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("HourlyRate(%s, %s) = %s, want %s", tc.rate, tc.unit, got, tc.want)
			}
		})
	}
}

func TestHourlyRate_MonthlyDivisor(t *testing.T) {
	// 173.333333 hours/month; a $5,200 monthly rate is ~$30/hour.

	got := payroll.HourlyRate(decimal.NewFromInt(5200), payroll.UnitMonth)
	want := decimal.RequireFromString("30")
	if got.Sub(want).Abs().GreaterThan(decimal.RequireFromString("0.000001")) {
		t.Errorf("monthly 5200 normalized to %s, want ~30", got)
	}
}

func TestHourlyRate_NilCompensation(t *testing.T) {
	var c *payroll.JobCompensation
	if !c.HourlyRate().IsZero() {
		t.Error("nil compensation must normalize to zero")
	}
}

// =============================================================================
// EXPECTED HOURS PER PAY PERIOD
// =============================================================================

func TestHoursInPayPeriod_FrequencyTable(t *testing.T) {
	cases := []struct {
		frequency payroll.PayFrequency
		want      string
	}{
		{payroll.FrequencyDaily, "8"},
		{payroll.FrequencyWeekly, "40"},
		{payroll.FrequencyBiweekly, "80"},
		{payroll.FrequencySemiMonthly, "86.666667"},
		{payroll.FrequencyMonthly, "173.333333"},
		{payroll.FrequencyQuarterly, "520"},
		{payroll.FrequencySemiAnnual, "1040"},
		{payroll.FrequencyAnnual, "2080"},
	}

	for _, tc := range cases {
		t.Run(string(tc.frequency), func(t *testing.T) {
			got := payroll.HoursInPayPeriod(&payroll.PaySchedule{Frequency: tc.frequency})
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("%s: got %s hours, want %s", tc.frequency, got, tc.want)
			}
		})
	}
}

func TestHoursInPayPeriod_NoSchedule(t *testing.T) {
	if !payroll.HoursInPayPeriod(nil).IsZero() {
		t.Error("missing schedule must yield zero expected hours")
	}
	unknown := &payroll.PaySchedule{Frequency: payroll.PayFrequency("Fortnightly-ish")}
	if !payroll.HoursInPayPeriod(unknown).IsZero() {
		t.Error("unknown frequency must yield zero expected hours")
	}
}
