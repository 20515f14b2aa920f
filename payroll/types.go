/*
Package payroll provides the core payroll computation engine.

PURPOSE:
  This package contains the pure calculation layer behind a payroll
  preview: effective-dated compensation resolution, hourly-rate
  normalization, gross-pay computation, and the cancellation-deadline
  rule. Callers supply already-parsed employee and run data and get
  back dollar amounts and boolean flags.

KEY CONCEPTS IN THIS FILE (types.go):
  - JobCompensation: An effective-dated rate with pay unit and FLSA status
  - MinimumWage: An effective-dated wage floor, scoped to a compensation
  - Employee/Job: An employee owns jobs; exactly one job is primary
  - EmployeeCompensation: The per-run snapshot of hours, fixed earnings, PTO
  - PaySchedule: Pay frequency, mapped to expected hours per period
  - PayrollRun: Run lifecycle state used by the cancellability rule

DESIGN PRINCIPLES:
  1. Purity: No I/O, no shared state; every function is a function of its inputs
  2. Precision: Uses decimal.Decimal for all money and hours arithmetic
  3. Totality: Missing data degrades to zero/false, never to an error.
     These amounts feed a display column; a render must not crash
     because a record is incomplete.

USAGE:
  comp := employee.PrimaryJob().EffectiveCompensation(checkDate)
  gross := payroll.ComputeGrossPay(snapshot, employee, checkDate, schedule, false)

SEE ALSO:
  - effective.go: Effective-dated record resolution
  - rate.go:      Hourly-rate normalization and pay-period hours
  - grosspay.go:  Gross-pay computation
  - deadline.go:  Pacific-Time cancellation cutoff
*/
package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY UNITS AND FLSA STATUS
// =============================================================================

// PayUnit is the unit a compensation rate is expressed in.
type PayUnit string

const (
	UnitHour     PayUnit = "Hour"
	UnitWeek     PayUnit = "Week"
	UnitMonth    PayUnit = "Month"
	UnitYear     PayUnit = "Year"
	UnitPaycheck PayUnit = "Paycheck"
)

// FlsaStatus is the US wage-and-hour classification governing overtime
// eligibility.
type FlsaStatus string

const (
	FlsaExempt            FlsaStatus = "Exempt"
	FlsaNonexempt         FlsaStatus = "Nonexempt"
	FlsaSalariedNonexempt FlsaStatus = "Salaried Nonexempt"
)

// IsSalaried reports whether this status is paid on a salary basis.
func (s FlsaStatus) IsSalaried() bool {
	return s == FlsaExempt || s == FlsaSalariedNonexempt
}

// =============================================================================
// EFFECTIVE-DATED COMPENSATION RECORDS
// =============================================================================

// MinimumWage is an effective-dated wage floor scoped to a single
// compensation record.
type MinimumWage struct {
	Wage          decimal.Decimal
	EffectiveDate time.Time
}

// JobCompensation is one entry in a job's compensation time series.
// A zero EffectiveDate sorts as the epoch (earliest).
type JobCompensation struct {
	Rate                 decimal.Decimal
	PaymentUnit          PayUnit
	FlsaStatus           FlsaStatus
	EffectiveDate        time.Time
	AdjustForMinimumWage bool
	MinimumWages         []MinimumWage
}

// Job belongs to an employee and carries its compensation history.
type Job struct {
	UUID          string
	Title         string
	Primary       bool
	Compensations []JobCompensation
}

// Employee owns one or more jobs.
type Employee struct {
	UUID      string
	FirstName string
	LastName  string
	Jobs      []Job
}

// PrimaryJob returns the job flagged primary, falling back to the first
// job when no flag is set. Nil if the employee has no jobs.
func (e *Employee) PrimaryJob() *Job {
	if e == nil || len(e.Jobs) == 0 {
		return nil
	}
	for i := range e.Jobs {
		if e.Jobs[i].Primary {
			return &e.Jobs[i]
		}
	}
	return &e.Jobs[0]
}

// JobByUUID returns the employee's job with the given UUID, or nil.
func (e *Employee) JobByUUID(uuid string) *Job {
	if e == nil {
		return nil
	}
	for i := range e.Jobs {
		if e.Jobs[i].UUID == uuid {
			return &e.Jobs[i]
		}
	}
	return nil
}

// =============================================================================
// RUN SNAPSHOT - per payroll run, per employee
// =============================================================================

// HourlyCompensation is one hourly line in the run snapshot. Premium
// buckets (overtime, double overtime) carry a multiplier > 1.
type HourlyCompensation struct {
	Name                   string
	JobUUID                string
	Hours                  decimal.Decimal
	CompensationMultiplier decimal.Decimal
}

// FixedCompensation is a flat-amount line (bonus, commission, tips,
// reimbursement) in the run snapshot.
type FixedCompensation struct {
	Name    string
	Amount  decimal.Decimal
	JobUUID string
}

// PaidTimeOff is a PTO line in the run snapshot. FinalPayoutUnusedHours
// is the banked-hours payout input, honored only on off-cycle runs.
type PaidTimeOff struct {
	Name                   string
	Hours                  decimal.Decimal
	FinalPayoutUnusedHours *decimal.Decimal
}

// EmployeeCompensation is the ephemeral per-run snapshot for one
// employee. It is recomputed each time a payroll is prepared and is
// never persisted by this package.
type EmployeeCompensation struct {
	EmployeeUUID        string
	Excluded            bool
	HourlyCompensations []HourlyCompensation
	FixedCompensations  []FixedCompensation
	PaidTimeOff         []PaidTimeOff
}

// =============================================================================
// PAY SCHEDULE
// =============================================================================

type PayFrequency string

const (
	FrequencyDaily       PayFrequency = "Daily"
	FrequencyWeekly      PayFrequency = "Weekly"
	FrequencyBiweekly    PayFrequency = "Biweekly"
	FrequencySemiMonthly PayFrequency = "Semimonthly"
	FrequencyMonthly     PayFrequency = "Monthly"
	FrequencyQuarterly   PayFrequency = "Quarterly"
	FrequencySemiAnnual  PayFrequency = "Semiannually"
	FrequencyAnnual      PayFrequency = "Annually"
)

// PaySchedule describes how often a group of employees is paid.
type PaySchedule struct {
	UUID      string
	Name      string
	Frequency PayFrequency
}

// =============================================================================
// PAYROLL RUN
// =============================================================================

// PayrollStatusMeta carries server-side status hints for a run.
// Cancellable is a tri-state: nil means "not stated", and only an
// explicit false vetoes cancellation.
type PayrollStatusMeta struct {
	Cancellable *bool
}

// PayrollRun is the lifecycle record the cancellability rule consumes.
type PayrollRun struct {
	UUID            string
	PayScheduleUUID string
	OffCycle        bool
	Processed       bool
	CheckDate       time.Time
	PayPeriodStart  time.Time
	PayPeriodEnd    time.Time
	PayrollDeadline *time.Time
	StatusMeta      PayrollStatusMeta
}

// =============================================================================
// WELL-KNOWN LINE NAMES
// =============================================================================
// The snapshot identifies special lines by name. Matching is
// case-insensitive: upstream systems disagree on capitalization.

const (
	LineRegularHours          = "regular hours"
	LineReimbursement         = "reimbursement"
	LineMinimumWageAdjustment = "minimum wage adjustment"
	LinePaycheckTips          = "paycheck tips"
	LineCashTips              = "cash tips"
)

func isLine(name, wellKnown string) bool {
	return strings.EqualFold(strings.TrimSpace(name), wellKnown)
}
