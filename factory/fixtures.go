/*
Package factory provides JSON to Go payroll fixture conversion.

PURPOSE:
  Converts JSON employee, snapshot, and run definitions into payroll
  package types. The embedding application exchanges payroll data as
  JSON (decimal-string rates, ISO dates); this factory is the single
  place that shape is parsed and validated, so the core package can
  work with already-typed values.

WHY JSON?
  - Matches the wire shape upstream payroll providers emit
  - Demo scenarios and tests are defined as data, not code
  - Database storage of fixture payloads (see store/sqlite)

JSON SCHEMA (employee):
  {
    "uuid": "emp-1",
    "first_name": "Dana",
    "last_name": "Reyes",
    "jobs": [
      {
        "uuid": "job-1",
        "title": "Server",
        "primary": true,
        "compensations": [
          {
            "rate": "22.00",
            "payment_unit": "Hour",
            "flsa_status": "Nonexempt",
            "effective_date": "2024-01-01",
            "adjust_for_minimum_wage": false,
            "minimum_wages": [
              {"wage": "7.25", "effective_date": "2009-07-24"}
            ]
          }
        ]
      }
    ]
  }

VALIDATION:
  Decimal strings and dates are validated here and rejected with
  errors. The core itself is total; the factory is the boundary where
  malformed input is allowed to fail loudly.

SEE ALSO:
  - payroll/types.go: Target types
  - store/sqlite:     Persists these JSON payloads
  - api/scenarios.go: Demo fixtures built from this schema
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

const dateLayout = "2006-01-02"

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// EmployeeJSON is the JSON representation of an employee with jobs and
// compensation history.
type EmployeeJSON struct {
	UUID      string    `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Jobs      []JobJSON `json:"jobs,omitempty"`
}

type JobJSON struct {
	UUID          string             `json:"uuid"`
	Title         string             `json:"title,omitempty"`
	Primary       bool               `json:"primary,omitempty"`
	Compensations []CompensationJSON `json:"compensations,omitempty"`
}

type CompensationJSON struct {
	Rate                 string            `json:"rate"`
	PaymentUnit          string            `json:"payment_unit"`
	FlsaStatus           string            `json:"flsa_status"`
	EffectiveDate        string            `json:"effective_date,omitempty"`
	AdjustForMinimumWage bool              `json:"adjust_for_minimum_wage,omitempty"`
	MinimumWages         []MinimumWageJSON `json:"minimum_wages,omitempty"`
}

type MinimumWageJSON struct {
	Wage          string `json:"wage"`
	EffectiveDate string `json:"effective_date,omitempty"`
}

// SnapshotJSON is the per-run, per-employee compensation snapshot.
type SnapshotJSON struct {
	EmployeeUUID        string       `json:"employee_uuid"`
	Excluded            bool         `json:"excluded,omitempty"`
	HourlyCompensations []HourlyJSON `json:"hourly_compensations,omitempty"`
	FixedCompensations  []FixedJSON  `json:"fixed_compensations,omitempty"`
	PaidTimeOff         []PTOJSON    `json:"paid_time_off,omitempty"`
}

type HourlyJSON struct {
	Name                   string `json:"name"`
	JobUUID                string `json:"job_uuid,omitempty"`
	Hours                  string `json:"hours"`
	CompensationMultiplier string `json:"compensation_multiplier,omitempty"`
}

type FixedJSON struct {
	Name    string `json:"name"`
	Amount  string `json:"amount"`
	JobUUID string `json:"job_uuid,omitempty"`
}

type PTOJSON struct {
	Name                   string  `json:"name"`
	Hours                  string  `json:"hours"`
	FinalPayoutUnusedHours *string `json:"final_payout_unused_hours_input,omitempty"`
}

// =============================================================================
// FIXTURE FACTORY
// =============================================================================

// FixtureFactory converts JSON payroll fixtures to Go structs.
type FixtureFactory struct{}

// NewFixtureFactory creates a new fixture factory.
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

// ParseEmployee parses a JSON string into an Employee.
func (f *FixtureFactory) ParseEmployee(jsonStr string) (*payroll.Employee, error) {
	var ej EmployeeJSON
	if err := json.Unmarshal([]byte(jsonStr), &ej); err != nil {
		return nil, fmt.Errorf("failed to parse employee JSON: %w", err)
	}
	return f.EmployeeFromJSON(ej)
}

// EmployeeFromJSON converts EmployeeJSON to a payroll.Employee.
func (f *FixtureFactory) EmployeeFromJSON(ej EmployeeJSON) (*payroll.Employee, error) {
	emp := &payroll.Employee{
		UUID:      ej.UUID,
		FirstName: ej.FirstName,
		LastName:  ej.LastName,
	}

	for _, jj := range ej.Jobs {
		job := payroll.Job{
			UUID:    jj.UUID,
			Title:   jj.Title,
			Primary: jj.Primary,
		}
		for _, cj := range jj.Compensations {
			comp, err := compensationFromJSON(cj)
			if err != nil {
				return nil, fmt.Errorf("job %s: %w", jj.UUID, err)
			}
			job.Compensations = append(job.Compensations, comp)
		}
		emp.Jobs = append(emp.Jobs, job)
	}

	return emp, nil
}

// ParseSnapshot parses a JSON string into an EmployeeCompensation.
func (f *FixtureFactory) ParseSnapshot(jsonStr string) (payroll.EmployeeCompensation, error) {
	var sj SnapshotJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return payroll.EmployeeCompensation{}, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}
	return f.SnapshotFromJSON(sj)
}

// SnapshotFromJSON converts SnapshotJSON to a payroll.EmployeeCompensation.
func (f *FixtureFactory) SnapshotFromJSON(sj SnapshotJSON) (payroll.EmployeeCompensation, error) {
	snapshot := payroll.EmployeeCompensation{
		EmployeeUUID: sj.EmployeeUUID,
		Excluded:     sj.Excluded,
	}

	for _, hj := range sj.HourlyCompensations {
		hours, err := parseDecimal(hj.Hours, "hours")
		if err != nil {
			return snapshot, err
		}
		multiplier := decimal.NewFromInt(1)
		if hj.CompensationMultiplier != "" {
			multiplier, err = parseDecimal(hj.CompensationMultiplier, "compensation_multiplier")
			if err != nil {
				return snapshot, err
			}
		}
		snapshot.HourlyCompensations = append(snapshot.HourlyCompensations, payroll.HourlyCompensation{
			Name:                   hj.Name,
			JobUUID:                hj.JobUUID,
			Hours:                  hours,
			CompensationMultiplier: multiplier,
		})
	}

	for _, fj := range sj.FixedCompensations {
		amount, err := parseDecimal(fj.Amount, "amount")
		if err != nil {
			return snapshot, err
		}
		snapshot.FixedCompensations = append(snapshot.FixedCompensations, payroll.FixedCompensation{
			Name:    fj.Name,
			Amount:  amount,
			JobUUID: fj.JobUUID,
		})
	}

	for _, pj := range sj.PaidTimeOff {
		hours, err := parseDecimal(pj.Hours, "hours")
		if err != nil {
			return snapshot, err
		}
		pto := payroll.PaidTimeOff{Name: pj.Name, Hours: hours}
		if pj.FinalPayoutUnusedHours != nil {
			payout, err := parseDecimal(*pj.FinalPayoutUnusedHours, "final_payout_unused_hours_input")
			if err != nil {
				return snapshot, err
			}
			pto.FinalPayoutUnusedHours = &payout
		}
		snapshot.PaidTimeOff = append(snapshot.PaidTimeOff, pto)
	}

	return snapshot, nil
}

// =============================================================================
// ROUND-TRIP SERIALIZATION
// =============================================================================

// ToJSON converts an Employee back to its JSON representation.
func (f *FixtureFactory) ToJSON(emp *payroll.Employee) EmployeeJSON {
	ej := EmployeeJSON{
		UUID:      emp.UUID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
	}
	for _, job := range emp.Jobs {
		jj := JobJSON{UUID: job.UUID, Title: job.Title, Primary: job.Primary}
		for _, comp := range job.Compensations {
			cj := CompensationJSON{
				Rate:                 comp.Rate.String(),
				PaymentUnit:          string(comp.PaymentUnit),
				FlsaStatus:           string(comp.FlsaStatus),
				AdjustForMinimumWage: comp.AdjustForMinimumWage,
			}
			if !comp.EffectiveDate.IsZero() {
				cj.EffectiveDate = comp.EffectiveDate.Format(dateLayout)
			}
			for _, mw := range comp.MinimumWages {
				mj := MinimumWageJSON{Wage: mw.Wage.String()}
				if !mw.EffectiveDate.IsZero() {
					mj.EffectiveDate = mw.EffectiveDate.Format(dateLayout)
				}
				cj.MinimumWages = append(cj.MinimumWages, mj)
			}
			jj.Compensations = append(jj.Compensations, cj)
		}
		ej.Jobs = append(ej.Jobs, jj)
	}
	return ej
}

// SnapshotToJSON converts an EmployeeCompensation back to its JSON
// representation.
func (f *FixtureFactory) SnapshotToJSON(snapshot payroll.EmployeeCompensation) SnapshotJSON {
	sj := SnapshotJSON{
		EmployeeUUID: snapshot.EmployeeUUID,
		Excluded:     snapshot.Excluded,
	}
	for _, hc := range snapshot.HourlyCompensations {
		sj.HourlyCompensations = append(sj.HourlyCompensations, HourlyJSON{
			Name:                   hc.Name,
			JobUUID:                hc.JobUUID,
			Hours:                  hc.Hours.String(),
			CompensationMultiplier: hc.CompensationMultiplier.String(),
		})
	}
	for _, fc := range snapshot.FixedCompensations {
		sj.FixedCompensations = append(sj.FixedCompensations, FixedJSON{
			Name:    fc.Name,
			Amount:  fc.Amount.String(),
			JobUUID: fc.JobUUID,
		})
	}
	for _, pto := range snapshot.PaidTimeOff {
		pj := PTOJSON{Name: pto.Name, Hours: pto.Hours.String()}
		if pto.FinalPayoutUnusedHours != nil {
			s := pto.FinalPayoutUnusedHours.String()
			pj.FinalPayoutUnusedHours = &s
		}
		sj.PaidTimeOff = append(sj.PaidTimeOff, pj)
	}
	return sj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func compensationFromJSON(cj CompensationJSON) (payroll.JobCompensation, error) {
	comp := payroll.JobCompensation{
		AdjustForMinimumWage: cj.AdjustForMinimumWage,
	}

	rate, err := parseDecimal(cj.Rate, "rate")
	if err != nil {
		return comp, err
	}
	comp.Rate = rate

	unit, err := parsePayUnit(cj.PaymentUnit)
	if err != nil {
		return comp, err
	}
	comp.PaymentUnit = unit

	status, err := parseFlsaStatus(cj.FlsaStatus)
	if err != nil {
		return comp, err
	}
	comp.FlsaStatus = status

	if cj.EffectiveDate != "" {
		comp.EffectiveDate, err = time.Parse(dateLayout, cj.EffectiveDate)
		if err != nil {
			return comp, fmt.Errorf("invalid effective_date %q: %w", cj.EffectiveDate, err)
		}
	}

	for _, mj := range cj.MinimumWages {
		wage, err := parseDecimal(mj.Wage, "wage")
		if err != nil {
			return comp, err
		}
		mw := payroll.MinimumWage{Wage: wage}
		if mj.EffectiveDate != "" {
			mw.EffectiveDate, err = time.Parse(dateLayout, mj.EffectiveDate)
			if err != nil {
				return comp, fmt.Errorf("invalid minimum wage effective_date %q: %w", mj.EffectiveDate, err)
			}
		}
		comp.MinimumWages = append(comp.MinimumWages, mw)
	}

	return comp, nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}

func parsePayUnit(s string) (payroll.PayUnit, error) {
	switch payroll.PayUnit(s) {
	case payroll.UnitHour, payroll.UnitWeek, payroll.UnitMonth, payroll.UnitYear, payroll.UnitPaycheck:
		return payroll.PayUnit(s), nil
	default:
		return "", fmt.Errorf("unknown payment_unit %q", s)
	}
}

func parseFlsaStatus(s string) (payroll.FlsaStatus, error) {
	switch payroll.FlsaStatus(s) {
	case payroll.FlsaExempt, payroll.FlsaNonexempt, payroll.FlsaSalariedNonexempt:
		return payroll.FlsaStatus(s), nil
	default:
		return "", fmt.Errorf("unknown flsa_status %q", s)
	}
}

// ParseFrequency validates a pay-schedule frequency string.
func ParseFrequency(s string) (payroll.PayFrequency, error) {
	switch payroll.PayFrequency(s) {
	case payroll.FrequencyDaily, payroll.FrequencyWeekly, payroll.FrequencyBiweekly,
		payroll.FrequencySemiMonthly, payroll.FrequencyMonthly, payroll.FrequencyQuarterly,
		payroll.FrequencySemiAnnual, payroll.FrequencyAnnual:
		return payroll.PayFrequency(s), nil
	default:
		return "", fmt.Errorf("unknown pay frequency %q", s)
	}
}
