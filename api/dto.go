/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FORMATTING:
  Amounts cross the wire as fixed two-decimal strings ("880.00"), never
  as floats. The engine computes in decimals; serializing through
  float64 would reintroduce exactly the drift it avoids.

SEE ALSO:
  - handlers.go:         Uses these types
  - factory/fixtures.go: EmployeeJSON / SnapshotJSON payload shapes
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	UUID       string `json:"uuid"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PrimaryJob string `json:"primary_job,omitempty"`
	JobCount   int    `json:"job_count"`
}

// CompensationDTO represents a resolved effective compensation.
type CompensationDTO struct {
	Rate                 string `json:"rate"`
	PaymentUnit          string `json:"payment_unit"`
	FlsaStatus           string `json:"flsa_status"`
	HourlyRate           string `json:"hourly_rate"`
	EffectiveDate        string `json:"effective_date,omitempty"`
	AdjustForMinimumWage bool   `json:"adjust_for_minimum_wage"`
}

// PayrollRunDTO represents a payroll run with its computed
// cancellability.
type PayrollRunDTO struct {
	UUID            string `json:"uuid"`
	PayScheduleUUID string `json:"pay_schedule_uuid,omitempty"`
	OffCycle        bool   `json:"off_cycle"`
	Processed       bool   `json:"processed"`
	CheckDate       string `json:"check_date,omitempty"`
	PayrollDeadline string `json:"payroll_deadline,omitempty"`
	Cancellable     bool   `json:"cancellable"`
}

// CreateRunRequest is the request to create a payroll run.
type CreateRunRequest struct {
	UUID            string `json:"uuid"`
	PayScheduleUUID string `json:"pay_schedule_uuid,omitempty"`
	OffCycle        bool   `json:"off_cycle,omitempty"`
	Processed       bool   `json:"processed,omitempty"`
	CheckDate       string `json:"check_date,omitempty"`        // YYYY-MM-DD
	PayrollDeadline string `json:"payroll_deadline,omitempty"`  // RFC3339
	Cancellable     *bool  `json:"cancellable,omitempty"`
}

// CreateScheduleRequest is the request to create a pay schedule.
type CreateScheduleRequest struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name,omitempty"`
	Frequency string `json:"frequency"`
}

// PreviewRowDTO is one employee row of a payroll preview: the "Total
// pay" column an operator reviews before submitting.
type PreviewRowDTO struct {
	EmployeeUUID string `json:"employee_uuid"`
	Name         string `json:"name"`
	Excluded     bool   `json:"excluded"`
	GrossPay     string `json:"gross_pay"`
}

// PreviewDTO is the full payroll preview for a run.
type PreviewDTO struct {
	RunUUID   string          `json:"run_uuid"`
	CheckDate string          `json:"check_date,omitempty"`
	OffCycle  bool            `json:"off_cycle"`
	Rows      []PreviewRowDTO `json:"rows"`
	Total     string          `json:"total"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(emp *payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		UUID:      emp.UUID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		JobCount:  len(emp.Jobs),
	}
	if job := emp.PrimaryJob(); job != nil {
		dto.PrimaryJob = job.Title
	}
	return dto
}

func toCompensationDTO(comp *payroll.JobCompensation) CompensationDTO {
	dto := CompensationDTO{
		Rate:                 comp.Rate.String(),
		PaymentUnit:          string(comp.PaymentUnit),
		FlsaStatus:           string(comp.FlsaStatus),
		HourlyRate:           comp.HourlyRate().Round(6).String(),
		AdjustForMinimumWage: comp.AdjustForMinimumWage,
	}
	if !comp.EffectiveDate.IsZero() {
		dto.EffectiveDate = comp.EffectiveDate.Format("2006-01-02")
	}
	return dto
}

func toPayrollRunDTO(run payroll.PayrollRun, now time.Time) PayrollRunDTO {
	dto := PayrollRunDTO{
		UUID:            run.UUID,
		PayScheduleUUID: run.PayScheduleUUID,
		OffCycle:        run.OffCycle,
		Processed:       run.Processed,
		Cancellable:     payroll.CanCancel(run, now),
	}
	if !run.CheckDate.IsZero() {
		dto.CheckDate = run.CheckDate.Format("2006-01-02")
	}
	if run.PayrollDeadline != nil {
		dto.PayrollDeadline = run.PayrollDeadline.UTC().Format(time.RFC3339)
	}
	return dto
}
