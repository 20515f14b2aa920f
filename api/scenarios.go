/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	payroll data. Each scenario creates employees, a pay schedule, a run,
	and per-employee snapshots that demonstrate one calculation path.

AVAILABLE SCENARIOS:

	hourly-worker:       One hourly employee, regular hours only
	multi-job-overtime:  Two concurrent hourly jobs with blended overtime
	tipped-minimum-wage: Tipped cash wage topped up to the wage floor
	salaried-pto:        Exempt salary with PTO carved out of the period
	off-cycle-payout:    Dismissal run paying out banked unused PTO

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees with compensation history
 3. Create a pay schedule and payroll run
 4. Attach snapshots (hours, fixed earnings, PTO)
 5. GET /api/runs/{id}/preview shows the computed amounts

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "multi-job-overtime"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - payroll/grosspay.go: The computation the scenarios exercise
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "hourly-worker",
		Name:        "Hourly Worker",
		Description: "40 regular hours at 22.00/hour on a weekly schedule",
	},
	{
		ID:          "multi-job-overtime",
		Name:        "Multi-Job Overtime",
		Description: "Two concurrent hourly jobs; overtime premium on the blended rate",
	},
	{
		ID:          "tipped-minimum-wage",
		Name:        "Tipped Minimum Wage",
		Description: "2.13/hour cash wage with tips, topped up to the 7.25 floor",
	},
	{
		ID:          "salaried-pto",
		Name:        "Salaried with PTO",
		Description: "Exempt salary on a biweekly schedule; PTO carved out of the period",
	},
	{
		ID:          "off-cycle-payout",
		Name:        "Off-Cycle PTO Payout",
		Description: "Dismissal payroll paying out banked unused PTO hours",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "hourly-worker":
		err = h.loadHourlyWorkerScenario(ctx)
	case "multi-job-overtime":
		err = h.loadMultiJobOvertimeScenario(ctx)
	case "tipped-minimum-wage":
		err = h.loadTippedMinimumWageScenario(ctx)
	case "salaried-pto":
		err = h.loadSalariedPTOScenario(ctx)
	case "off-cycle-payout":
		err = h.loadOffCyclePayoutScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// FIXTURE HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func hourlyComp(rate string, effective time.Time) payroll.JobCompensation {
	return payroll.JobCompensation{
		Rate:          dec(rate),
		PaymentUnit:   payroll.UnitHour,
		FlsaStatus:    payroll.FlsaNonexempt,
		EffectiveDate: effective,
	}
}

func regularLine(jobUUID, hours string) payroll.HourlyCompensation {
	return payroll.HourlyCompensation{
		Name:                   "Regular Hours",
		JobUUID:                jobUUID,
		Hours:                  dec(hours),
		CompensationMultiplier: dec("1"),
	}
}

// seedRun stores a weekly-style schedule and a processed run whose
// cancellation window is still open relative to the handler clock.
func (h *Handler) seedRun(ctx context.Context, frequency payroll.PayFrequency, offCycle bool) error {
	if err := h.Store.SavePaySchedule(ctx, payroll.PaySchedule{
		UUID: "ps-1", Name: "Demo Schedule", Frequency: frequency,
	}); err != nil {
		return err
	}

	deadline := h.Now().Add(24 * time.Hour)
	return h.Store.SavePayrollRun(ctx, payroll.PayrollRun{
		UUID:            "run-1",
		PayScheduleUUID: "ps-1",
		OffCycle:        offCycle,
		Processed:       true,
		CheckDate:       day(2025, time.June, 13),
		PayPeriodStart:  day(2025, time.June, 2),
		PayPeriodEnd:    day(2025, time.June, 8),
		PayrollDeadline: &deadline,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadHourlyWorkerScenario: the simplest path. Preview total: 880.00.
func (h *Handler) loadHourlyWorkerScenario(ctx context.Context) error {
	emp := &payroll.Employee{
		UUID: "emp-dana", FirstName: "Dana", LastName: "Reyes",
		Jobs: []payroll.Job{{
			UUID: "job-1", Title: "Server", Primary: true,
			Compensations: []payroll.JobCompensation{hourlyComp("22.00", day(2024, time.January, 1))},
		}},
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedRun(ctx, payroll.FrequencyWeekly, false); err != nil {
		return err
	}

	return h.Store.SaveSnapshot(ctx, "run-1", payroll.EmployeeCompensation{
		EmployeeUUID:        "emp-dana",
		HourlyCompensations: []payroll.HourlyCompensation{regularLine("job-1", "40.000")},
	})
}

// loadMultiJobOvertimeScenario: overtime premium must use the 24.00
// blended rate, not the 30.00 job rate. Preview total: 1320.00.
func (h *Handler) loadMultiJobOvertimeScenario(ctx context.Context) error {
	emp := &payroll.Employee{
		UUID: "emp-kai", FirstName: "Kai", LastName: "Tanaka",
		Jobs: []payroll.Job{
			{
				UUID: "job-front", Title: "Front Desk", Primary: true,
				Compensations: []payroll.JobCompensation{hourlyComp("20", day(2024, time.January, 1))},
			},
			{
				UUID: "job-tech", Title: "AV Technician",
				Compensations: []payroll.JobCompensation{hourlyComp("30", day(2024, time.January, 1))},
			},
		},
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedRun(ctx, payroll.FrequencyWeekly, false); err != nil {
		return err
	}

	return h.Store.SaveSnapshot(ctx, "run-1", payroll.EmployeeCompensation{
		EmployeeUUID: "emp-kai",
		HourlyCompensations: []payroll.HourlyCompensation{
			regularLine("job-front", "30"),
			{Name: "Second Job Hours", JobUUID: "job-tech", Hours: dec("10"), CompensationMultiplier: dec("1")},
			{Name: "Overtime", JobUUID: "job-tech", Hours: dec("10"), CompensationMultiplier: dec("1.5")},
		},
	})
}

// loadTippedMinimumWageScenario: the fixture behind the tip-credit
// numbers. Preview total: 145.00 (42.60 wage + 50.00 tips + 52.40 top-up).
func (h *Handler) loadTippedMinimumWageScenario(ctx context.Context) error {
	comp := hourlyComp("2.13", day(2024, time.January, 1))
	comp.AdjustForMinimumWage = true
	comp.MinimumWages = []payroll.MinimumWage{
		{Wage: dec("7.25"), EffectiveDate: day(2009, time.July, 24)},
	}

	emp := &payroll.Employee{
		UUID: "emp-maria", FirstName: "Maria", LastName: "Santos",
		Jobs: []payroll.Job{{
			UUID: "job-1", Title: "Server", Primary: true,
			Compensations: []payroll.JobCompensation{comp},
		}},
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedRun(ctx, payroll.FrequencyWeekly, false); err != nil {
		return err
	}

	return h.Store.SaveSnapshot(ctx, "run-1", payroll.EmployeeCompensation{
		EmployeeUUID:        "emp-maria",
		HourlyCompensations: []payroll.HourlyCompensation{regularLine("job-1", "20")},
		FixedCompensations: []payroll.FixedCompensation{
			{Name: "Paycheck Tips", Amount: dec("50.00")},
		},
	})
}

// loadSalariedPTOScenario: PTO is carved out of the salary, so the
// preview total equals straight salary. Preview total: 2000.00.
func (h *Handler) loadSalariedPTOScenario(ctx context.Context) error {
	emp := &payroll.Employee{
		UUID: "emp-sam", FirstName: "Sam", LastName: "Okafor",
		Jobs: []payroll.Job{{
			UUID: "job-1", Title: "Designer", Primary: true,
			Compensations: []payroll.JobCompensation{{
				Rate:          dec("52000"),
				PaymentUnit:   payroll.UnitYear,
				FlsaStatus:    payroll.FlsaExempt,
				EffectiveDate: day(2024, time.January, 1),
			}},
		}},
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedRun(ctx, payroll.FrequencyBiweekly, false); err != nil {
		return err
	}

	return h.Store.SaveSnapshot(ctx, "run-1", payroll.EmployeeCompensation{
		EmployeeUUID:        "emp-sam",
		HourlyCompensations: []payroll.HourlyCompensation{regularLine("job-1", "80")},
		PaidTimeOff:         []payroll.PaidTimeOff{{Name: "Vacation", Hours: dec("16")}},
	})
}

// loadOffCyclePayoutScenario: off-cycle dismissal run paying out 40
// banked hours at 22.00. Preview total: 880.00.
func (h *Handler) loadOffCyclePayoutScenario(ctx context.Context) error {
	emp := &payroll.Employee{
		UUID: "emp-dana", FirstName: "Dana", LastName: "Reyes",
		Jobs: []payroll.Job{{
			UUID: "job-1", Title: "Server", Primary: true,
			Compensations: []payroll.JobCompensation{hourlyComp("22.00", day(2024, time.January, 1))},
		}},
	}
	if err := h.Store.SaveEmployee(ctx, emp); err != nil {
		return err
	}
	if err := h.seedRun(ctx, payroll.FrequencyWeekly, true); err != nil {
		return err
	}

	payout := dec("40")
	return h.Store.SaveSnapshot(ctx, "run-1", payroll.EmployeeCompensation{
		EmployeeUUID: "emp-dana",
		PaidTimeOff: []payroll.PaidTimeOff{
			{Name: "Vacation", Hours: dec("0"), FinalPayoutUnusedHours: &payout},
		},
	})
}
