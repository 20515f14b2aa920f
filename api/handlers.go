/*
handlers.go - HTTP API handlers for the payroll preview service

PURPOSE:
  Exposes the payroll computation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the store and
  the pure calculation layer.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List all employees
    POST   /api/employees                     Create employee from fixture JSON
    GET    /api/employees/{id}                Get employee details
    GET    /api/employees/{id}/compensation   Effective compensation for a date

  Schedules:
    POST   /api/schedules                     Create pay schedule

  Payroll runs:
    GET    /api/runs                          List runs with cancellability
    POST   /api/runs                          Create run
    GET    /api/runs/{id}                     Get run with cancellability
    POST   /api/runs/{id}/items               Add an employee snapshot
    GET    /api/runs/{id}/preview             Gross-pay preview, one row per employee

  Scenarios:
    GET    /api/scenarios                     List demo scenarios
    POST   /api/scenarios/load                Load a demo scenario
    POST   /api/scenarios/reset               Reset the database

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (the factory owns fixture validation)
  3. Call store / pure computation
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  Note the computation itself never errors: a preview over incomplete
  data returns zero rows/amounts, by design.

CLOCK:
  Cancellability depends on "now". The handler carries an injectable
  clock so tests can pin the instant; production uses time.Now.

SEE ALSO:
  - dto.go:       Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go:    Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.FixtureFactory

	// Now returns the current instant; replaced in tests.
	Now func() time.Time

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewFixtureFactory(),
		Now:     time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates an employee from a fixture payload.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UUID == "" {
		writeError(w, http.StatusBadRequest, "uuid is required", nil)
		return
	}

	emp, err := h.Factory.EmployeeFromJSON(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employee fixture", err)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEffectiveCompensation resolves the primary job's compensation for
// the date in the ?date= query parameter (default: today).
func (h *Handler) GetEffectiveCompensation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	at := h.Now()
	if ds := r.URL.Query().Get("date"); ds != "" {
		at, err = time.Parse("2006-01-02", ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	comp := emp.PrimaryJob().EffectiveCompensation(at)
	if comp == nil {
		writeError(w, http.StatusNotFound, "No compensation on record", nil)
		return
	}

	writeJSON(w, http.StatusOK, toCompensationDTO(comp))
}

// =============================================================================
// PAY SCHEDULE HANDLERS
// =============================================================================

// CreateSchedule creates a pay schedule.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	frequency, err := factory.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid frequency", err)
		return
	}

	schedule := payroll.PaySchedule{UUID: req.UUID, Name: req.Name, Frequency: frequency}
	if err := h.Store.SavePaySchedule(r.Context(), schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// PAYROLL RUN HANDLERS
// =============================================================================

// ListRuns returns all payroll runs with computed cancellability.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListPayrollRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	now := h.Now()
	dtos := make([]PayrollRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toPayrollRunDTO(run, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns a single payroll run with computed cancellability.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetPayrollRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Payroll run not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, toPayrollRunDTO(*run, h.Now()))
}

// CreateRun creates a payroll run.
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UUID == "" {
		writeError(w, http.StatusBadRequest, "uuid is required", nil)
		return
	}

	run := payroll.PayrollRun{
		UUID:            req.UUID,
		PayScheduleUUID: req.PayScheduleUUID,
		OffCycle:        req.OffCycle,
		Processed:       req.Processed,
		StatusMeta:      payroll.PayrollStatusMeta{Cancellable: req.Cancellable},
	}

	if req.CheckDate != "" {
		checkDate, err := time.Parse("2006-01-02", req.CheckDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid check_date format (use YYYY-MM-DD)", err)
			return
		}
		run.CheckDate = checkDate
	}
	if req.PayrollDeadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.PayrollDeadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid payroll_deadline format (use RFC3339)", err)
			return
		}
		run.PayrollDeadline = &deadline
	}

	if err := h.Store.SavePayrollRun(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create run", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPayrollRunDTO(run, h.Now()))
}

// AddRunItem attaches one employee's compensation snapshot to a run.
func (h *Handler) AddRunItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetPayrollRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Payroll run not found", nil)
		return
	}

	var req factory.SnapshotJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeUUID == "" {
		writeError(w, http.StatusBadRequest, "employee_uuid is required", nil)
		return
	}

	snapshot, err := h.Factory.SnapshotFromJSON(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
		return
	}

	if err := h.Store.SaveSnapshot(r.Context(), id, snapshot); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save snapshot", err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

// PreviewRun computes the gross-pay preview for a run: one row per
// employee snapshot, plus the run total.
func (h *Handler) PreviewRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetPayrollRun(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Payroll run not found", nil)
		return
	}

	var schedule *payroll.PaySchedule
	if run.PayScheduleUUID != "" {
		schedule, err = h.Store.GetPaySchedule(ctx, run.PayScheduleUUID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to get pay schedule", err)
			return
		}
	}

	snapshots, err := h.Store.ListSnapshots(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	preview := PreviewDTO{
		RunUUID:  run.UUID,
		OffCycle: run.OffCycle,
		Rows:     []PreviewRowDTO{},
	}
	if !run.CheckDate.IsZero() {
		preview.CheckDate = run.CheckDate.Format("2006-01-02")
	}

	total := decimal.Zero
	for _, snapshot := range snapshots {
		emp, err := h.Store.GetEmployee(ctx, snapshot.EmployeeUUID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
			return
		}

		gross := payroll.ComputeGrossPay(snapshot, emp, run.CheckDate, schedule, run.OffCycle)
		total = total.Add(gross)

		row := PreviewRowDTO{
			EmployeeUUID: snapshot.EmployeeUUID,
			Excluded:     snapshot.Excluded,
			GrossPay:     gross.StringFixed(2),
		}
		if emp != nil {
			row.Name = emp.FirstName + " " + emp.LastName
		}
		preview.Rows = append(preview.Rows, row)
	}
	preview.Total = total.StringFixed(2)

	writeJSON(w, http.StatusOK, preview)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
