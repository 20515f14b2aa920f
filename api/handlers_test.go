/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Gross-pay preview over a run (PreviewRun)
- Run cancellability in responses (CreateRun / GetRun)
- Effective compensation resolution with ?date= (GetEffectiveCompensation)
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doRequest(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	NewRouter(h).ServeHTTP(rec, req)
	return rec
}

func TestPreviewRun_HourlyWorker(t *testing.T) {
	// GIVEN: A loaded hourly-worker scenario
	// WHEN: Requesting the run preview over HTTP
	// THEN: One row with gross pay 880.00 and a matching total

	handler := setupTestHandler(t)
	if err := handler.loadHourlyWorkerScenario(context.Background()); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	rec := doRequest(t, handler, http.MethodGet, "/api/runs/run-1/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var preview PreviewDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &preview); err != nil {
		t.Fatalf("Failed to decode preview: %v", err)
	}
	if len(preview.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(preview.Rows))
	}
	if preview.Rows[0].GrossPay != "880.00" {
		t.Errorf("Expected gross pay 880.00, got %s", preview.Rows[0].GrossPay)
	}
	if preview.Total != "880.00" {
		t.Errorf("Expected total 880.00, got %s", preview.Total)
	}
	if preview.Rows[0].Name != "Dana Reyes" {
		t.Errorf("Expected row name 'Dana Reyes', got %q", preview.Rows[0].Name)
	}
}

func TestPreviewRun_NotFound(t *testing.T) {
	handler := setupTestHandler(t)

	rec := doRequest(t, handler, http.MethodGet, "/api/runs/run-404/preview", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestCreateRun_CancellabilityInResponse(t *testing.T) {
	// GIVEN: A processed run with a deadline one day past the pinned clock
	// WHEN: Creating it over HTTP
	// THEN: The response reports it cancellable

	handler := setupTestHandler(t)

	body := `{
		"uuid": "run-api",
		"processed": true,
		"check_date": "2025-06-13",
		"payroll_deadline": "2025-06-11T19:00:00Z"
	}`
	rec := doRequest(t, handler, http.MethodPost, "/api/runs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var dto PayrollRunDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode run: %v", err)
	}
	if !dto.Cancellable {
		t.Error("Expected run to be cancellable before its deadline")
	}
}

func TestGetRun_PastDeadlineNotCancellable(t *testing.T) {
	// GIVEN: A processed run whose deadline's 4pm Pacific cutoff has passed
	// WHEN: Fetching it with a clock after the cutoff
	// THEN: Cancellable is false

	handler := setupTestHandler(t)

	body := `{
		"uuid": "run-late",
		"processed": true,
		"payroll_deadline": "2025-06-01T19:00:00Z"
	}`
	if rec := doRequest(t, handler, http.MethodPost, "/api/runs", body); rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	rec := doRequest(t, handler, http.MethodGet, "/api/runs/run-late", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var dto PayrollRunDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode run: %v", err)
	}
	if dto.Cancellable {
		t.Error("Expected run past its cutoff to not be cancellable")
	}
}

func TestCreateRun_ExplicitCancellableFalseWins(t *testing.T) {
	// GIVEN: A run marked cancellable=false despite an open deadline window
	// WHEN: Creating it
	// THEN: The explicit veto wins

	handler := setupTestHandler(t)

	body := `{
		"uuid": "run-veto",
		"processed": true,
		"payroll_deadline": "2025-06-11T19:00:00Z",
		"cancellable": false
	}`
	rec := doRequest(t, handler, http.MethodPost, "/api/runs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	var dto PayrollRunDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode run: %v", err)
	}
	if dto.Cancellable {
		t.Error("Expected explicit cancellable=false to veto the deadline window")
	}
}

func TestCreateEmployee_AndEffectiveCompensation(t *testing.T) {
	// GIVEN: An employee fixture with a raise effective 2025-06-01
	// WHEN: Resolving compensation before and after the raise
	// THEN: Each date sees its own rate

	handler := setupTestHandler(t)

	body := `{
		"uuid": "emp-api",
		"first_name": "Alex",
		"last_name": "Kim",
		"jobs": [{
			"uuid": "job-1",
			"title": "Server",
			"primary": true,
			"compensations": [
				{"rate": "22.00", "payment_unit": "Hour", "flsa_status": "Nonexempt", "effective_date": "2024-01-01"},
				{"rate": "25.00", "payment_unit": "Hour", "flsa_status": "Nonexempt", "effective_date": "2025-06-01"}
			]
		}]
	}`
	if rec := doRequest(t, handler, http.MethodPost, "/api/employees", body); rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	cases := []struct {
		date string
		rate string
	}{
		{"2025-05-31", "22"},
		{"2025-06-01", "25"},
	}
	for _, tc := range cases {
		rec := doRequest(t, handler, http.MethodGet, "/api/employees/emp-api/compensation?date="+tc.date, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 for %s, got %d", tc.date, rec.Code)
		}
		var dto CompensationDTO
		if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
			t.Fatalf("Failed to decode compensation: %v", err)
		}
		if dto.Rate != tc.rate {
			t.Errorf("Date %s: expected rate %s, got %s", tc.date, tc.rate, dto.Rate)
		}
	}
}

func TestCreateEmployee_RejectsInvalidFixture(t *testing.T) {
	handler := setupTestHandler(t)

	body := `{
		"uuid": "emp-bad",
		"jobs": [{
			"uuid": "job-1",
			"compensations": [{"rate": "not-a-number", "payment_unit": "Hour"}]
		}]
	}`
	rec := doRequest(t, handler, http.MethodPost, "/api/employees", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid rate, got %d", rec.Code)
	}
}

func TestLoadScenario_UnknownID(t *testing.T) {
	handler := setupTestHandler(t)

	rec := doRequest(t, handler, http.MethodPost, "/api/scenarios/load", `{"scenario_id":"does-not-exist"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scenario, got %d", rec.Code)
	}
}

func TestResetDatabase_ClearsScenario(t *testing.T) {
	// GIVEN: A loaded scenario
	// WHEN: Resetting over HTTP
	// THEN: Employees are gone and no current scenario is reported

	handler := setupTestHandler(t)
	if err := handler.loadHourlyWorkerScenario(context.Background()); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}
	handler.currentScenario = "hourly-worker"

	rec := doRequest(t, handler, http.MethodPost, "/api/scenarios/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if handler.currentScenario != "" {
		t.Errorf("Expected current scenario cleared, got %q", handler.currentScenario)
	}

	listRec := doRequest(t, handler, http.MethodGet, "/api/employees", "")
	var employees []EmployeeDTO
	if err := json.Unmarshal(listRec.Body.Bytes(), &employees); err != nil {
		t.Fatalf("Failed to decode employees: %v", err)
	}
	if len(employees) != 0 {
		t.Errorf("Expected no employees after reset, got %d", len(employees))
	}
}
