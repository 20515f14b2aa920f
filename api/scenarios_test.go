/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Employees are created
	- Schedule and run are created
	- Snapshots are attached
	- The preview totals match the amounts each scenario demonstrates

These tests double as integration tests over store + factory + engine.
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store)
	handler.Now = func() time.Time {
		return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	}
	return handler
}

// previewTotal recomputes the run's preview total the way PreviewRun does.
func previewTotal(t *testing.T, h *Handler, runUUID string) string {
	t.Helper()
	ctx := context.Background()

	run, err := h.Store.GetPayrollRun(ctx, runUUID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run == nil {
		t.Fatalf("Run %s not found", runUUID)
	}

	var schedule *payroll.PaySchedule
	if run.PayScheduleUUID != "" {
		schedule, err = h.Store.GetPaySchedule(ctx, run.PayScheduleUUID)
		if err != nil {
			t.Fatalf("Failed to get schedule: %v", err)
		}
	}

	snapshots, err := h.Store.ListSnapshots(ctx, runUUID)
	if err != nil {
		t.Fatalf("Failed to list snapshots: %v", err)
	}
	if len(snapshots) == 0 {
		t.Fatal("Expected at least one snapshot")
	}

	total := payroll.ComputeGrossPay(snapshots[0], mustEmployee(t, h, snapshots[0].EmployeeUUID), run.CheckDate, schedule, run.OffCycle)
	for _, snapshot := range snapshots[1:] {
		total = total.Add(payroll.ComputeGrossPay(snapshot, mustEmployee(t, h, snapshot.EmployeeUUID), run.CheckDate, schedule, run.OffCycle))
	}
	return total.StringFixed(2)
}

func mustEmployee(t *testing.T, h *Handler, uuid string) *payroll.Employee {
	t.Helper()
	emp, err := h.Store.GetEmployee(context.Background(), uuid)
	if err != nil {
		t.Fatalf("Failed to get employee %s: %v", uuid, err)
	}
	return emp
}

func TestScenario_HourlyWorker(t *testing.T) {
	// GIVEN: Hourly worker scenario
	// WHEN: Loading the scenario
	// THEN: 40 hours at 22.00 previews as 880.00

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadHourlyWorkerScenario(ctx); err != nil {
		t.Fatalf("Failed to load hourly-worker scenario: %v", err)
	}

	employees, err := handler.Store.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("Failed to list employees: %v", err)
	}
	if len(employees) != 1 {
		t.Errorf("Expected 1 employee, got %d", len(employees))
	}

	if got := previewTotal(t, handler, "run-1"); got != "880.00" {
		t.Errorf("Expected preview total 880.00, got %s", got)
	}
}

func TestScenario_MultiJobOvertime(t *testing.T) {
	// GIVEN: Two concurrent hourly jobs (30h @ 20, 10h @ 30, 10h OT @ 1.5x)
	// WHEN: Loading the scenario
	// THEN: The overtime premium uses the 24.00 blended rate:
	//       1200 straight + 10 * 24 * 0.5 = 1320.00

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadMultiJobOvertimeScenario(ctx); err != nil {
		t.Fatalf("Failed to load multi-job-overtime scenario: %v", err)
	}

	if got := previewTotal(t, handler, "run-1"); got != "1320.00" {
		t.Errorf("Expected preview total 1320.00, got %s", got)
	}
}

func TestScenario_TippedMinimumWage(t *testing.T) {
	// GIVEN: 20 hours at the 2.13 tipped cash wage plus 50.00 in tips
	// WHEN: Loading the scenario
	// THEN: 42.60 wage + 50.00 tips + 52.40 top-up = 145.00

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadTippedMinimumWageScenario(ctx); err != nil {
		t.Fatalf("Failed to load tipped-minimum-wage scenario: %v", err)
	}

	if got := previewTotal(t, handler, "run-1"); got != "145.00" {
		t.Errorf("Expected preview total 145.00, got %s", got)
	}
}

func TestScenario_SalariedPTO(t *testing.T) {
	// GIVEN: 52000/year exempt salary, biweekly, 16 PTO hours
	// WHEN: Loading the scenario
	// THEN: PTO is carved out of the salary, so the total stays 2000.00

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadSalariedPTOScenario(ctx); err != nil {
		t.Fatalf("Failed to load salaried-pto scenario: %v", err)
	}

	if got := previewTotal(t, handler, "run-1"); got != "2000.00" {
		t.Errorf("Expected preview total 2000.00, got %s", got)
	}
}

func TestScenario_OffCyclePayout(t *testing.T) {
	// GIVEN: Off-cycle run with 40 banked unused hours at 22.00
	// WHEN: Loading the scenario
	// THEN: The payout previews as 880.00

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadOffCyclePayoutScenario(ctx); err != nil {
		t.Fatalf("Failed to load off-cycle-payout scenario: %v", err)
	}

	run, err := handler.Store.GetPayrollRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run == nil || !run.OffCycle {
		t.Fatal("Expected an off-cycle run")
	}

	if got := previewTotal(t, handler, "run-1"); got != "880.00" {
		t.Errorf("Expected preview total 880.00, got %s", got)
	}
}

func TestScenario_RunsAreCancellableAtLoadTime(t *testing.T) {
	// GIVEN: Any loaded scenario
	// WHEN: Checking cancellability against the handler clock
	// THEN: The seeded deadline (clock + 24h) leaves the window open

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadHourlyWorkerScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	run, err := handler.Store.GetPayrollRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if !payroll.CanCancel(*run, handler.Now()) {
		t.Error("Expected freshly seeded run to be cancellable")
	}
}

func TestScenario_FixturesRoundTripThroughFactory(t *testing.T) {
	// GIVEN: A scenario-seeded employee
	// WHEN: Serializing and re-parsing through the fixture factory
	// THEN: The domain object survives unchanged

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.loadTippedMinimumWageScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	emp := mustEmployee(t, handler, "emp-maria")
	if emp == nil {
		t.Fatal("Employee emp-maria not found")
	}

	f := factory.NewFixtureFactory()
	reparsed, err := f.EmployeeFromJSON(f.ToJSON(emp))
	if err != nil {
		t.Fatalf("Failed to re-parse fixture: %v", err)
	}
	if reparsed.UUID != emp.UUID || len(reparsed.Jobs) != len(emp.Jobs) {
		t.Errorf("Fixture round trip changed the employee: %+v vs %+v", reparsed, emp)
	}
}
