/*
deadline.go - Pacific-Time cancellation cutoff for processed runs

PURPOSE:
  A processed payroll run can be cancelled until 4:00 PM Pacific Time
  on its deadline's calendar date (the date of the deadline expressed
  in Pacific Time). This file decides whether that window is still
  open.

WHY A HAND-ROLLED DST RULE:
  The result must be identical on every host, including machines with
  no timezone database and machines in other timezones. So instead of
  time.LoadLocation("America/Los_Angeles"), the US Pacific rule is
  encoded directly: DST runs from the second Sunday in March through
  the first Sunday in November; offset is UTC-7 during DST, UTC-8
  otherwise.

CONTRACT:
  CanCancel returns false when:
  - the run's status meta says cancellable=false (explicit veto)
  - the run is not yet processed
  - the run has no deadline
  - "now" in PT has reached or passed the 4:00 PM cutoff

SEE ALSO:
  - types.go: PayrollRun, PayrollStatusMeta
*/
package payroll

import (
	"time"
)

// cancelCutoffHour is the PT wall-clock hour after which a processed
// run can no longer be cancelled.
const cancelCutoffHour = 16

var (
	pacificStandard = time.FixedZone("PST", -8*60*60)
	pacificDaylight = time.FixedZone("PDT", -7*60*60)
)

// CanCancel reports whether a processed payroll run may still be
// cancelled at the given instant. Pure: depends only on its arguments.
func CanCancel(run PayrollRun, now time.Time) bool {
	if run.StatusMeta.Cancellable != nil && !*run.StatusMeta.Cancellable {
		return false
	}
	if !run.Processed {
		return false
	}
	if run.PayrollDeadline == nil {
		return false
	}

	nowPT := ToPacific(now)
	deadlinePT := ToPacific(*run.PayrollDeadline)
	cutoff := time.Date(deadlinePT.Year(), deadlinePT.Month(), deadlinePT.Day(),
		cancelCutoffHour, 0, 0, 0, deadlinePT.Location())

	return nowPT.Before(cutoff)
}

// =============================================================================
// PACIFIC TIME CONVERSION
// =============================================================================

// ToPacific converts an instant to US Pacific Time using the fixed DST
// rule above, with no reliance on the host timezone database.
func ToPacific(t time.Time) time.Time {
	// Decide DST from the Pacific standard-time calendar date, then
	// re-express in the matching fixed zone.
	standard := t.In(pacificStandard)
	if IsPacificDST(standard) {
		return t.In(pacificDaylight)
	}
	return standard
}

// IsPacificDST reports whether the given calendar date falls in the US
// daylight-saving window: from the second Sunday of March (inclusive)
// through the first Sunday of November (exclusive).
func IsPacificDST(t time.Time) bool {
	start := nthSunday(t.Year(), time.March, 2)
	end := nthSunday(t.Year(), time.November, 1)
	date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(start) && date.Before(end)
}

// nthSunday returns midnight UTC of the nth Sunday of the given month.
func nthSunday(year int, month time.Month, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Sunday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}
