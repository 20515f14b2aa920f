/*
effective.go - Effective-dated record resolution

PURPOSE:
  Compensation rates and minimum wages are time series: each record is
  valid from its effective date until superseded by a later one. This
  file implements the single resolution rule both histories share, so
  the two call sites can never silently diverge.

RESOLUTION RULE:
  Given a non-empty set of records and a reference date:
  1. Sort ascending by effective date (zero date sorts as the epoch)
  2. Return the latest record whose date is on or before the reference
  3. If every record is dated after the reference, return the earliest

  Given non-empty input the resolver always returns a record. An
  employee hired with a future-dated raise still has to be paid
  something, so the earliest record is the fallback, not an error.

USAGE:
  comp := job.EffectiveCompensation(checkDate)
  wage := comp.EffectiveMinimumWage(checkDate)

SEE ALSO:
  - grosspay.go: Both call sites
*/
package payroll

import (
	"sort"
	"time"
)

// =============================================================================
// GENERIC RESOLVER
// =============================================================================

// EffectiveRecord resolves the record applicable at the reference date.
// The input slice is not modified. ok is false only for empty input.
func EffectiveRecord[T any](records []T, at time.Time, effectiveDate func(T) time.Time) (record T, ok bool) {
	if len(records) == 0 {
		return record, false
	}

	sorted := make([]T, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return effectiveDate(sorted[i]).Before(effectiveDate(sorted[j]))
	})

	// Walk from the latest record back to the first one not after the
	// reference date.
	for i := len(sorted) - 1; i >= 0; i-- {
		if !effectiveDate(sorted[i]).After(at) {
			return sorted[i], true
		}
	}

	// All records are future-dated: fall back to the earliest.
	return sorted[0], true
}

// =============================================================================
// DOMAIN CALL SITES
// =============================================================================

// EffectiveCompensation resolves the job's compensation applicable at
// the reference date. Nil if the job is nil or has no history.
func (j *Job) EffectiveCompensation(at time.Time) *JobCompensation {
	if j == nil {
		return nil
	}
	comp, ok := EffectiveRecord(j.Compensations, at, func(c JobCompensation) time.Time {
		return c.EffectiveDate
	})
	if !ok {
		return nil
	}
	return &comp
}

// EffectiveMinimumWage resolves the minimum wage applicable at the
// reference date from the floors scoped to this compensation. Nil if
// the compensation is nil or carries no minimum-wage history.
func (c *JobCompensation) EffectiveMinimumWage(at time.Time) *MinimumWage {
	if c == nil {
		return nil
	}
	wage, ok := EffectiveRecord(c.MinimumWages, at, func(w MinimumWage) time.Time {
		return w.EffectiveDate
	})
	if !ok {
		return nil
	}
	return &wage
}
