package domain

import "time"

// PeriodStatus is the lifecycle state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen       PeriodStatus = "OPEN"
	PeriodSoftClosed PeriodStatus = "SOFT_CLOSED"
	PeriodHardClosed PeriodStatus = "HARD_CLOSED"
)

// AccountingPeriod represents a fiscal period window. Periods form a
// non-overlapping, gapless chronological chain per fiscal year. Status only
// moves forward (Open -> SoftClosed -> HardClosed); the single backward move
// is an audited Reopen of a soft-closed period.
type AccountingPeriod struct {
	PeriodID         string       `json:"periodID"` // Primary Key (UUID)
	TenantID         string       `json:"tenantID"`
	Name             string       `json:"name"` // e.g., "2026-01"
	FiscalYear       int          `json:"fiscalYear"`
	StartDate        time.Time    `json:"startDate"` // Inclusive, date only
	EndDate          time.Time    `json:"endDate"`   // Inclusive, date only
	Status           PeriodStatus `json:"status"`
	PreviousPeriodID *string      `json:"previousPeriodID,omitempty"`
	NextPeriodID     *string      `json:"nextPeriodID,omitempty"`
	RowVersion       int64        `json:"rowVersion"` // Optimistic concurrency token
	AuditFields
}

// Contains reports whether the given date falls inside the period window.
func (p AccountingPeriod) Contains(date time.Time) bool {
	d := date.UTC().Truncate(24 * time.Hour)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// AllowsPosting reports whether a posting is accepted under the current
// status. Soft-closed periods accept adjustment entries only.
func (p AccountingPeriod) AllowsPosting(isAdjustment bool) bool {
	switch p.Status {
	case PeriodOpen:
		return true
	case PeriodSoftClosed:
		return isAdjustment
	default:
		return false
	}
}

// CanTransitionTo reports whether the status may move to target. allowHardReopen
// permits the elevated HardClosed -> Open transition, which is off by default.
func (p AccountingPeriod) CanTransitionTo(target PeriodStatus, allowHardReopen bool) bool {
	switch p.Status {
	case PeriodOpen:
		return target == PeriodSoftClosed || target == PeriodHardClosed
	case PeriodSoftClosed:
		return target == PeriodHardClosed || target == PeriodOpen
	case PeriodHardClosed:
		return target == PeriodOpen && allowHardReopen
	}
	return false
}
