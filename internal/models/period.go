package models

import "time"

// AccountingPeriod mirrors the accounting_periods table.
type AccountingPeriod struct {
	PeriodID         string    `json:"periodID"` // Primary Key (UUID)
	TenantID         string    `json:"tenantID"`
	Name             string    `json:"name"`
	FiscalYear       int       `json:"fiscalYear"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Status           string    `json:"status"`
	PreviousPeriodID *string   `json:"previousPeriodID,omitempty"`
	NextPeriodID     *string   `json:"nextPeriodID,omitempty"`
	RowVersion       int64     `json:"rowVersion"`
	AuditFields
}

// PeriodTransition mirrors the period_transitions audit table.
type PeriodTransition struct {
	TransitionID string    `json:"transitionID"` // Primary Key (UUID)
	PeriodID     string    `json:"periodID"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
	Reason       string    `json:"reason"`
	ActorUserID  string    `json:"actorUserID"`
	OccurredAt   time.Time `json:"occurredAt"`
}
