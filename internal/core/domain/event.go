package domain

import "time"

// ActivityAction names a lifecycle change recorded in the activity log.
type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionHidden  ActivityAction = "hidden"
)

// ActivityEvent records a change to a pizza for the audit trail.
type ActivityEvent struct {
	PizzaID    string
	OwnerID    string
	Name       string
	Action     ActivityAction
	OccurredAt time.Time
}
