package core

const (
	// ReminderInactive: the owner switched the reminder off.
	ReminderInactive ReminderState = "inactive"
	// ReminderPending: active, inside its month window and not yet
	// executed this month. The only state that allows execution.
	ReminderPending ReminderState = "pending"
	// ReminderExecuted: already confirmed for the current month.
	ReminderExecuted ReminderState = "executed-this-month"
	// ReminderExpired: active but the current month lies outside
	// [StartMonth, EndMonth].
	ReminderExpired ReminderState = "expired"
)

type ReminderState string

// StateAt derives the reminder state for the given month.
func (r Reminder) StateAt(current Month) ReminderState {
	if !r.Active {
		return ReminderInactive
	}
	if current.Before(r.StartMonth) || current.After(r.EndMonth) {
		return ReminderExpired
	}
	if r.LastExecuted == current {
		return ReminderExecuted
	}
	return ReminderPending
}
