package core

import "testing"

func TestReminderStateAt(t *testing.T) {
	base := Reminder{
		Name:          "Rent",
		Amount:        Money{Cents: 950_00},
		Category:      "Rent",
		PaidBy:        "Asha",
		PaymentMethod: BankTransfer,
		StartMonth:    "2025-01",
		EndMonth:      "2025-03",
		Active:        true,
	}

	tests := []struct {
		name         string
		active       bool
		lastExecuted Month
		current      Month
		want         ReminderState
	}{
		{"in window, never executed", true, "", "2025-02", ReminderPending},
		{"first month of window", true, "", "2025-01", ReminderPending},
		{"last month of window", true, "", "2025-03", ReminderPending},
		{"executed this month", true, "2025-02", "2025-02", ReminderExecuted},
		{"executed last month, new month", true, "2025-01", "2025-02", ReminderPending},
		{"after window", true, "", "2025-04", ReminderExpired},
		{"before window", true, "", "2024-12", ReminderExpired},
		{"deactivated", false, "", "2025-02", ReminderInactive},
		{"deactivated wins over executed", false, "2025-02", "2025-02", ReminderInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			r.Active = tt.active
			r.LastExecuted = tt.lastExecuted
			if got := r.StateAt(tt.current); got != tt.want {
				t.Errorf("StateAt(%s) = %s, want %s", tt.current, got, tt.want)
			}
		})
	}
}
