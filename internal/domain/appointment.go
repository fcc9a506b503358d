package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked time slot for the single chair
type Appointment struct {
	ID              string
	CustomerID      string
	Service         string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Status          AppointmentStatus

	// Single-use credential for the scheduled -> confirmed transition
	ConfirmationToken string

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
// (counted in overlap checks)
func (a *Appointment) IsActive() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeConfirmed returns true if confirming the appointment is a valid transition
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusScheduled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeCompleted returns true if the appointment can be marked completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusConfirmed
}

// IsTerminal returns true if no further transition is allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// AppointmentWithCustomer is an appointment joined with its owning customer,
// used by the admin listing
type AppointmentWithCustomer struct {
	Appointment
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
}
