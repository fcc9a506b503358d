package domain

import "time"

// Customer represents a client identified by email.
// Records are immutable after creation: repeated bookings with the same
// email reuse the first-seen name and phone.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     *string
	CreatedAt time.Time
}
