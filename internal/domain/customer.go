package domain

import "time"

// Customer owns accounts and holds the PIN used to authorize debits.
// PINHash is a bcrypt hash and never leaves the service.
type Customer struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	Email     string
	Phone     string
	PINHash   string
}
