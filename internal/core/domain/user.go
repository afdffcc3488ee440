package domain

import "time"

// User owns a private document corpus.
// Counters are maintained incrementally as records are added or cleared.
type User struct {
	// ID is the unique identifier.
	ID string

	// Name is the display name.
	Name string

	// Email is the unique contact address.
	Email string

	// CreatedAt is when the user was registered.
	CreatedAt time.Time

	// LastLogin is the most recent login, nil until the first one.
	LastLogin *time.Time

	// DocumentCount is the number of stored chunk records.
	DocumentCount int

	// TotalCharacters is the summed byte length of stored chunk records.
	TotalCharacters int
}
