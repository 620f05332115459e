package domain

import "time"

type ID string

// User is the credential-store record. PasswordHash never crosses the API
// boundary; read-facing projections use Public.
type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Public is the outward projection of a user, hash excluded.
type Public struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Public() Public {
	return Public{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
	}
}
