package model

import "time"

// User mirrors the identity issued by the auth provider. The ID is the
// provider's subject claim and is never generated locally.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
