package models

import "time"

// Profile is the locally known account of the signed-in user
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session identifies the owner whose habits the store operates on
type Session struct {
	OwnerID string
	Email   string
}

func (p Profile) Session() Session {
	return Session{OwnerID: p.ID, Email: p.Email}
}
