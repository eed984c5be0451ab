package domain

import "time"

type AdminUser struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedOn    time.Time `json:"created_on"`
}
