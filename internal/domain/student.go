package domain

import "time"

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusDisabled StudentStatus = "disabled"
)

type Student struct {
	ID           int32         `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Status       StudentStatus `json:"status"`
	FollowedOrgs []int32       `json:"followed_orgs"`
	JoinedEvents []int32       `json:"joined_events"`
	Provider     AuthProvider  `json:"provider"`
	PasswordHash string        `json:"-"`
	GoogleID     string        `json:"-"`
	DeviceToken  string        `json:"-"`
	CreatedOn    time.Time     `json:"created_on"`
}
