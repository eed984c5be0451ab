package domain

import "time"

type OrgStatus string

const (
	OrgStatusPending   OrgStatus = "pending"
	OrgStatusActive    OrgStatus = "active"
	OrgStatusSuspended OrgStatus = "suspended"
	OrgStatusInactive  OrgStatus = "inactive"
)

type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type Organization struct {
	ID           int32        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Description  string       `json:"description"`
	President    string       `json:"president"`
	Founded      string       `json:"founded"`
	Members      int32        `json:"members"`
	Website      string       `json:"website"`
	SocialMedia  string       `json:"social_media"`
	Status       OrgStatus    `json:"status"`
	Followers    int32        `json:"followers"` // Count of net-followed students
	FileURL      string       `json:"verification_file_url,omitempty"`
	Provider     AuthProvider `json:"provider"`
	PasswordHash string       `json:"-"`
	GoogleID     string       `json:"-"`
	DeviceToken  string       `json:"-"`
	CreatedOn    time.Time    `json:"created_on"`
}
