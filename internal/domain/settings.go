package domain

import "time"

// Settings is the platform-wide toggle set. Exactly one row exists in storage.
type Settings struct {
	AllowRegistration bool      `json:"allow_registration"`
	RequireApproval   bool      `json:"require_approval"`
	MaintenanceMode   bool      `json:"maintenance_mode"`
	MaxFileSizeMB     int64     `json:"max_file_size_mb"`
	UpdatedOn         time.Time `json:"updated_on"`
}
