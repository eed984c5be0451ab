package domain

import "time"

// Activity is an append-only audit log entry. Records are never updated or
// deleted after creation.
type Activity struct {
	ID         int64     `json:"id"`
	Actor      string    `json:"actor"` // Email of the acting principal
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   int32     `json:"target_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}

// Well-known activity actions
const (
	ActivityRegistrationSubmitted = "registration_submitted"
	ActivityApprovalGranted       = "approval_granted"
	ActivityApprovalRejected      = "approval_rejected"
	ActivityResubmitted           = "resubmitted"
	ActivityResubmissionExpired   = "resubmission_expired"
	ActivityOrgSuspended          = "organization_suspended"
	ActivityOrgDeactivated        = "organization_deactivated"
	ActivityEventCreated          = "event_created"
)
