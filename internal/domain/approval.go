package domain

import "time"

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
	ApprovalStatusExpired  ApprovalStatus = "expired" // Resubmission window lapsed
)

type ApprovalType string

const (
	ApprovalTypeOrganization ApprovalType = "organization"
	ApprovalTypeEvent        ApprovalType = "event"
)

// RegistrationData is the snapshot of the submitted registration form. It is
// copied onto the Organization record when the approval is granted.
type RegistrationData struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	President   string `json:"president"`
	Founded     string `json:"founded"`
	Members     int32  `json:"members"`
	Website     string `json:"website"`
	SocialMedia string `json:"social_media"`
}

// VerificationFile holds the metadata of an uploaded verification document
type VerificationFile struct {
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// RejectionDetails is present only after a rejection. It is deliberately kept
// on the record across a resubmission so reviewers see the prior feedback.
type RejectionDetails struct {
	Reason               string     `json:"reason"`
	AllowResubmission    bool       `json:"allow_resubmission"`
	ResubmissionDeadline *time.Time `json:"resubmission_deadline,omitempty"`
	RejectedAt           time.Time  `json:"rejected_at"`
	RejectedBy           string     `json:"rejected_by"`
}

// Approval is a review ticket for an organization (or event) registration.
// One approval maps to one Organization by shared email; OrgID is stamped
// once the approval is granted.
type Approval struct {
	ID               int32             `json:"id"`
	Type             ApprovalType      `json:"type"`
	Status           ApprovalStatus    `json:"status"`
	Email            string            `json:"email"`
	OrgID            *int32            `json:"org_id,omitempty"`
	RegistrationData RegistrationData  `json:"registration_data"`
	VerificationFile *VerificationFile `json:"verification_file,omitempty"`
	RejectionDetails *RejectionDetails `json:"rejection_details,omitempty"`
	SubmittedOn      time.Time         `json:"submitted_on"`
	UpdatedOn        time.Time         `json:"updated_on"`
}

type ReviewItemKind string

const (
	ReviewItemPending      ReviewItemKind = "pending"
	ReviewItemSuspendedOrg ReviewItemKind = "suspended"
)

// ReviewItem is the tagged union the admin review list is built from: either
// an open approval ticket or a suspended organization awaiting a decision.
// Exactly one of Approval/Organization is set, per Kind.
type ReviewItem struct {
	Kind         ReviewItemKind `json:"kind"`
	Approval     *Approval      `json:"approval,omitempty"`
	Organization *Organization  `json:"organization,omitempty"`
}

// ReviewStats are the aggregate counts shown on the admin dashboard
type ReviewStats struct {
	Pending   int32 `json:"pending"`
	Approved  int32 `json:"approved"`
	Rejected  int32 `json:"rejected"`
	Suspended int32 `json:"suspended"`
}
