package domain

import "time"

type RecipientType string

const (
	RecipientOrganization RecipientType = "organization"
	RecipientStudent      RecipientType = "student"
)

type Notification struct {
	ID            int32             `json:"id"`
	RecipientType RecipientType     `json:"recipient_type"`
	RecipientID   int32             `json:"recipient_id"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	IsRead        bool              `json:"is_read"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	CreatedOn     time.Time         `json:"created_on"`
}

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusDelivered OutboxStatus = "delivered"
	OutboxStatusFailed    OutboxStatus = "failed" // Retries exhausted
)

// OutboxMessage is a notification intent written in the same transaction as
// the state change that triggered it. A background dispatcher delivers it.
type OutboxMessage struct {
	ID            int64             `json:"id"`
	RecipientType RecipientType     `json:"recipient_type"`
	RecipientID   int32             `json:"recipient_id"`
	Title         string            `json:"title"`
	Message       string            `json:"message"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Status        OutboxStatus      `json:"status"`
	Attempts      int32             `json:"attempts"`
	LastError     string            `json:"last_error,omitempty"`
	CreatedOn     time.Time         `json:"created_on"`
	DeliveredOn   *time.Time        `json:"delivered_on,omitempty"`
}
