package domain

import "time"

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

type Event struct {
	ID           int32       `json:"id"`
	OrgID        int32       `json:"org_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Location     string      `json:"location"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	Capacity     int32       `json:"capacity"`
	Registered   int32       `json:"registered"` // Must track len(Participants)
	Participants []int32     `json:"participants"`
	Status       EventStatus `json:"status"`
	CreatedOn    time.Time   `json:"created_on"`
}
