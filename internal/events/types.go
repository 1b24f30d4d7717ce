// Package events provides the in-process event bus used to notify listeners
// (websocket clients, jobs) about imports, reports and job failures.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	ElectionImported EventType = "ELECTION_IMPORTED"
	ElectionDeleted  EventType = "ELECTION_DELETED"
	ReportComputed   EventType = "REPORT_COMPUTED"
	ReportsPublished EventType = "REPORTS_PUBLISHED"
	JobFailed        EventType = "JOB_FAILED"
)

// AllEventTypes lists every type a stream subscriber can ask for.
var AllEventTypes = []EventType{
	ElectionImported,
	ElectionDeleted,
	ReportComputed,
	ReportsPublished,
	JobFailed,
}

// Event represents a system event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data,omitempty"`
}
