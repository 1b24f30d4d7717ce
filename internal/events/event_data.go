package events

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// ElectionImportedData contains data for ElectionImported events
type ElectionImportedData struct {
	ElectionID        string `json:"election_id"`
	Name              string `json:"name"`
	Candidates        int    `json:"candidates"`
	Ballots           int    `json:"ballots"`
	DuplicatesRemoved int    `json:"duplicates_removed"`
}

// EventType returns the event type for ElectionImportedData
func (d *ElectionImportedData) EventType() EventType {
	return ElectionImported
}

// ElectionDeletedData contains data for ElectionDeleted events
type ElectionDeletedData struct {
	ElectionID string `json:"election_id"`
}

// EventType returns the event type for ElectionDeletedData
func (d *ElectionDeletedData) EventType() EventType {
	return ElectionDeleted
}

// ReportComputedData contains data for ReportComputed events
type ReportComputedData struct {
	ElectionID string  `json:"election_id"`
	ReportID   string  `json:"report_id"`
	QVGini     float64 `json:"qv_gini"`
	OPOVGini   float64 `json:"opov_gini"`
	MoreEqual  string  `json:"more_equal"`
}

// EventType returns the event type for ReportComputedData
func (d *ReportComputedData) EventType() EventType {
	return ReportComputed
}

// ReportsPublishedData contains data for ReportsPublished events
type ReportsPublishedData struct {
	Uploaded int `json:"uploaded"`
	Deleted  int `json:"deleted"`
}

// EventType returns the event type for ReportsPublishedData
func (d *ReportsPublishedData) EventType() EventType {
	return ReportsPublished
}

// JobFailedData contains data for JobFailed events
type JobFailedData struct {
	Job   string `json:"job"`
	Error string `json:"error"`
}

// EventType returns the event type for JobFailedData
func (d *JobFailedData) EventType() EventType {
	return JobFailed
}
