package domain

import "time"

// Stage outputs returned by the processing service, already stripped of
// wire envelopes. Cost is the per-stage LLM spend reported by the
// service and is summed into ReportMetadataObj.TotalCost.

// TopicTreeOut is the extracted topic/subtopic skeleton.
type TopicTreeOut struct {
	Tree Taxonomy
	Cost float64
}

// ClaimsOut is the taxonomy populated with extracted claims.
type ClaimsOut struct {
	Tree Taxonomy
	Cost float64
}

// SortedTreeOut is the deduplicated taxonomy with duplicates nested
// under their canonical claims.
type SortedTreeOut struct {
	Tree Taxonomy
	Cost float64
}

// CruxesOut carries the controversy analysis for the report's addOns.
type CruxesOut struct {
	Cruxes []CruxClaim
	Cost   float64
}

// SummariesOut maps topic names to their generated summaries.
type SummariesOut struct {
	Summaries map[string]string
	Cost      float64
}

// ReportRecord is what the store persists per pipeline run, including
// the tree metrics attached to index records.
type ReportRecord struct {
	ID           string
	Title        string
	Status       string
	Report       VersionedReport
	Metadata     VersionedMetadata
	NumTopics    int
	NumSubtopics int
	NumClaims    int
	NumPeople    int
}

// PipelineStatus is the terminal outcome published to notifiers.
type PipelineStatus struct {
	ReportID   string    `json:"reportId"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}
