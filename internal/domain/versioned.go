package domain

import (
	"encoding/json"
	"fmt"
)

// ReportVersion tags the at-rest JSON representation of reports and
// their metadata.
const ReportVersion = "v0.2"

// VersionedReport is the at-rest form of a report: a two-element JSON
// array ["v0.2", ReportDataObj].
type VersionedReport struct {
	Data ReportDataObj
}

// VersionedMetadata is the at-rest form of run metadata, versioned
// identically to the report itself.
type VersionedMetadata struct {
	Data ReportMetadataObj
}

// MarshalJSON encodes the report as ["v0.2", data].
func (v VersionedReport) MarshalJSON() ([]byte, error) {
	return marshalVersioned(v.Data)
}

// UnmarshalJSON decodes ["v0.2", data], rejecting unknown versions.
func (v *VersionedReport) UnmarshalJSON(raw []byte) error {
	return unmarshalVersioned(raw, &v.Data)
}

// MarshalJSON encodes the metadata as ["v0.2", data].
func (v VersionedMetadata) MarshalJSON() ([]byte, error) {
	return marshalVersioned(v.Data)
}

// UnmarshalJSON decodes ["v0.2", data], rejecting unknown versions.
func (v *VersionedMetadata) UnmarshalJSON(raw []byte) error {
	return unmarshalVersioned(raw, &v.Data)
}

func marshalVersioned(data any) ([]byte, error) {
	return json.Marshal([]any{ReportVersion, data})
}

func unmarshalVersioned(raw []byte, out any) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return fmt.Errorf("versioned envelope: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("versioned envelope: expected 2 elements, got %d", len(parts))
	}

	var version string
	if err := json.Unmarshal(parts[0], &version); err != nil {
		return fmt.Errorf("versioned envelope version: %w", err)
	}
	if version != ReportVersion {
		return fmt.Errorf("unsupported report version %q", version)
	}

	if err := json.Unmarshal(parts[1], out); err != nil {
		return fmt.Errorf("versioned envelope payload: %w", err)
	}
	return nil
}
