package rows

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// JSONLoader reads a JSON array of source rows.
type JSONLoader struct{}

// Name implements Loader.
func (JSONLoader) Name() string { return "json" }

// Load decodes the row array and checks the mandatory fields.
func (JSONLoader) Load(ctx context.Context, r io.Reader) ([]domain.SourceRow, error) {
	var parsed []domain.SourceRow
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return checkRows(parsed)
}

// CSVLoader reads rows from a CSV file whose header carries the
// already-mapped column names: id, comment, interview, video,
// timestamp.
type CSVLoader struct{}

// Name implements Loader.
func (CSVLoader) Name() string { return "csv" }

// Load parses the header, then maps each record into a source row.
func (CSVLoader) Load(ctx context.Context, r io.Reader) ([]domain.SourceRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["id"]; !ok {
		return nil, fmt.Errorf("header is missing id column")
	}
	if _, ok := columns["comment"]; !ok {
		return nil, fmt.Errorf("header is missing comment column")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var parsed []domain.SourceRow
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		parsed = append(parsed, domain.SourceRow{
			ID:        field(record, "id"),
			Comment:   field(record, "comment"),
			Interview: field(record, "interview"),
			Video:     field(record, "video"),
			Timestamp: field(record, "timestamp"),
		})
	}
	return checkRows(parsed)
}

func checkRows(parsed []domain.SourceRow) ([]domain.SourceRow, error) {
	for i, row := range parsed {
		if row.ID == "" {
			return nil, fmt.Errorf("row %d has no id", i)
		}
		if row.Comment == "" {
			return nil, fmt.Errorf("row %s has no comment", row.ID)
		}
	}
	return parsed, nil
}
