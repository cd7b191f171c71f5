package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/ports"
)

// PostgresRepository persists finished reports into Postgres. The
// versioned report and metadata are stored as JSON; tree metrics are
// denormalized into columns for index listings.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ReportStore = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveReport upserts the report snapshot keyed by report id.
func (r *PostgresRepository) SaveReport(ctx context.Context, record domain.ReportRecord) error {
	if r.db == nil {
		return nil
	}

	reportJSON, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := r.builder.
		Insert("reports").
		Columns("report_id", "title", "status", "report_json", "metadata_json",
			"num_topics", "num_subtopics", "num_claims", "num_people").
		Values(record.ID, record.Title, record.Status, reportJSON, metadataJSON,
			record.NumTopics, record.NumSubtopics, record.NumClaims, record.NumPeople).
		Suffix(`ON CONFLICT (report_id) DO UPDATE
            SET title = EXCLUDED.title,
                status = EXCLUDED.status,
                report_json = EXCLUDED.report_json,
                metadata_json = EXCLUDED.metadata_json,
                num_topics = EXCLUDED.num_topics,
                num_subtopics = EXCLUDED.num_subtopics,
                num_claims = EXCLUDED.num_claims,
                num_people = EXCLUDED.num_people,
                updated_at = NOW()`)

	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("upsert report %s: %w", record.ID, err)
	}
	return nil
}

// FinishedReports returns a map with the report ids that already have a
// successful run persisted.
func (r *PostgresRepository) FinishedReports(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query := r.builder.
		Select("report_id").
		From("reports").
		Where(sq.Expr("report_id = ANY(?)", pq.StringArray(ids))).
		Where(sq.Eq{"status": "ok"})

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query finished reports: %w", err)
	}

	finished := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan report id: %w", err)
		}
		finished[id] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}
	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return finished, nil
}
