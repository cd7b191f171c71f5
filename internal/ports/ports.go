package ports

import (
	"context"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/result"
)

// ProcessingService drives the external multi-stage LLM backend. Stage
// methods never panic past their boundary; failures come back inside
// the Result.
type ProcessingService interface {
	TopicTree(ctx context.Context, comments []domain.Comment) result.Result[domain.TopicTreeOut]
	Claims(ctx context.Context, comments []domain.Comment, tree domain.Taxonomy) result.Result[domain.ClaimsOut]
	SortClaimsTree(ctx context.Context, tree domain.Taxonomy) result.Result[domain.SortedTreeOut]
	Cruxes(ctx context.Context, comments []domain.Comment, tree domain.Taxonomy) result.Result[domain.CruxesOut]
	TopicSummaries(ctx context.Context, tree domain.Taxonomy) result.Result[domain.SummariesOut]
}

// ReportStore persists finished reports and their run metadata.
type ReportStore interface {
	SaveReport(ctx context.Context, record domain.ReportRecord) error
	FinishedReports(ctx context.Context, ids []string) (map[string]bool, error)
}

// Notifier publishes terminal pipeline statuses to external channels.
type Notifier interface {
	PublishStatus(ctx context.Context, status domain.PipelineStatus) error
}
