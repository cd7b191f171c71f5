package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/assembly"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/ports"
)

// PipelineDeps wires all driven adapters into the report pipeline.
type PipelineDeps struct {
	Service  ports.ProcessingService
	Store    ports.ReportStore
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline drives the sequential processing stages for one report and
// assembles their output into the canonical document. Stages are never
// parallelized against each other within a run; separate runs may
// execute concurrently.
type Pipeline struct {
	service  ports.ProcessingService
	store    ports.ReportStore
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		service:  deps.Service,
		store:    deps.Store,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// RunRequest carries everything needed for one report run.
type RunRequest struct {
	ReportID     string
	Title        string
	Description  string
	Author       string
	Organization string
	Rows         []domain.SourceRow
}

// RunSummary is the terminal outcome of a run.
type RunSummary struct {
	Status   string
	Report   domain.ReportDataObj
	Metadata domain.ReportMetadataObj
}

// Run executes topic_tree → claims → sort_claims_tree → cruxes →
// topic_summaries, assembles the report, persists it, and publishes
// the terminal status. Any stage failure aborts the run with a status
// distinguishing the failure kind.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	start := time.Now()
	logger := p.logger.With("report", req.ReportID)

	if len(req.Rows) == 0 {
		return p.fail(ctx, req, start, fmt.Errorf("no input rows"))
	}
	comments := domain.CommentsFromRows(req.Rows)
	totalCost := 0.0

	logger.Info("starting pipeline", "rows", len(req.Rows))

	topicTree, err := p.service.TopicTree(ctx, comments).Unwrap()
	if err != nil {
		return p.fail(ctx, req, start, fmt.Errorf("topic tree stage: %w", err))
	}
	totalCost += topicTree.Cost

	claims, err := p.service.Claims(ctx, comments, topicTree.Tree).Unwrap()
	if err != nil {
		return p.fail(ctx, req, start, fmt.Errorf("claims stage: %w", err))
	}
	totalCost += claims.Cost

	sorted, err := p.service.SortClaimsTree(ctx, claims.Tree).Unwrap()
	if err != nil {
		return p.fail(ctx, req, start, fmt.Errorf("sort stage: %w", err))
	}
	totalCost += sorted.Cost

	cruxes, err := p.service.Cruxes(ctx, comments, sorted.Tree).Unwrap()
	if err != nil {
		return p.fail(ctx, req, start, fmt.Errorf("cruxes stage: %w", err))
	}
	totalCost += cruxes.Cost

	summaries, err := p.service.TopicSummaries(ctx, sorted.Tree).Unwrap()
	if err != nil {
		return p.fail(ctx, req, start, fmt.Errorf("summaries stage: %w", err))
	}
	totalCost += summaries.Cost

	report, err := assembly.Assemble(assembly.Input{
		Title:       req.Title,
		Description: req.Description,
		Rows:        req.Rows,
		Tree:        sorted.Tree,
		Summaries:   summaries.Summaries,
		Cruxes:      cruxes.Cruxes,
	})
	if err != nil {
		return p.fail(ctx, req, start, err)
	}

	metadata := domain.ReportMetadataObj{
		StartTimestamp: start.UnixMilli(),
		Duration:       time.Since(start).Milliseconds(),
		TotalCost:      totalCost,
		Author:         req.Author,
		Organization:   req.Organization,
	}

	if p.store != nil {
		record := domain.ReportRecord{
			ID:           req.ReportID,
			Title:        req.Title,
			Status:       StatusOK,
			Report:       domain.VersionedReport{Data: report},
			Metadata:     domain.VersionedMetadata{Data: metadata},
			NumTopics:    assembly.TopicCount(report.Topics),
			NumSubtopics: assembly.SubtopicCount(report.Topics),
			NumClaims:    assembly.ClaimCount(report.Topics),
			NumPeople:    assembly.PeopleCountFromReport(report),
		}
		if err := p.store.SaveReport(ctx, record); err != nil {
			return p.fail(ctx, req, start, fmt.Errorf("persist report: %w", err))
		}
	}

	p.publish(ctx, req.ReportID, StatusOK, "")
	logger.Info("pipeline finished",
		"duration", time.Since(start).Round(time.Millisecond),
		"topics", len(report.Topics),
		"cost", totalCost)

	return RunSummary{Status: StatusOK, Report: report, Metadata: metadata}, nil
}

func (p *Pipeline) fail(ctx context.Context, req RunRequest, start time.Time, err error) (RunSummary, error) {
	status := StatusFor(err)
	p.logger.Error("pipeline failed",
		"report", req.ReportID,
		"status", status,
		"duration", time.Since(start).Round(time.Millisecond),
		"error", err)
	p.publish(ctx, req.ReportID, status, err.Error())
	return RunSummary{Status: status}, err
}

func (p *Pipeline) publish(ctx context.Context, reportID, status, message string) {
	if p.notifier == nil {
		return
	}
	notice := domain.PipelineStatus{
		ReportID:   reportID,
		Status:     status,
		Message:    message,
		FinishedAt: time.Now(),
	}
	if err := p.notifier.PublishStatus(ctx, notice); err != nil {
		p.logger.Warn("publish status", "report", reportID, "error", err)
	}
}
