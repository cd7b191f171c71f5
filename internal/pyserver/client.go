// Package pyserver is the HTTP client for the external multi-stage LLM
// processing service. Step clients run through the retry engine with a
// health-probe gate; schema failures are never retried.
package pyserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/config"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/ports"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/result"
	"github.com/AIObjectives/tttc-light-js-sub001/internal/retry"
)

// Stage names, matching the processing-service endpoints.
const (
	StageTopicTree      = "topic_tree"
	StageClaims         = "claims"
	StageSortClaimsTree = "sort_claims_tree"
	StageCruxes         = "cruxes"
	StageTopicSummaries = "topic_summaries"
)

// Client talks to one processing-service deployment. It owns a pooled
// keep-alive HTTP client per base URL and carries no per-report mutable
// state, so it is safe for concurrent report runs.
var _ ports.ProcessingService = (*Client)(nil)

type Client struct {
	baseURL  string
	apiKey   string
	model    string
	userID   string
	reportID string
	retry    retry.Options
	http     *http.Client
	logger   *slog.Logger
}

// New builds a client from configuration. The long per-request timeout
// lives in the retry options' operation ceiling, not on the HTTP
// client, so health probes can still fail fast on their own contexts.
func New(cfg config.PyServerConfig, retryOpts retry.Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	retryOpts.Logger = logger

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		userID:  cfg.UserID,
		retry:   retryOpts,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// WithReport returns a shallow copy bound to a report id for
// correlation headers. The underlying connection pool is shared.
func (c *Client) WithReport(reportID string) *Client {
	clone := *c
	clone.reportID = reportID
	return &clone
}

// Close flushes pooled connections on shutdown.
func (c *Client) Close() {
	if c.http != nil {
		c.http.CloseIdleConnections()
	}
}

// TopicTree extracts the topic/subtopic skeleton from the comments.
func (c *Client) TopicTree(ctx context.Context, comments []domain.Comment) result.Result[domain.TopicTreeOut] {
	req := topicTreeRequest{LLM: c.llm(), Comments: comments}
	res := runStep(ctx, c, StageTopicTree, http.MethodPost, "/topic_tree", req, validateTopicTree)

	resp, err := res.Unwrap()
	if err != nil {
		return result.Err[domain.TopicTreeOut](err)
	}
	return result.Ok(domain.TopicTreeOut{Tree: resp.Data.Taxonomy, Cost: resp.Cost})
}

// Claims populates the taxonomy with extracted claims.
func (c *Client) Claims(ctx context.Context, comments []domain.Comment, tree domain.Taxonomy) result.Result[domain.ClaimsOut] {
	req := claimsRequest{LLM: c.llm(), Comments: comments, Tree: tree}
	res := runStep(ctx, c, StageClaims, http.MethodPost, "/claims", req, validateClaimsTree)

	resp, err := res.Unwrap()
	if err != nil {
		return result.Err[domain.ClaimsOut](err)
	}
	return result.Ok(domain.ClaimsOut{Tree: resp.Data.Tree, Cost: resp.Cost})
}

// SortClaimsTree deduplicates and orders the claims tree by volume.
func (c *Client) SortClaimsTree(ctx context.Context, tree domain.Taxonomy) result.Result[domain.SortedTreeOut] {
	req := sortRequest{Tree: tree, Sort: "numPeople"}
	res := runStep(ctx, c, StageSortClaimsTree, http.MethodPut, "/sort_claims_tree", req, validateClaimsTree)

	resp, err := res.Unwrap()
	if err != nil {
		return result.Err[domain.SortedTreeOut](err)
	}
	return result.Ok(domain.SortedTreeOut{Tree: resp.Data.Tree, Cost: resp.Cost})
}

// Cruxes runs the controversy analysis over the deduplicated tree.
func (c *Client) Cruxes(ctx context.Context, comments []domain.Comment, tree domain.Taxonomy) result.Result[domain.CruxesOut] {
	req := cruxesRequest{LLM: c.llm(), Comments: comments, Tree: tree}
	res := runStep(ctx, c, StageCruxes, http.MethodPost, "/cruxes", req, validateCruxes)

	resp, err := res.Unwrap()
	if err != nil {
		return result.Err[domain.CruxesOut](err)
	}
	return result.Ok(domain.CruxesOut{Cruxes: resp.Data.CruxClaims, Cost: resp.Cost})
}

// TopicSummaries generates a per-topic summary for the final report.
func (c *Client) TopicSummaries(ctx context.Context, tree domain.Taxonomy) result.Result[domain.SummariesOut] {
	req := summariesRequest{LLM: c.llm(), Tree: tree}
	res := runStep(ctx, c, StageTopicSummaries, http.MethodPost, "/topic_summaries", req, validateSummaries)

	resp, err := res.Unwrap()
	if err != nil {
		return result.Err[domain.SummariesOut](err)
	}

	summaries := make(map[string]string, len(resp.Data.Summaries))
	for _, s := range resp.Data.Summaries {
		summaries[s.TopicName] = s.Summary
	}
	return result.Ok(domain.SummariesOut{Summaries: summaries, Cost: resp.Cost})
}

func (c *Client) llm() llmConfig {
	return llmConfig{ModelName: c.model}
}

// runStep drives one stage call: serialize, retry with a health-probe
// gate, decode, validate. Schema failures surface as SchemaError and
// bail out of the retry loop; everything else wraps into FetchError.
func runStep[T any](ctx context.Context, c *Client, stage, method, path string, payload any, validate func(*T) string) result.Result[T] {
	requestStart := time.Now()

	opts := c.retry
	opts.ShouldBail = func(err error) bool {
		var schemaErr *SchemaError
		return errors.As(err, &schemaErr) || IsHealthError(err)
	}
	opts.OnBeforeRetry = func(ctx context.Context) error {
		_, err := c.CheckHealth(ctx, requestStart)
		return err
	}

	out, err := retry.Do(ctx, stage, func(ctx context.Context) (T, error) {
		var resp T
		if err := c.do(ctx, stage, method, path, payload, &resp); err != nil {
			return resp, err
		}
		if reason := validate(&resp); reason != "" {
			return resp, &SchemaError{Stage: stage, Reason: reason}
		}
		return resp, nil
	}, opts)

	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			return result.Err[T](err)
		}
		return result.Err[T](&FetchError{Stage: stage, Err: err})
	}
	return result.Ok(out)
}

// do performs one HTTP exchange. Non-2xx statuses and transport
// failures return plain errors (retryable); an undecodable 2xx body is
// a SchemaError.
func (c *Client) do(ctx context.Context, stage, method, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", stage, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", stage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s: unexpected status %s: %s", stage, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &SchemaError{Stage: stage, Reason: "undecodable body: " + err.Error()}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}
	if c.reportID != "" {
		req.Header.Set("X-Report-Id", c.reportID)
	}
}
