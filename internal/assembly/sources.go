// Package assembly deterministically converts the processing service's
// hierarchical output plus the raw input rows into the canonical
// report tree.
package assembly

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// Quote resolution failure variants. Kept explicit so no caller has to
// fish a degenerate [-1, -1+len) range out of an assembled report.
var (
	ErrQuoteNotFound       = errors.New("quote text not found in source")
	ErrSourceNotFound      = errors.New("quote source not found")
	ErrAudioNotImplemented = errors.New("audio reference building not implemented")
)

var anonymousLabel = regexp.MustCompile(`^Anonymous #(\d+)$`)

// SourceMap resolves input row ids to their built Sources. Source ids
// are generated and independent of row ids.
type SourceMap map[string]domain.Source

// BuildSourceMap creates one Source per row. Rows without an interview
// label get "Anonymous #N", with N continuing past the highest
// anonymous number already present anywhere in the input; the scan
// happens once so generated labels never collide within a batch.
func BuildSourceMap(rows []domain.SourceRow) SourceMap {
	nextAnonymous := 1
	for _, row := range rows {
		match := anonymousLabel.FindStringSubmatch(strings.TrimSpace(row.Interview))
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil && n >= nextAnonymous {
			nextAnonymous = n + 1
		}
	}

	sources := make(SourceMap, len(rows))
	for _, row := range rows {
		interview := strings.TrimSpace(row.Interview)
		if interview == "" {
			interview = fmt.Sprintf("Anonymous #%d", nextAnonymous)
			nextAnonymous++
		}

		data := domain.SourceData{Type: domain.MediaText, Text: row.Comment}
		if row.Video != "" {
			data = domain.SourceData{
				Type:      domain.MediaVideo,
				Text:      row.Comment,
				Link:      row.Video,
				Timestamp: row.Timestamp,
			}
		}

		sources[row.ID] = domain.Source{
			ID:        uuid.NewString(),
			Interview: interview,
			Data:      data,
		}
	}
	return sources
}

// BuildQuote resolves one taxonomy claim node into a Quote against its
// source. Text quotes locate the literal substring; a quote absent
// from its source text is an ErrQuoteNotFound, not a silent -1 range.
func BuildQuote(claim domain.TaxonomyClaim, sources SourceMap) (domain.Quote, error) {
	source, ok := sources[claim.CommentID]
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: comment %s", ErrSourceNotFound, claim.CommentID)
	}

	var data domain.ReferenceData
	switch source.Data.Type {
	case domain.MediaText:
		start := strings.Index(source.Data.Text, claim.Quote)
		if start < 0 {
			return domain.Quote{}, fmt.Errorf("%w: %q in source %s", ErrQuoteNotFound, claim.Quote, source.ID)
		}
		data = domain.ReferenceData{
			Type:     domain.MediaText,
			StartIdx: start,
			EndIdx:   start + len(claim.Quote),
		}
	case domain.MediaVideo:
		data = domain.ReferenceData{
			Type:           domain.MediaVideo,
			BeginTimestamp: source.Data.Timestamp,
		}
	case domain.MediaAudio:
		return domain.Quote{}, fmt.Errorf("%w: source %s", ErrAudioNotImplemented, source.ID)
	default:
		return domain.Quote{}, fmt.Errorf("unknown source media type %q", source.Data.Type)
	}

	return domain.Quote{
		ID:   uuid.NewString(),
		Text: claim.Quote,
		Reference: domain.Reference{
			ID:        uuid.NewString(),
			SourceID:  source.ID,
			Interview: source.Interview,
			Data:      data,
		},
	}, nil
}
