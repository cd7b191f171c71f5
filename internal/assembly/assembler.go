package assembly

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// now is overridden in tests for a deterministic report date.
var now = time.Now

// AssemblyError marks a report that failed final validation or could
// not be built from its inputs. Fatal: never retried, never coerced.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("report assembly: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Input is everything the assembler consumes: the raw rows plus the
// pipeline stages' output.
type Input struct {
	Title       string
	Description string
	Rows        []domain.SourceRow
	Tree        domain.Taxonomy
	Summaries   map[string]string
	Cruxes      []domain.CruxClaim
}

// Assemble builds the canonical report document in one synchronous
// pass: source map, sorted taxonomy, numbered claims, then the topic
// tree with empty subtopics and topics dropped. The assembled object
// is validated against the canonical schema before it is returned.
func Assemble(in Input) (domain.ReportDataObj, error) {
	sources := BuildSourceMap(in.Rows)
	tree := SortTaxonomy(in.Tree)

	claims, err := BuildClaimsMap(tree, sources)
	if err != nil {
		return domain.ReportDataObj{}, &AssemblyError{Err: err}
	}

	var topics []*domain.Topic
	for _, topicNode := range tree {
		var subtopics []*domain.Subtopic
		for _, subtopicNode := range topicNode.Subtopics {
			var built []*domain.Claim
			for _, claimNode := range subtopicNode.Claims {
				// A duplicated node surfaces under its canonical
				// claim's similarClaims, not on its own.
				if claimNode.Duplicated {
					continue
				}
				built = append(built, claims[claimNode.ClaimID])
			}
			if len(built) == 0 {
				continue
			}
			subtopics = append(subtopics, &domain.Subtopic{
				ID:          uuid.NewString(),
				Title:       subtopicNode.Name,
				Description: subtopicNode.Description,
				Claims:      built,
			})
		}
		if len(subtopics) == 0 {
			continue
		}
		topics = append(topics, &domain.Topic{
			ID:          uuid.NewString(),
			Title:       topicNode.Name,
			Description: topicNode.Description,
			Summary:     in.Summaries[topicNode.Name],
			Subtopics:   subtopics,
		})
	}

	colors := TopicColors(len(topics))
	for i, topic := range topics {
		topic.TopicColor = colors[i]
	}

	sourceList := make([]domain.Source, 0, len(in.Rows))
	for _, row := range in.Rows {
		sourceList = append(sourceList, sources[row.ID])
	}

	report := domain.ReportDataObj{
		Title:       in.Title,
		Description: in.Description,
		Date:        now(),
		Topics:      topics,
		Sources:     sourceList,
		AddOns:      domain.AddOns{Cruxes: in.Cruxes},
	}

	if err := report.Validate(); err != nil {
		return domain.ReportDataObj{}, &AssemblyError{Err: err}
	}
	return report, nil
}
