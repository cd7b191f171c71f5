package assembly

import (
	"fmt"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// claimBuilder threads sequential numbering and dedup linking through
// one walk of the sorted taxonomy.
type claimBuilder struct {
	sources SourceMap
	claims  map[string]*domain.Claim
	next    int
}

// BuildClaimsMap flattens the volume-sorted taxonomy into a map of
// claim id to built Claim. The first occurrence of a claim id receives
// the next sequential number and is built fully, duplicates included;
// any later occurrence resolves to the already-built Claim. Numbers
// across the map form exactly {1..N} for the N distinct claim ids, and
// rebuilding the same taxonomy reproduces identical assignments.
func BuildClaimsMap(tree domain.Taxonomy, sources SourceMap) (map[string]*domain.Claim, error) {
	builder := &claimBuilder{
		sources: sources,
		claims:  make(map[string]*domain.Claim),
		next:    1,
	}

	for _, topic := range tree {
		for _, subtopic := range topic.Subtopics {
			for _, claim := range subtopic.Claims {
				if _, err := builder.build(claim); err != nil {
					return nil, fmt.Errorf("topic %s / subtopic %s: %w", topic.Name, subtopic.Name, err)
				}
			}
		}
	}
	return builder.claims, nil
}

func (b *claimBuilder) build(node domain.TaxonomyClaim) (*domain.Claim, error) {
	if existing, ok := b.claims[node.ClaimID]; ok {
		return existing, nil
	}

	quote, err := BuildQuote(node, b.sources)
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", node.ClaimID, err)
	}

	claim := &domain.Claim{
		ID:     node.ClaimID,
		Title:  node.Title,
		Quotes: []domain.Quote{quote},
		Number: b.next,
	}
	b.next++
	// Register before recursing so a duplicate citing this very claim
	// id resolves instead of looping.
	b.claims[node.ClaimID] = claim

	for _, duplicate := range node.Duplicates {
		child, err := b.build(duplicate)
		if err != nil {
			return nil, err
		}
		if child != claim {
			claim.SimilarClaims = append(claim.SimilarClaims, child)
		}
	}
	return claim, nil
}
