package assembly

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// dedupFixture returns a taxonomy where c2 and c3 were folded into c1,
// and c3 also appears as a duplicated node in a second subtopic.
func dedupFixture() (domain.Taxonomy, []domain.SourceRow) {
	rows := []domain.SourceRow{
		{ID: "1", Comment: "bike lanes are great", Interview: "Alice"},
		{ID: "2", Comment: "I love the bike lanes", Interview: "Bob"},
		{ID: "3", Comment: "more bike lanes please", Interview: "Carol"},
		{ID: "4", Comment: "trains are always late", Interview: "Dan"},
	}

	tree := domain.Taxonomy{
		{
			Name: "Cycling",
			Subtopics: []domain.TaxonomySubtopic{
				{
					Name: "Bike lanes",
					Claims: []domain.TaxonomyClaim{
						{
							ClaimID:   "c1",
							Title:     "Bike lanes are valued",
							Quote:     "bike lanes are great",
							CommentID: "1",
							Duplicates: []domain.TaxonomyClaim{
								{ClaimID: "c2", Title: "Bike lanes are loved", Quote: "love the bike lanes", CommentID: "2"},
								{ClaimID: "c3", Title: "More bike lanes", Quote: "more bike lanes", CommentID: "3"},
							},
						},
					},
				},
				{
					Name: "Expansion",
					Claims: []domain.TaxonomyClaim{
						{ClaimID: "c3", Title: "More bike lanes", Quote: "more bike lanes", CommentID: "3", Duplicated: true},
					},
				},
			},
		},
		{
			Name: "Transit",
			Subtopics: []domain.TaxonomySubtopic{
				{
					Name: "Reliability",
					Claims: []domain.TaxonomyClaim{
						{ClaimID: "c4", Title: "Trains are unreliable", Quote: "always late", CommentID: "4"},
					},
				},
			},
		},
	}
	return tree, rows
}

func TestBuildClaimsMapNumbersAreContiguous(t *testing.T) {
	t.Parallel()

	tree, rowList := dedupFixture()
	claims, err := BuildClaimsMap(tree, BuildSourceMap(rowList))
	require.NoError(t, err)
	require.Len(t, claims, 4)

	numbers := map[int]bool{}
	for _, claim := range claims {
		require.Positive(t, claim.Number)
		require.False(t, numbers[claim.Number], "number %d assigned twice", claim.Number)
		numbers[claim.Number] = true
	}
	for n := 1; n <= len(claims); n++ {
		require.True(t, numbers[n], "missing number %d", n)
	}
}

func TestBuildClaimsMapIsIdempotent(t *testing.T) {
	t.Parallel()

	tree, rowList := dedupFixture()
	sources := BuildSourceMap(rowList)

	first, err := BuildClaimsMap(tree, sources)
	require.NoError(t, err)
	second, err := BuildClaimsMap(tree, sources)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for id, claim := range first {
		require.Equal(t, claim.Number, second[id].Number, "claim %s renumbered on rebuild", id)
	}
}

func TestBuildClaimsMapDuplicateSharesIdentity(t *testing.T) {
	t.Parallel()

	tree, rowList := dedupFixture()
	claims, err := BuildClaimsMap(tree, BuildSourceMap(rowList))
	require.NoError(t, err)

	canonical := claims["c1"]
	require.Len(t, canonical.SimilarClaims, 2)
	require.Same(t, canonical.SimilarClaims[0], claims["c2"])
	require.Same(t, canonical.SimilarClaims[1], claims["c3"])
}

func TestBuildClaimsMapDuplicatedNodeNotRebuilt(t *testing.T) {
	t.Parallel()

	tree, rowList := dedupFixture()
	claims, err := BuildClaimsMap(tree, BuildSourceMap(rowList))
	require.NoError(t, err)

	// c3 appears nested under c1 and again as a duplicated node in the
	// Expansion subtopic; both must resolve to one Claim.
	require.Same(t, claims["c1"].SimilarClaims[1], claims["c3"])
	require.Equal(t, claims["c1"].SimilarClaims[1].Number, claims["c3"].Number)
}

func TestBuildClaimsMapPropagatesQuoteFailure(t *testing.T) {
	t.Parallel()

	tree := domain.Taxonomy{
		{
			Name: "Topic",
			Subtopics: []domain.TaxonomySubtopic{
				{
					Name: "Subtopic",
					Claims: []domain.TaxonomyClaim{
						{ClaimID: "c1", Title: "t", Quote: "absent text", CommentID: "1"},
					},
				},
			},
		},
	}
	sources := BuildSourceMap([]domain.SourceRow{{ID: "1", Comment: "something else", Interview: "Alice"}})

	_, err := BuildClaimsMap(tree, sources)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestBuildClaimsMapNumbersFollowWalkOrder(t *testing.T) {
	t.Parallel()

	var claimNodes []domain.TaxonomyClaim
	var rowList []domain.SourceRow
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("%d", i)
		rowList = append(rowList, domain.SourceRow{ID: id, Comment: "comment " + id, Interview: "P" + id})
		claimNodes = append(claimNodes, domain.TaxonomyClaim{
			ClaimID:   "c" + id,
			Title:     "claim " + id,
			Quote:     "comment " + id,
			CommentID: id,
		})
	}
	tree := domain.Taxonomy{
		{Name: "Topic", Subtopics: []domain.TaxonomySubtopic{{Name: "Sub", Claims: claimNodes}}},
	}

	claims, err := BuildClaimsMap(tree, BuildSourceMap(rowList))
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		require.Equal(t, i, claims[fmt.Sprintf("c%d", i)].Number)
	}
}
