package assembly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

func assembledFixture(t *testing.T) domain.ReportDataObj {
	t.Helper()

	tree, rows := dedupFixture()
	report, err := Assemble(Input{
		Title:       "City survey",
		Description: "What residents said",
		Rows:        rows,
		Tree:        tree,
		Summaries: map[string]string{
			"Cycling": "Residents want safer cycling.",
		},
	})
	require.NoError(t, err)
	return report
}

func TestAssembleBuildsSortedTopics(t *testing.T) {
	t.Parallel()

	report := assembledFixture(t)

	require.Len(t, report.Topics, 2)
	require.Equal(t, "Cycling", report.Topics[0].Title)
	require.Equal(t, "Transit", report.Topics[1].Title)
	require.Equal(t, "Residents want safer cycling.", report.Topics[0].Summary)
	require.Empty(t, report.Topics[1].Summary)

	for _, topic := range report.Topics {
		require.NotEmpty(t, topic.ID)
		require.NotEmpty(t, topic.TopicColor)
	}
}

func TestAssembleDropsDuplicatedOnlySubtopic(t *testing.T) {
	t.Parallel()

	report := assembledFixture(t)

	// The Expansion subtopic holds only a duplicated claim node, so it
	// must not survive assembly.
	cycling := report.Topics[0]
	require.Len(t, cycling.Subtopics, 1)
	require.Equal(t, "Bike lanes", cycling.Subtopics[0].Title)
}

func TestAssembleDropsEmptyTopic(t *testing.T) {
	t.Parallel()

	tree, rows := dedupFixture()
	tree = append(tree, domain.TaxonomyTopic{
		Name: "Hollow",
		Subtopics: []domain.TaxonomySubtopic{
			{Name: "Nothing here"},
		},
	})

	report, err := Assemble(Input{Title: "t", Rows: rows, Tree: tree})
	require.NoError(t, err)
	for _, topic := range report.Topics {
		require.NotEqual(t, "Hollow", topic.Title)
	}
}

func TestAssembleSourcesFollowRowOrder(t *testing.T) {
	t.Parallel()

	report := assembledFixture(t)

	require.Len(t, report.Sources, 4)
	require.Equal(t, "Alice", report.Sources[0].Interview)
	require.Equal(t, "Bob", report.Sources[1].Interview)
	require.Equal(t, "Carol", report.Sources[2].Interview)
	require.Equal(t, "Dan", report.Sources[3].Interview)
}

func TestAssembleQuoteFailureIsAssemblyError(t *testing.T) {
	t.Parallel()

	tree, rows := dedupFixture()
	tree[0].Subtopics[0].Claims[0].Quote = "never said this"

	_, err := Assemble(Input{Title: "t", Rows: rows, Tree: tree})

	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestAssembleUntitledReportFailsValidation(t *testing.T) {
	t.Parallel()

	tree, rows := dedupFixture()
	_, err := Assemble(Input{Rows: rows, Tree: tree})

	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
}

func TestAssembleStampsReportDate(t *testing.T) {
	fixed := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = prev })

	report := assembledFixture(t)
	require.Equal(t, fixed, report.Date)
}

func TestAssembleCarriesCruxes(t *testing.T) {
	t.Parallel()

	tree, rows := dedupFixture()
	report, err := Assemble(Input{
		Title: "t",
		Rows:  rows,
		Tree:  tree,
		Cruxes: []domain.CruxClaim{
			{CruxClaim: "Bike lanes should replace car lanes", Agree: []string{"Alice"}, Disagree: []string{"Dan"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, report.AddOns.Cruxes, 1)
	require.Equal(t, "Bike lanes should replace car lanes", report.AddOns.Cruxes[0].CruxClaim)
}
