package assembly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

func TestBuildSourceMapAnonymousContinuesNumbering(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{
		{ID: "1", Comment: "a", Interview: "Anonymous #3"},
		{ID: "2", Comment: "b"},
		{ID: "3", Comment: "c", Interview: "Anonymous #7"},
		{ID: "4", Comment: "d"},
	})

	require.Equal(t, "Anonymous #3", sources["1"].Interview)
	require.Equal(t, "Anonymous #8", sources["2"].Interview)
	require.Equal(t, "Anonymous #7", sources["3"].Interview)
	require.Equal(t, "Anonymous #9", sources["4"].Interview)
}

func TestBuildSourceMapNoDuplicateGeneratedLabels(t *testing.T) {
	t.Parallel()

	rows := []domain.SourceRow{
		{ID: "1", Comment: "a"},
		{ID: "2", Comment: "b"},
		{ID: "3", Comment: "c"},
	}
	sources := BuildSourceMap(rows)

	labels := map[string]bool{}
	for _, row := range rows {
		source := sources[row.ID]
		require.NotEmpty(t, source.Interview, "interview must never be blank")
		require.False(t, labels[source.Interview], "label %s assigned twice", source.Interview)
		labels[source.Interview] = true
	}
}

func TestBuildSourceMapGeneratedIDsIndependentOfRowIDs(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{{ID: "row-1", Comment: "a", Interview: "Alice"}})
	require.NotEqual(t, "row-1", sources["row-1"].ID)
	require.NotEmpty(t, sources["row-1"].ID)
}

func TestBuildSourceMapMediaClassification(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{
		{ID: "1", Comment: "plain comment", Interview: "Alice"},
		{ID: "2", Comment: "spoken comment", Interview: "Bob", Video: "https://example.org/v.mp4", Timestamp: "00:01:30"},
	})

	require.Equal(t, domain.MediaText, sources["1"].Data.Type)
	require.Equal(t, "plain comment", sources["1"].Data.Text)

	require.Equal(t, domain.MediaVideo, sources["2"].Data.Type)
	require.Equal(t, "https://example.org/v.mp4", sources["2"].Data.Link)
	require.Equal(t, "00:01:30", sources["2"].Data.Timestamp)
}

func TestBuildQuoteTextOffsets(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{{ID: "1", Comment: "The quick brown fox", Interview: "Alice"}})

	quote, err := BuildQuote(domain.TaxonomyClaim{
		ClaimID:   "c1",
		Title:     "Speed matters",
		Quote:     "quick",
		CommentID: "1",
	}, sources)

	require.NoError(t, err)
	require.Equal(t, "quick", quote.Text)
	require.Equal(t, sources["1"].ID, quote.Reference.SourceID)
	require.Equal(t, "Alice", quote.Reference.Interview)
	require.Equal(t, 4, quote.Reference.Data.StartIdx)
	require.Equal(t, 9, quote.Reference.Data.EndIdx)
}

func TestBuildQuoteNotFound(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{{ID: "1", Comment: "The quick brown fox", Interview: "Alice"}})

	_, err := BuildQuote(domain.TaxonomyClaim{ClaimID: "c1", Quote: "slow", CommentID: "1"}, sources)
	require.ErrorIs(t, err, ErrQuoteNotFound)
}

func TestBuildQuoteUnknownComment(t *testing.T) {
	t.Parallel()

	_, err := BuildQuote(domain.TaxonomyClaim{ClaimID: "c1", Quote: "x", CommentID: "missing"}, SourceMap{})
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestBuildQuoteVideoReusesTimestamp(t *testing.T) {
	t.Parallel()

	sources := BuildSourceMap([]domain.SourceRow{
		{ID: "1", Comment: "spoken", Interview: "Bob", Video: "https://example.org/v.mp4", Timestamp: "00:02:00"},
	})

	quote, err := BuildQuote(domain.TaxonomyClaim{ClaimID: "c1", Quote: "spoken", CommentID: "1"}, sources)
	require.NoError(t, err)
	require.Equal(t, domain.MediaVideo, quote.Reference.Data.Type)
	require.Equal(t, "00:02:00", quote.Reference.Data.BeginTimestamp)
	require.Empty(t, quote.Reference.Data.EndTimestamp)
}

func TestBuildQuoteAudioIsDistinguishable(t *testing.T) {
	t.Parallel()

	sources := SourceMap{
		"1": domain.Source{
			ID:        "s1",
			Interview: "Carol",
			Data:      domain.SourceData{Type: domain.MediaAudio, Link: "https://example.org/a.mp3"},
		},
	}

	_, err := BuildQuote(domain.TaxonomyClaim{ClaimID: "c1", Quote: "x", CommentID: "1"}, sources)
	require.ErrorIs(t, err, ErrAudioNotImplemented)
	require.NotErrorIs(t, err, ErrQuoteNotFound)
}
