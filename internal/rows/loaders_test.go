package rows

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONLoader(t *testing.T) {
	t.Parallel()

	input := `[
		{"id": "1", "comment": "bike lanes are great", "interview": "Alice"},
		{"id": "2", "comment": "spoken answer", "video": "https://example.org/v.mp4", "timestamp": "00:01:00"}
	]`

	parsed, err := (JSONLoader{}).Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	require.Equal(t, "Alice", parsed[0].Interview)
	require.Equal(t, "https://example.org/v.mp4", parsed[1].Video)
	require.Empty(t, parsed[1].Interview)
}

func TestJSONLoaderRejectsMissingComment(t *testing.T) {
	t.Parallel()

	input := `[{"id": "1", "interview": "Alice"}]`
	_, err := (JSONLoader{}).Load(context.Background(), strings.NewReader(input))
	require.ErrorContains(t, err, "no comment")
}

func TestCSVLoader(t *testing.T) {
	t.Parallel()

	input := "id,comment,interview,video,timestamp\n" +
		"1,bike lanes are great,Alice,,\n" +
		"2,spoken answer,,https://example.org/v.mp4,00:01:00\n"

	parsed, err := (CSVLoader{}).Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	require.Equal(t, "1", parsed[0].ID)
	require.Equal(t, "bike lanes are great", parsed[0].Comment)
	require.Equal(t, "00:01:00", parsed[1].Timestamp)
}

func TestCSVLoaderHeaderOrderIrrelevant(t *testing.T) {
	t.Parallel()

	input := "comment,id\nhello there,42\n"

	parsed, err := (CSVLoader{}).Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "42", parsed[0].ID)
	require.Equal(t, "hello there", parsed[0].Comment)
}

func TestCSVLoaderRejectsMissingColumns(t *testing.T) {
	t.Parallel()

	_, err := (CSVLoader{}).Load(context.Background(), strings.NewReader("comment\nhi\n"))
	require.ErrorContains(t, err, "missing id column")
}

func TestCSVLoaderStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (CSVLoader{}).Load(ctx, strings.NewReader("id,comment\n1,hi\n"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRegistryResolveUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().Resolve("xml")
	require.ErrorContains(t, err, "not registered")
}

func TestLoadFilePicksLoaderByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","comment":"hi"}]`), 0o600))

	parsed, err := NewRegistry().LoadFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.Equal(t, "hi", parsed[0].Comment)
}
