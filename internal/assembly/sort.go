package assembly

import (
	"math/rand"
	"sort"

	"github.com/AIObjectives/tttc-light-js-sub001/internal/domain"
)

// paletteSeed fixes the palette permutation so color assignment is
// identical run to run for the same topic ordering.
const paletteSeed = 42

var basePalette = []string{
	"#7C3AED", // violet
	"#0EA5E9", // sea blue
	"#22C55E", // leaf green
	"#F59E0B", // amber
	"#EF4444", // red
	"#14B8A6", // teal
	"#EC4899", // pink
	"#8B5CF6", // purple
}

// SortTaxonomy orders topics descending by total claim volume and, in
// each topic, subtopics descending by claim volume. It runs before
// numbering so claim numbers correlate with prominence. Sorting is
// stable, so equal-volume nodes keep the service's order.
func SortTaxonomy(tree domain.Taxonomy) domain.Taxonomy {
	sorted := make(domain.Taxonomy, len(tree))
	for i, topic := range tree {
		subtopics := make([]domain.TaxonomySubtopic, len(topic.Subtopics))
		copy(subtopics, topic.Subtopics)
		sort.SliceStable(subtopics, func(a, b int) bool {
			return subtopics[a].ClaimVolume() > subtopics[b].ClaimVolume()
		})
		topic.Subtopics = subtopics
		sorted[i] = topic
	}

	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].ClaimVolume() > sorted[b].ClaimVolume()
	})
	return sorted
}

// TopicColors returns the display color for each of n topics: a seeded
// permutation of the fixed palette, cycled when topics outnumber it.
func TopicColors(n int) []string {
	palette := make([]string, len(basePalette))
	copy(palette, basePalette)

	rng := rand.New(rand.NewSource(paletteSeed))
	rng.Shuffle(len(palette), func(i, j int) {
		palette[i], palette[j] = palette[j], palette[i]
	})

	colors := make([]string, n)
	for i := 0; i < n; i++ {
		colors[i] = palette[i%len(palette)]
	}
	return colors
}
