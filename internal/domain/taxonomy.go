package domain

// TaxonomyClaim is one extracted claim node as returned by the
// processing service. Duplicates nests the claims folded into this one
// by the dedup stage; Duplicated marks a node that also appears under
// another claim's Duplicates and must not surface on its own.
type TaxonomyClaim struct {
	ClaimID    string          `json:"claimId"`
	Title      string          `json:"claim"`
	Quote      string          `json:"quote"`
	CommentID  string          `json:"commentId"`
	Duplicated bool            `json:"duplicated,omitempty"`
	Duplicates []TaxonomyClaim `json:"duplicates,omitempty"`
}

// TaxonomySubtopic groups extracted claims under a subtopic label.
type TaxonomySubtopic struct {
	Name        string          `json:"subtopicName"`
	Description string          `json:"subtopicShortDescription,omitempty"`
	Claims      []TaxonomyClaim `json:"claims,omitempty"`
}

// TaxonomyTopic is a top-level node of the extracted hierarchy.
type TaxonomyTopic struct {
	Name        string             `json:"topicName"`
	Description string             `json:"topicShortDescription,omitempty"`
	Subtopics   []TaxonomySubtopic `json:"subtopics"`
}

// Taxonomy is the topic → subtopic → claim structure produced by the
// processing service, consumed as-is by the report assembler.
type Taxonomy []TaxonomyTopic

// ClaimVolume counts the claim nodes of a subtopic including every
// nested duplicate. Sorting and prominence are based on this volume.
func (s TaxonomySubtopic) ClaimVolume() int {
	total := 0
	for _, claim := range s.Claims {
		total += claimVolume(claim)
	}
	return total
}

// ClaimVolume sums the claim volume across all subtopics of a topic.
func (t TaxonomyTopic) ClaimVolume() int {
	total := 0
	for _, subtopic := range t.Subtopics {
		total += subtopic.ClaimVolume()
	}
	return total
}

func claimVolume(claim TaxonomyClaim) int {
	total := 1
	for _, duplicate := range claim.Duplicates {
		total += claimVolume(duplicate)
	}
	return total
}
