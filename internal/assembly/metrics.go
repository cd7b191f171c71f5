package assembly

import "github.com/AIObjectives/tttc-light-js-sub001/internal/domain"

// Tree metrics: read-only aggregate queries over an assembled report.
// Participant counts are identical regardless of the entry level the
// query starts from.

// PeopleCountFromReport counts distinct participants across the whole
// report.
func PeopleCountFromReport(report domain.ReportDataObj) int {
	return PeopleCountFromTopics(report.Topics)
}

// PeopleCountFromTopics counts distinct participants under the topics.
func PeopleCountFromTopics(topics []*domain.Topic) int {
	people := map[string]bool{}
	for _, topic := range topics {
		collectSubtopicPeople(topic.Subtopics, people)
	}
	return len(people)
}

// PeopleCountFromSubtopics counts distinct participants under the
// subtopics.
func PeopleCountFromSubtopics(subtopics []*domain.Subtopic) int {
	people := map[string]bool{}
	collectSubtopicPeople(subtopics, people)
	return len(people)
}

// PeopleCountFromClaims counts distinct participants across the claims,
// similarClaims included.
func PeopleCountFromClaims(claims []*domain.Claim) int {
	people := map[string]bool{}
	seen := map[string]bool{}
	for _, claim := range claims {
		collectClaimPeople(claim, people, seen)
	}
	return len(people)
}

// ClaimCount counts distinct claim ids under the topics, similarClaims
// included.
func ClaimCount(topics []*domain.Topic) int {
	seen := map[string]bool{}
	var walk func(claim *domain.Claim)
	walk = func(claim *domain.Claim) {
		if claim == nil || seen[claim.ID] {
			return
		}
		seen[claim.ID] = true
		for _, similar := range claim.SimilarClaims {
			walk(similar)
		}
	}
	for _, topic := range topics {
		for _, subtopic := range topic.Subtopics {
			for _, claim := range subtopic.Claims {
				walk(claim)
			}
		}
	}
	return len(seen)
}

// TopicCount counts the report's surviving topics.
func TopicCount(topics []*domain.Topic) int {
	return len(topics)
}

// SubtopicCount counts subtopics across the topics.
func SubtopicCount(topics []*domain.Topic) int {
	total := 0
	for _, topic := range topics {
		total += len(topic.Subtopics)
	}
	return total
}

func collectSubtopicPeople(subtopics []*domain.Subtopic, people map[string]bool) {
	seen := map[string]bool{}
	for _, subtopic := range subtopics {
		for _, claim := range subtopic.Claims {
			collectClaimPeople(claim, people, seen)
		}
	}
}

func collectClaimPeople(claim *domain.Claim, people, seen map[string]bool) {
	if claim == nil || seen[claim.ID] {
		return
	}
	seen[claim.ID] = true

	for _, quote := range claim.Quotes {
		people[participantKey(quote.Reference)] = true
	}
	for _, similar := range claim.SimilarClaims {
		collectClaimPeople(similar, people, seen)
	}
}

// participantKey resolves a reference to a participant identity. A
// blank interview falls back to a synthetic per-reference key so
// anonymous references are never merged into one person.
func participantKey(ref domain.Reference) string {
	if ref.Interview != "" {
		return ref.Interview
	}
	return "ref:" + ref.ID
}
