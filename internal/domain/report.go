package domain

import (
	"fmt"
	"time"
)

// Media variants carried by Source.Data and Reference.Data.
const (
	MediaText  = "text"
	MediaVideo = "video"
	MediaAudio = "audio"
)

// SourceData holds the media payload of a source. Exactly one variant
// is meaningful, selected by Type.
type SourceData struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Link      string `json:"link,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Source is one addressable participant contribution. Its ID is
// generated during assembly and is independent of the input row id.
type Source struct {
	ID        string     `json:"id"`
	Interview string     `json:"interview"`
	Data      SourceData `json:"data"`
}

// ReferenceData locates a quote inside its source. Text references use
// rune-independent byte offsets into the source text; video references
// carry timestamps.
type ReferenceData struct {
	Type           string `json:"type"`
	StartIdx       int    `json:"startIdx"`
	EndIdx         int    `json:"endIdx"`
	BeginTimestamp string `json:"beginTimestamp,omitempty"`
	EndTimestamp   string `json:"endTimestamp,omitempty"`
}

// Reference points a quote back at a span of its source.
type Reference struct {
	ID        string        `json:"id"`
	SourceID  string        `json:"sourceId"`
	Interview string        `json:"interview"`
	Data      ReferenceData `json:"data"`
}

// Quote is one (claim, source) pairing with its resolved reference.
type Quote struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Reference Reference `json:"reference"`
}

// Claim is a numbered canonical claim. SimilarClaims holds the claims
// the processing service identified as duplicates of this one; they
// share identity with the claims-map entries for their claim ids.
type Claim struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Quotes        []Quote  `json:"quotes"`
	Number        int      `json:"number"`
	SimilarClaims []*Claim `json:"similarClaims"`
}

// Subtopic groups claims under a topic. Subtopics without claims are
// dropped during assembly.
type Subtopic struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Claims      []*Claim `json:"claims"`
}

// Topic is a top-level taxonomy node. Topics without surviving
// subtopics are dropped during assembly.
type Topic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Summary     string     `json:"summary,omitempty"`
	Subtopics   []*Subtopic `json:"subtopics"`
	TopicColor  string     `json:"topicColor"`
}

// CruxClaim describes a claim that splits participants into agreeing
// and disagreeing camps.
type CruxClaim struct {
	CruxClaim   string   `json:"cruxClaim"`
	Agree       []string `json:"agree"`
	Disagree    []string `json:"disagree"`
	Explanation string   `json:"explanation,omitempty"`
}

// AddOns carries optional report extensions outside the core taxonomy.
type AddOns struct {
	Cruxes []CruxClaim `json:"cruxes,omitempty"`
}

// ReportDataObj is the canonical assembled report document.
type ReportDataObj struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Topics      []*Topic  `json:"topics"`
	Sources     []Source  `json:"sources"`
	AddOns      AddOns    `json:"addOns"`
}

// ReportMetadataObj records run accounting persisted next to the report.
type ReportMetadataObj struct {
	StartTimestamp int64   `json:"startTimestamp"`
	Duration       int64   `json:"duration"`
	TotalCost      float64 `json:"totalCost"`
	Author         string  `json:"author"`
	Organization   string  `json:"organization,omitempty"`
}

// Validate checks the fully assembled report against the canonical
// schema: non-empty tree nodes, resolvable quote references, and claim
// numbers forming exactly {1..N} over the N distinct claim ids.
func (r ReportDataObj) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("report title is empty")
	}

	sourceIDs := make(map[string]bool, len(r.Sources))
	for _, src := range r.Sources {
		if src.ID == "" {
			return fmt.Errorf("source with empty id")
		}
		if src.Interview == "" {
			return fmt.Errorf("source %s has blank interview", src.ID)
		}
		sourceIDs[src.ID] = true
	}

	numbers := map[int]bool{}
	seen := map[string]bool{}

	var checkClaim func(claim *Claim) error
	checkClaim = func(claim *Claim) error {
		if claim == nil {
			return fmt.Errorf("nil claim in tree")
		}
		if seen[claim.ID] {
			return nil
		}
		seen[claim.ID] = true

		if claim.Number < 1 {
			return fmt.Errorf("claim %s has non-positive number %d", claim.ID, claim.Number)
		}
		if numbers[claim.Number] {
			return fmt.Errorf("claim number %d assigned twice", claim.Number)
		}
		numbers[claim.Number] = true

		if len(claim.Quotes) == 0 {
			return fmt.Errorf("claim %s has no quotes", claim.ID)
		}
		for _, quote := range claim.Quotes {
			ref := quote.Reference
			if !sourceIDs[ref.SourceID] {
				return fmt.Errorf("claim %s references unknown source %s", claim.ID, ref.SourceID)
			}
			if ref.Data.Type == MediaText && (ref.Data.StartIdx < 0 || ref.Data.EndIdx < ref.Data.StartIdx) {
				return fmt.Errorf("claim %s has degenerate text range [%d,%d)", claim.ID, ref.Data.StartIdx, ref.Data.EndIdx)
			}
		}
		for _, similar := range claim.SimilarClaims {
			if err := checkClaim(similar); err != nil {
				return err
			}
		}
		return nil
	}

	for _, topic := range r.Topics {
		if topic.Title == "" {
			return fmt.Errorf("topic %s has empty title", topic.ID)
		}
		if len(topic.Subtopics) == 0 {
			return fmt.Errorf("topic %s has no subtopics", topic.Title)
		}
		for _, subtopic := range topic.Subtopics {
			if len(subtopic.Claims) == 0 {
				return fmt.Errorf("subtopic %s has no claims", subtopic.Title)
			}
			for _, claim := range subtopic.Claims {
				if err := checkClaim(claim); err != nil {
					return err
				}
			}
		}
	}

	for n := 1; n <= len(seen); n++ {
		if !numbers[n] {
			return fmt.Errorf("claim numbers are not contiguous: missing %d of %d", n, len(seen))
		}
	}

	return nil
}
