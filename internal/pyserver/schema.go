package pyserver

import "github.com/AIObjectives/tttc-light-js-sub001/internal/domain"

// Wire schemas for the processing-service stages. Requests and
// responses are fixed; validators enforce the response side since the
// backend is a black box.

type llmConfig struct {
	ModelName    string `json:"model_name"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type topicTreeRequest struct {
	LLM      llmConfig        `json:"llm"`
	Comments []domain.Comment `json:"comments"`
}

type topicTreeResponse struct {
	Data struct {
		Taxonomy domain.Taxonomy `json:"taxonomy"`
	} `json:"data"`
	Usage usage   `json:"usage"`
	Cost  float64 `json:"cost"`
}

type claimsRequest struct {
	LLM      llmConfig        `json:"llm"`
	Comments []domain.Comment `json:"comments"`
	Tree     domain.Taxonomy  `json:"tree"`
}

type treeResponse struct {
	Data struct {
		Tree domain.Taxonomy `json:"tree"`
	} `json:"data"`
	Usage usage   `json:"usage"`
	Cost  float64 `json:"cost"`
}

type sortRequest struct {
	Tree domain.Taxonomy `json:"tree"`
	Sort string          `json:"sort"`
}

type cruxesRequest struct {
	LLM      llmConfig        `json:"llm"`
	Comments []domain.Comment `json:"comments"`
	Tree     domain.Taxonomy  `json:"tree"`
}

type cruxesResponse struct {
	Data struct {
		CruxClaims []domain.CruxClaim `json:"cruxClaims"`
	} `json:"data"`
	Usage usage   `json:"usage"`
	Cost  float64 `json:"cost"`
}

type summariesRequest struct {
	LLM  llmConfig       `json:"llm"`
	Tree domain.Taxonomy `json:"tree"`
}

type topicSummary struct {
	TopicName string `json:"topicName"`
	Summary   string `json:"summary"`
}

type summariesResponse struct {
	Data struct {
		Summaries []topicSummary `json:"summaries"`
	} `json:"data"`
	Usage usage   `json:"usage"`
	Cost  float64 `json:"cost"`
}

func validateTaxonomy(tree domain.Taxonomy, claimsExpected bool) string {
	if len(tree) == 0 {
		return "empty taxonomy"
	}
	for _, topic := range tree {
		if topic.Name == "" {
			return "topic with empty topicName"
		}
		for _, subtopic := range topic.Subtopics {
			if subtopic.Name == "" {
				return "subtopic with empty subtopicName under " + topic.Name
			}
			if reason := validateClaimNodes(subtopic.Claims, claimsExpected); reason != "" {
				return reason
			}
		}
	}
	return ""
}

func validateClaimNodes(claims []domain.TaxonomyClaim, required bool) string {
	for _, claim := range claims {
		if claim.ClaimID == "" {
			return "claim with empty claimId"
		}
		if required && claim.CommentID == "" {
			return "claim " + claim.ClaimID + " with empty commentId"
		}
		if reason := validateClaimNodes(claim.Duplicates, required); reason != "" {
			return reason
		}
	}
	return ""
}

func validateTopicTree(resp *topicTreeResponse) string {
	return validateTaxonomy(resp.Data.Taxonomy, false)
}

func validateClaimsTree(resp *treeResponse) string {
	return validateTaxonomy(resp.Data.Tree, true)
}

func validateCruxes(resp *cruxesResponse) string {
	for _, crux := range resp.Data.CruxClaims {
		if crux.CruxClaim == "" {
			return "crux with empty cruxClaim"
		}
	}
	return ""
}

func validateSummaries(resp *summariesResponse) string {
	for _, summary := range resp.Data.Summaries {
		if summary.TopicName == "" {
			return "summary with empty topicName"
		}
	}
	return ""
}
