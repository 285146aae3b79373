package api

import "time"

// ReportContent is the normalized shape every provider reply is parsed into.
// A truncated or free-text reply still produces this shape, with missing
// sections left empty and the score at zero.
type ReportContent struct {
	Summary          string   `json:"summary"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Recommendations  []string `json:"recommendations"`
	PerformanceScore int      `json:"performance_score"`
	RawResponse      string   `json:"raw_response,omitempty"`
}

// GeneratedReport is the result of one generation attempt (or a fallback
// sequence). Transport failures are reported here with Success=false rather
// than as Go errors.
type GeneratedReport struct {
	ReportID         string        `json:"report_id,omitempty"`
	InternID         int64         `json:"intern_id"`
	ProjectID        *int64        `json:"project_id,omitempty"`
	ReportType       ReportType    `json:"report_type"`
	ProviderUsed     string        `json:"provider_used"`
	ModelUsed        string        `json:"model_used,omitempty"`
	FallbackUsed     bool          `json:"fallback_used"`
	OriginalProvider string        `json:"original_provider,omitempty"`
	OriginalError    string        `json:"original_error,omitempty"`
	Content          ReportContent `json:"content"`
	InputTokens      int           `json:"input_tokens"`
	OutputTokens     int           `json:"output_tokens"`
	TokensEstimated  bool          `json:"tokens_estimated"` // true when counts are the chars/4 heuristic
	GeneratedAt      time.Time     `json:"generated_at"`
	GenerationMS     int64         `json:"generation_ms"`
	Success          bool          `json:"success"`
	Error            string        `json:"error,omitempty"`
	IdempotencyKey   string        `json:"idempotency_key,omitempty"`

	// Feedback is populated on single-report reads only.
	Feedback []ReportFeedback `json:"feedback,omitempty"`
}

// ReportFeedback is a user rating attached to a stored report.
type ReportFeedback struct {
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CostEstimate is a local, deterministic pre-flight figure. The token counts
// are a chars/4 heuristic, not a billing-grade number.
type CostEstimate struct {
	Provider              string  `json:"provider"`
	EstimatedInputTokens  int     `json:"estimated_input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	EstimatedCostUSD      float64 `json:"estimated_cost_usd"`
	IsFree                bool    `json:"is_free"`
}

type ProviderInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Available   bool     `json:"available"`
	Models      []string `json:"models"`
	Cost        string   `json:"cost"`
	Speed       string   `json:"speed"`
	LastError   string   `json:"last_error,omitempty"`
}

// ProviderHealth is one advisory probe outcome. Overwritten wholesale on each
// check; last write wins.
type ProviderHealth struct {
	Available      bool      `json:"available"`
	LastError      string    `json:"last_error,omitempty"`
	LastCheckedAt  time.Time `json:"last_checked_at"`
	ResponseTimeMS float64   `json:"response_time_ms"`
	Models         []string  `json:"models,omitempty"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}
