// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LLMConfig holds shared settings for stages that call the chat-completions API.
type LLMConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the bearer token for the chat-completions API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds each chat-completions request (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// TranslateConfig holds settings for the query-translation stage.
type TranslateConfig struct {
	LLMConfig `yaml:",inline"`

	// Temperature for translation calls. Kept low so re-invocation with the
	// same input does not change query semantics (default 0.1).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// CacheTTL bounds memoization of identical input text (default 1h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	LLMConfig `yaml:",inline"`

	// Temperature for summarization calls (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// PubMedConfig holds settings for the E-utilities search and fetch stage.
type PubMedConfig struct {
	// UserAgent is the User-Agent header sent with E-utilities requests
	// (e.g. "medquery/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// APIKey is the NCBI E-utilities API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// SearchTimeout is the esearch request timeout (default 30s).
	SearchTimeout time.Duration `json:"search_timeout" yaml:"search_timeout"`

	// FetchTimeout is the efetch request timeout (default 60s).
	FetchTimeout time.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`

	// RequestsPerSecond caps the E-utilities call rate. NCBI allows 10 rps
	// with an API key and 3 rps without (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// CacheTTL bounds memoization of identical search and fetch requests
	// (default 2m).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
}

// PipelineConfig holds settings for the orchestrator.
type PipelineConfig struct {
	// MaxResults is the default result cap for one-shot searches (default 5,
	// bounded to 1..20 by the CLI surface).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ChatMaxResults is the fixed small result cap used per chat turn (default 5).
	ChatMaxResults int `json:"chat_max_results" yaml:"chat_max_results"`

	// SummaryWorkers bounds concurrent per-record summarization. 1 means
	// sequential (default 3).
	SummaryWorkers int `json:"summary_workers" yaml:"summary_workers"`

	// TrustEditedQuery controls whether a user-edited query string is passed
	// through as-is (true, default) or re-sanitized and rejected when it
	// reduces to nothing (false).
	TrustEditedQuery bool `json:"trust_edited_query" yaml:"trust_edited_query"`
}

// Config groups all stage configurations.
type Config struct {
	Translate TranslateConfig `json:"translate" yaml:"translate"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	PubMed    PubMedConfig    `json:"pubmed" yaml:"pubmed"`
	Pipeline  PipelineConfig  `json:"pipeline" yaml:"pipeline"`
}

// DefaultConfig returns a Config with every default filled in. Credentials
// are left empty; they come from the secret store.
func DefaultConfig() Config {
	return Config{
		Translate: TranslateConfig{
			LLMConfig:   LLMConfig{Model: "gpt-4o-mini", Timeout: 60 * time.Second},
			Temperature: 0.1,
			CacheTTL:    time.Hour,
		},
		Summarize: SummarizeConfig{
			LLMConfig:   LLMConfig{Model: "gpt-4o-mini", Timeout: 60 * time.Second},
			Temperature: 0.3,
		},
		PubMed: PubMedConfig{
			UserAgent:         "medquery/0.1",
			SearchTimeout:     30 * time.Second,
			FetchTimeout:      60 * time.Second,
			RequestsPerSecond: 10,
			CacheTTL:          2 * time.Minute,
		},
		Pipeline: PipelineConfig{
			MaxResults:       5,
			ChatMaxResults:   5,
			SummaryWorkers:   3,
			TrustEditedQuery: true,
		},
	}
}
