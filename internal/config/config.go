// Package config provides configuration loading and validation for the
// search pipeline.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds every recognized pipeline tunable. All fields are optional in
// the JSON file; missing values fall back to Default().
type Config struct {
	// Models
	LLMModel       string `json:"llm_model,omitempty"`       // Generative model for expansion and extraction
	EmbeddingModel string `json:"embedding_model,omitempty"` // Dense embedding model for ranking
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key (env GEMINI_API_KEY wins)

	// Search volume
	SearchResultsCount int `json:"search_results_count,omitempty"` // Total target result count across sub-queries
	TopNPages          int `json:"top_n_pages,omitempty"`          // Pages to analyze after ranking

	// Thresholds
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"` // Minimum cosine similarity (0-1)

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless-browser fallback for SPA job boards
	Verbose    bool `json:"verbose,omitempty"`     // Detailed console output
}

// Fixed pipeline constants. These are deliberately not configurable: the
// retry policy and content floor are part of the pipeline's contract.
const (
	// MaxAttempts is the maximum number of orchestrated search attempts.
	MaxAttempts = 2
	// MinimumJobsThreshold stops the retry loop once this many jobs are found.
	MinimumJobsThreshold = 3
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		LLMModel:            "gemini-2.5-flash",
		EmbeddingModel:      "text-embedding-004",
		SearchResultsCount:  25,
		TopNPages:           8,
		SimilarityThreshold: 0.40,
	}
}

// Load reads configuration from a JSON file and merges it over Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return cfg.MergeWithDefaults(Default()), nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Bool fields are not merged; flags always win for those.
func (c Config) MergeWithDefaults(defaults Config) Config {
	result := c

	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.EmbeddingModel == "" {
		result.EmbeddingModel = defaults.EmbeddingModel
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SearchResultsCount == 0 {
		result.SearchResultsCount = defaults.SearchResultsCount
	}
	if result.TopNPages == 0 {
		result.TopNPages = defaults.TopNPages
	}
	if result.SimilarityThreshold == 0 {
		result.SimilarityThreshold = defaults.SimilarityThreshold
	}

	return result
}

// Validate checks that the configuration has usable values.
func (c Config) Validate() error {
	if c.SearchResultsCount < 1 {
		return fmt.Errorf("config error: 'search_results_count' must be positive")
	}
	if c.TopNPages < 1 {
		return fmt.Errorf("config error: 'top_n_pages' must be positive")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("config error: 'similarity_threshold' must be in [0, 1]")
	}
	return nil
}
