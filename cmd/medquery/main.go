// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medquery CLI: natural-language
// PubMed search with Japanese summaries, as a one-shot search or a chat
// session.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ksato/medquery/internal/cache"
	"github.com/ksato/medquery/internal/httputil"
	"github.com/ksato/medquery/internal/llm"
	"github.com/ksato/medquery/internal/pipeline"
	"github.com/ksato/medquery/internal/pubmed"
	"github.com/ksato/medquery/internal/secrets"
	"github.com/ksato/medquery/internal/summarize"
	"github.com/ksato/medquery/internal/translate"
	"github.com/ksato/medquery/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded at startup from .secrets/ and the
// environment.
var loadedSecrets map[string]string

// rootCmd is the base command for the medquery CLI.
var rootCmd = &cobra.Command{
	Use:   "medquery",
	Short: "Natural-language PubMed search with Japanese summaries",
	Long: `medquery turns a Japanese research question into an English PubMed boolean
query, retrieves matching citations through the NCBI E-utilities API, and
summarizes each abstract in Japanese for clinicians.

Two modes: "search" runs one query and prints each record with its summary;
"chat" keeps a conversation going, running the same pipeline per turn.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./medquery.yaml or ~/.config/medquery/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medquery")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medquery"))
		}
	}

	viper.SetEnvPrefix("MEDQUERY")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the defaults, the config file, and MEDQUERY_* environment
// overrides into one Config. Credentials come from the secret store, never
// from the config file.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	viper.SetDefault("translate.model", cfg.Translate.Model)
	viper.SetDefault("translate.temperature", cfg.Translate.Temperature)
	viper.SetDefault("translate.timeout", cfg.Translate.Timeout)
	viper.SetDefault("translate.cache_ttl", cfg.Translate.CacheTTL)
	viper.SetDefault("summarize.model", cfg.Summarize.Model)
	viper.SetDefault("summarize.temperature", cfg.Summarize.Temperature)
	viper.SetDefault("summarize.timeout", cfg.Summarize.Timeout)
	viper.SetDefault("pubmed.user_agent", cfg.PubMed.UserAgent)
	viper.SetDefault("pubmed.search_timeout", cfg.PubMed.SearchTimeout)
	viper.SetDefault("pubmed.fetch_timeout", cfg.PubMed.FetchTimeout)
	viper.SetDefault("pubmed.requests_per_second", cfg.PubMed.RequestsPerSecond)
	viper.SetDefault("pubmed.cache_ttl", cfg.PubMed.CacheTTL)
	viper.SetDefault("pipeline.max_results", cfg.Pipeline.MaxResults)
	viper.SetDefault("pipeline.chat_max_results", cfg.Pipeline.ChatMaxResults)
	viper.SetDefault("pipeline.summary_workers", cfg.Pipeline.SummaryWorkers)
	viper.SetDefault("pipeline.trust_edited_query", cfg.Pipeline.TrustEditedQuery)

	cfg.Translate.Model = viper.GetString("translate.model")
	cfg.Translate.Temperature = viper.GetFloat64("translate.temperature")
	cfg.Translate.Timeout = viper.GetDuration("translate.timeout")
	cfg.Translate.CacheTTL = viper.GetDuration("translate.cache_ttl")
	cfg.Summarize.Model = viper.GetString("summarize.model")
	cfg.Summarize.Temperature = viper.GetFloat64("summarize.temperature")
	cfg.Summarize.Timeout = viper.GetDuration("summarize.timeout")
	cfg.PubMed.UserAgent = viper.GetString("pubmed.user_agent")
	cfg.PubMed.SearchTimeout = viper.GetDuration("pubmed.search_timeout")
	cfg.PubMed.FetchTimeout = viper.GetDuration("pubmed.fetch_timeout")
	cfg.PubMed.RequestsPerSecond = viper.GetFloat64("pubmed.requests_per_second")
	cfg.PubMed.CacheTTL = viper.GetDuration("pubmed.cache_ttl")
	cfg.Pipeline.MaxResults = viper.GetInt("pipeline.max_results")
	cfg.Pipeline.ChatMaxResults = viper.GetInt("pipeline.chat_max_results")
	cfg.Pipeline.SummaryWorkers = viper.GetInt("pipeline.summary_workers")
	cfg.Pipeline.TrustEditedQuery = viper.GetBool("pipeline.trust_edited_query")

	cfg.Translate.APIKey = loadedSecrets[secrets.KeyOpenAI]
	cfg.Summarize.APIKey = loadedSecrets[secrets.KeyOpenAI]
	cfg.PubMed.APIKey = loadedSecrets[secrets.KeyPubMed]

	return cfg
}

// requireSecrets is the startup-fatal credential check run by the commands
// that reach the network.
func requireSecrets() error {
	return secrets.Require(loadedSecrets, secrets.KeyPubMed, secrets.KeyOpenAI)
}

// newPipeline wires the stages from cfg.
func newPipeline(cfg types.Config) *pipeline.Pipeline {
	translator := &translate.Translator{
		Backend: &llm.Client{
			APIKey: cfg.Translate.APIKey,
			Model:  cfg.Translate.Model,
			HTTP:   httputil.NewClient(cfg.Translate.Timeout),
		},
		Temperature: cfg.Translate.Temperature,
		Cache:       cache.New[string](cfg.Translate.CacheTTL),
	}
	summarizer := &summarize.Summarizer{
		Backend: &llm.Client{
			APIKey: cfg.Summarize.APIKey,
			Model:  cfg.Summarize.Model,
			HTTP:   httputil.NewClient(cfg.Summarize.Timeout),
		},
		Temperature: cfg.Summarize.Temperature,
	}
	return &pipeline.Pipeline{
		Translator: translator,
		PubMed:     pubmed.NewClient(cfg.PubMed),
		Summarizer: summarizer,
		Config:     cfg.Pipeline,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
