package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dovvnloading/Leadz/internal/config"
	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/search"
	"github.com/dovvnloading/Leadz/internal/server"
	"github.com/dovvnloading/Leadz/internal/server/ratelimit"
	"github.com/dovvnloading/Leadz/internal/websearch"
)

var (
	servePort       int
	serveConfigPath string
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running job searches, with per-client rate limiting and SSE streaming.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if serveConfigPath != "" {
		loaded, err := config.Load(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = serveUseBrowser
	}

	// Get API key from environment
	if envKey := os.Getenv("GEMINI_API_KEY"); envKey != "" {
		cfg.APIKey = envKey
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := llm.NewGeminiClient(context.Background(), cfg.LLMModel, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	newEmbedder := func(ctx context.Context) (llm.Embedder, error) {
		return llm.NewGeminiEmbedder(ctx, cfg.EmbeddingModel, cfg.APIKey)
	}

	orchestrator := search.NewOrchestrator(cfg, client, websearch.NewDuckDuckGo(), newEmbedder)

	srv := server.New(orchestrator, server.Options{
		Port:      servePort,
		RateLimit: ratelimit.LoadConfig(),
	})
	return srv.Start()
}
