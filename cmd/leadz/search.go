package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dovvnloading/Leadz/internal/config"
	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/observability"
	"github.com/dovvnloading/Leadz/internal/search"
	"github.com/dovvnloading/Leadz/internal/websearch"
)

var searchCommand = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a job search end-to-end and print the results",
	Long: `Runs the full search pipeline for a plain-language job request: query expansion -> web search -> page fetch -> semantic ranking -> structured extraction.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

var (
	searchConfigPath     string
	searchAPIKey         string
	searchModel          string
	searchEmbeddingModel string
	searchUseBrowser     bool
	searchVerbose        bool
)

func init() {
	searchCommand.Flags().StringVar(&searchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	searchCommand.Flags().StringVar(&searchModel, "model", "", "Generative model for query expansion and extraction")
	searchCommand.Flags().StringVar(&searchEmbeddingModel, "embedding-model", "", "Embedding model for page ranking")
	searchCommand.Flags().BoolVar(&searchUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	searchCommand.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	searchCommand.Flags().StringVar(&searchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(searchCommand)
}

// buildSearchConfig merges the config file, environment, and flags in
// ascending priority.
func buildSearchConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if searchConfigPath != "" {
		loaded, err := config.Load(searchConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if searchVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", searchConfigPath)
		}
	}

	if envKey := os.Getenv("GEMINI_API_KEY"); envKey != "" {
		cfg.APIKey = envKey
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = searchAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.LLMModel = searchModel
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.EmbeddingModel = searchEmbeddingModel
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = searchUseBrowser
	}
	cfg.Verbose = cfg.Verbose || searchVerbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.APIKey == "" {
		return config.Config{}, fmt.Errorf("an API key is required: set GEMINI_API_KEY or pass --api-key")
	}
	return cfg, nil
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))

	cfg, err := buildSearchConfig(cmd)
	if err != nil {
		return err
	}

	// Ctrl-C cancels the running search.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewGeminiClient(ctx, cfg.LLMModel, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	newEmbedder := func(ctx context.Context) (llm.Embedder, error) {
		return llm.NewGeminiEmbedder(ctx, cfg.EmbeddingModel, cfg.APIKey)
	}

	orchestrator := search.NewOrchestrator(cfg, client, websearch.NewDuckDuckGo(), newEmbedder)
	session := orchestrator.Start(ctx, query)

	printer := observability.NewPrinter(os.Stdout)
	count := 0

	statusCh, jobsCh := session.Status(), session.Jobs()
	for statusCh != nil || jobsCh != nil {
		select {
		case msg, ok := <-statusCh:
			if !ok {
				statusCh = nil
				continue
			}
			printer.PrintStatus(msg)
		case job, ok := <-jobsCh:
			if !ok {
				jobsCh = nil
				continue
			}
			count++
			printer.PrintJobRecord(&job)
		}
	}
	<-session.Done()

	if ctx.Err() != nil {
		return fmt.Errorf("search interrupted")
	}
	fmt.Fprintf(os.Stdout, "\nFound %d job lead(s) for %q.\n", count, query)
	return nil
}
