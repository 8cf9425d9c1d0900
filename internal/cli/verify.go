package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzelenkov/claimlens/internal/model"
	"github.com/mzelenkov/claimlens/internal/pipeline"
)

var (
	outJSON        string
	timeout        time.Duration
	userAgent      string
	maxBytes       int64
	noCache        bool
	noPolish       bool
	searchProvider string
	maxResults     int
	nlpProvider    string
	cacheBackend   string
	httpProxy      string
	httpsProxy     string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <claim>",
	Short: "Verify a single claim against web evidence",
	Long: `Verify runs the full pipeline for one claim:
- Search the web for coverage of the claim
- Fetch and extract text from the result pages
- Rank sentences by semantic relevance to the claim
- Classify each as supporting or contradicting
- Fuse the signals into a verdict with a cited explanation

Example:
  claimlens verify "the great wall of china is visible from space"
  claimlens verify "drinking bleach cures covid" --json result.json
  claimlens verify "some claim" --search serper --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "", "write full result JSON to path (default: human-readable to stdout)")

	// Pipeline flags
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "overall verification timeout")
	verifyCmd.Flags().StringVar(&userAgent, "ua", "claimlens/0.1 (+https://github.com/mzelenkov/claimlens)", "HTTP User-Agent")
	verifyCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read per page")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache (force fresh verification)")
	verifyCmd.Flags().BoolVar(&noPolish, "no-polish", false, "skip explanation rewriting, keep the deterministic text")
	verifyCmd.Flags().StringVar(&searchProvider, "search", "google", "search provider (google, serper)")
	verifyCmd.Flags().IntVar(&maxResults, "max-results", 10, "max search results to consider")
	verifyCmd.Flags().StringVar(&nlpProvider, "nlp", "openai", "model backend (openai, none)")
	verifyCmd.Flags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend (memory, postgres, redis, layered)")
	verifyCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	verifyCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	claim := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Search: %s\n", cfg.Search.Provider)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer p.Close()

	result, err := p.Verify(ctx, claim)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if outJSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
		return nil
	}

	printResult(result)
	return nil
}

// buildConfig assembles the configuration shared by verify, batch, and
// serve from defaults, flags, and API keys in the environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Verbose = verbose
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Concurrency.RequestTimeout = timeout
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Backend = cacheBackend
	cfg.Search.Provider = searchProvider
	cfg.Search.MaxResults = maxResults
	cfg.NLP.Provider = nlpProvider
	if noPolish {
		cfg.NLP.RewriteModel = ""
	}

	switch cfg.Search.Provider {
	case "google", "":
		cfg.Search.APIKey = os.Getenv("GOOGLE_API_KEY")
		cfg.Search.EngineID = os.Getenv("GOOGLE_CSE_ID")
		if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY and GOOGLE_CSE_ID environment variables must be set")
		}
	case "serper":
		cfg.Search.APIKey = os.Getenv("SERPER_API_KEY")
		if cfg.Search.APIKey == "" {
			return nil, fmt.Errorf("SERPER_API_KEY environment variable not set")
		}
	}

	switch cfg.NLP.Provider {
	case "openai":
		cfg.NLP.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.NLP.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set (use --nlp none for heuristics only)")
		}
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			cfg.NLP.BaseURL = baseURL
		}
	case "none":
		cfg.NLP.Provider = ""
	}

	if cfg.Cache.Backend == "postgres" || cfg.Cache.Backend == "layered" {
		cfg.Cache.PostgresURL = os.Getenv("CLAIMLENS_POSTGRES_URL")
	}
	if cfg.Cache.Backend == "redis" {
		if addr := os.Getenv("CLAIMLENS_REDIS_ADDR"); addr != "" {
			cfg.Cache.RedisAddr = addr
		}
	}

	return cfg, nil
}

func printResult(result *model.Result) {
	fmt.Printf("Claim:      %s\n", result.Claim.Text)
	fmt.Printf("Verdict:    %s\n", result.Verdict.String())
	fmt.Printf("Confidence: %.0f%%\n", result.Confidence*100)
	if result.Cached {
		fmt.Printf("(served from cache)\n")
	}
	fmt.Println()
	fmt.Println(result.Explanation.Text())

	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range result.Sources {
			stance := ""
			if src.Stance != "" {
				stance = fmt.Sprintf(" [%s]", src.Stance)
			}
			fmt.Printf("  - %s%s\n", src.URL, stance)
		}
	}

	if len(result.Notes) > 0 {
		fmt.Println()
		for _, note := range result.Notes {
			fmt.Printf("Note: %s\n", note)
		}
	}
}
