package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzelenkov/claimlens/internal/pipeline"
	"github.com/mzelenkov/claimlens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple claims from a file in parallel",
	Long: `Batch verifies many claims concurrently:
- Read claims from the input file (one per line, # for comments)
- Duplicate claims are checked once
- Verify claims in parallel with a configurable worker count
- Write one JSON result per claim to the output directory

Example:
  claimlens batch claims.txt
  claimlens batch claims.txt --concurrency 8 --output-dir ./results
  claimlens batch claims.txt --search serper --timeout 20m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent verifications")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimlens-results", "output directory for result JSON files")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 15*time.Minute, "total timeout for the whole batch")

	// Shared pipeline flags
	batchCmd.Flags().DurationVar(&timeout, "claim-timeout", 90*time.Second, "timeout for individual verifications")
	batchCmd.Flags().StringVar(&userAgent, "ua", "claimlens/0.1 (+https://github.com/mzelenkov/claimlens)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().BoolVar(&noPolish, "no-polish", false, "skip explanation rewriting")
	batchCmd.Flags().StringVar(&searchProvider, "search", "google", "search provider (google, serper)")
	batchCmd.Flags().IntVar(&maxResults, "max-results", 10, "max search results per claim")
	batchCmd.Flags().StringVar(&nlpProvider, "nlp", "openai", "model backend (openai, none)")
	batchCmd.Flags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend (memory, postgres, redis, layered)")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  ClaimLens Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer p.Close()

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading claims from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0

	for i, res := range results {
		if res.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Claim, res.Err)
			continue
		}
		successCount++

		path := filepath.Join(outputDir, fmt.Sprintf("claim-%03d.json", i+1))
		data, err := json.MarshalIndent(res.Result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: marshal result: %v\n", res.Claim, err)
			continue
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: write result: %v\n", res.Claim, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s → %s (%.0f%%)\n", res.Claim, res.Result.Verdict.String(), res.Result.Confidence*100)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d claims\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
