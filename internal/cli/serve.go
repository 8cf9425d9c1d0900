package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzelenkov/claimlens/internal/pipeline"
	"github.com/mzelenkov/claimlens/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification API",
	Long: `Serve starts the JSON API used by chat and bot frontends:

  POST /api/verify   {"message": "...", "max_results": 10, "image_marker": ""}
  GET  /api/health

The server shares one pipeline (and one cache) across requests and
shuts down gracefully on SIGINT/SIGTERM.

Example:
  claimlens serve
  claimlens serve --addr :9090 --cache-backend redis`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")

	// Shared pipeline flags
	serveCmd.Flags().DurationVar(&timeout, "claim-timeout", 90*time.Second, "timeout for individual verifications")
	serveCmd.Flags().StringVar(&userAgent, "ua", "claimlens/0.1 (+https://github.com/mzelenkov/claimlens)", "HTTP User-Agent")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	serveCmd.Flags().BoolVar(&noPolish, "no-polish", false, "skip explanation rewriting")
	serveCmd.Flags().StringVar(&searchProvider, "search", "google", "search provider (google, serper)")
	serveCmd.Flags().IntVar(&maxResults, "max-results", 10, "max search results per claim")
	serveCmd.Flags().StringVar(&nlpProvider, "nlp", "openai", "model backend (openai, none)")
	serveCmd.Flags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend (memory, postgres, redis, layered)")
	serveCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	serveCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Server.Addr = serveAddr

	p, err := pipeline.New(cfg)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer p.Close()

	srv := server.New(p, cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "ClaimLens API listening on %s\n", cfg.Server.Addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
