// ABOUTME: Main entry point for the singlepage command line tool
// ABOUTME: Wires configuration, logging, cache and HTTP client into the page saving pipeline

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	coreerrors "github.com/ninimihaila/singlepage/core/errors"
	"github.com/ninimihaila/singlepage/core/fetch"
	"github.com/ninimihaila/singlepage/core/inline"
	"github.com/ninimihaila/singlepage/core/interfaces"
	"github.com/ninimihaila/singlepage/core/pipeline"
	"github.com/ninimihaila/singlepage/infrastructure/cache/memory"
	stdhttp "github.com/ninimihaila/singlepage/infrastructure/http/standard"
	stdlogger "github.com/ninimihaila/singlepage/infrastructure/logger/standard"
	"github.com/ninimihaila/singlepage/pkg/config"
	"github.com/ninimihaila/singlepage/pkg/featureflags"
)

const defaultOutput = "out.html"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		stop()
		os.Exit(1)
	}
}

// diagnostic formats the stderr line printed before exiting with status 1
func diagnostic(err error) string {
	switch {
	case coreerrors.IsFatal(err) && coreerrors.IsFetch(err):
		return fmt.Sprintf("Error: could not fetch page: %v", err)
	case coreerrors.IsFatal(err):
		return fmt.Sprintf("Error: page not saved: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func rootCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "singlepage <source>",
		Short: "Save a webpage as a single file",
		Long: `Singlepage fetches a web page together with every script, stylesheet
and image it references and writes one self-contained HTML file with all of
them embedded inline.

Settings are read from SINGLEPAGE_* environment variables; inlining of each
resource kind can be turned off with FEATURE_INLINE_SCRIPTS, FEATURE_INLINE_STYLES
and FEATURE_INLINE_IMAGES.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], out, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", defaultOutput, "the output file")

	return cmd
}

func run(ctx context.Context, source, out string, stderr io.Writer) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := stdlogger.NewStandardLogger(stderr, cfg.Log.Level)

	deps := interfaces.Dependencies{
		NewCache: memory.Factory(),
		HTTPClient: stdhttp.NewStandardHTTPClient(stdhttp.Config{
			Timeout:     cfg.Fetch.RequestTimeout,
			MaxAttempts: cfg.Fetch.MaxAttempts(),
			RateLimit:   cfg.Fetch.RateLimit,
			UserAgent:   cfg.Fetch.UserAgent,
		}),
		Logger: logger,
	}

	flags := featureflags.NewEnvManager("")
	logger.Debug("Configuration loaded", map[string]interface{}{
		"concurrency": cfg.Fetch.Concurrency,
		"timeout":     cfg.Fetch.Timeout.String(),
		"max_body":    humanize.IBytes(uint64(cfg.Fetch.MaxBodyBytes)),
		"flags":       flags.GetAllFlags(),
	})

	saver := pipeline.NewService(deps,
		pipeline.WithFetcher(fetch.NewService(deps,
			fetch.WithConcurrency(cfg.Fetch.Concurrency),
			fetch.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
		)),
		pipeline.WithInliner(inline.NewService(deps, inline.WithFlags(flags))),
		pipeline.WithMaxPageBytes(cfg.Fetch.MaxBodyBytes),
	)

	ctx, cancel := context.WithTimeout(ctx, cfg.Fetch.Timeout)
	defer cancel()

	// Render into memory so a failed run leaves no partial file behind
	var buf bytes.Buffer
	result, err := saver.Save(ctx, source, &buf)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("Saved page", map[string]interface{}{
		"output":    out,
		"size":      humanize.Bytes(uint64(result.OutputBytes)),
		"page":      humanize.Bytes(uint64(result.PageBytes)),
		"fetched":   humanize.Bytes(uint64(result.ResourceBytes)),
		"resources": result.Resources,
		"failed":    result.Failed,
		"inlined":   result.Inlined,
		"warnings":  len(result.Warnings),
		"elapsed":   result.Elapsed.Round(time.Millisecond).String(),
	})

	return nil
}
