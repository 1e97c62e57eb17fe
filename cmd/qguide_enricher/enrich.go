package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/qguide-enricher/internal/config"
	"github.com/jonathan/qguide-enricher/internal/enrich"
	"github.com/jonathan/qguide-enricher/internal/fetch"
	"github.com/jonathan/qguide-enricher/internal/gender"
	"github.com/jonathan/qguide-enricher/internal/observability"
	"github.com/jonathan/qguide-enricher/internal/resolve"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Add instructor first names to a Harvard Q CSV",
	Long: "Reads the source CSV, resolves each row's report link to an instructor first name, " +
		"derives a course_teacher_sex label, and writes the augmented CSV.",
	RunE: runEnrich,
}

var (
	enrichInput      string
	enrichOutput     string
	enrichForce      bool
	enrichCookie     string
	enrichDelay      time.Duration
	enrichMaxRetries int
	enrichLimit      int
	enrichLogLevel   string
	enrichNoReuse    bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichInput, "input", "i", config.DefaultInput, "Path to the source CSV")
	enrichCmd.Flags().StringVarP(&enrichOutput, "output", "o", "", "Destination CSV (default: <input>_with_first_names<ext>)")
	enrichCmd.Flags().BoolVar(&enrichForce, "force", false, "Overwrite the output file if it already exists")
	enrichCmd.Flags().StringVar(&enrichCookie, "harvard-q-cookie", "", "Cookie header for your Harvard Q session (overrides HARVARD_Q_COOKIE)")
	enrichCmd.Flags().DurationVar(&enrichDelay, "delay", config.DefaultDelay, "Wait between HTTP requests")
	enrichCmd.Flags().IntVar(&enrichMaxRetries, "max-retries", config.DefaultMaxRetries, "Maximum attempts per request before giving up")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Only process the first N rows (0 = all)")
	enrichCmd.Flags().StringVar(&enrichLogLevel, "log-level", config.DefaultLogLevel, "Logging level (debug, info, warn, error)")
	enrichCmd.Flags().BoolVar(&enrichNoReuse, "no-reuse-first-names", false, "Always re-fetch first names even if the input already has values")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, _ []string) error {
	observability.SetupLogging(enrichLogLevel)

	output := enrichOutput
	if output == "" {
		output = config.DefaultOutputPath(enrichInput)
	}
	opts := &config.Options{
		InputPath:       enrichInput,
		OutputPath:      output,
		Force:           enrichForce,
		Cookie:          config.ResolveCookie(enrichCookie),
		Delay:           enrichDelay,
		MaxRetries:      enrichMaxRetries,
		Limit:           enrichLimit,
		LogLevel:        enrichLogLevel,
		ReuseFirstNames: !enrichNoReuse,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts.Cookie == "" {
		slog.Warn("no session cookie provided; every resolution will be skipped",
			"env", config.EnvCookie)
	}

	client := fetch.NewClient(&fetch.Options{
		Credential: opts.Cookie,
		Delay:      opts.Delay,
		MaxRetries: opts.MaxRetries,
	})
	resolver := resolve.New(client)

	detector, err := gender.NewDetector()
	if err != nil {
		return fmt.Errorf("failed to load gender detector: %w", err)
	}

	summary, err := enrich.Run(context.Background(), enrich.Options{
		InputPath:       opts.InputPath,
		OutputPath:      opts.OutputPath,
		Force:           opts.Force,
		Limit:           opts.Limit,
		ReuseFirstNames: opts.ReuseFirstNames,
	}, resolver, detector)
	if err != nil {
		return err
	}

	slog.Info("wrote output", "rows", summary.RowsWritten, "path", summary.OutputPath)
	observability.RenderSummary(os.Stdout, *summary)
	return nil
}
