package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/qguide-enricher/internal/config"
	"github.com/jonathan/qguide-enricher/internal/fetch"
	"github.com/jonathan/qguide-enricher/internal/gender"
	"github.com/jonathan/qguide-enricher/internal/observability"
	"github.com/jonathan/qguide-enricher/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single report URL (debugging aid)",
	Long:  "Fetches one report page and prints the extracted first name and gender label, without touching any CSV.",
	RunE:  runResolve,
}

var (
	resolveURL        string
	resolveLastName   string
	resolveCookie     string
	resolveDelay      time.Duration
	resolveMaxRetries int
	resolveLogLevel   string
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveURL, "url", "u", "", "Report URL to fetch (required)")
	resolveCmd.Flags().StringVarP(&resolveLastName, "last-name", "l", "", "Instructor last name to anchor on (required)")
	resolveCmd.Flags().StringVar(&resolveCookie, "harvard-q-cookie", "", "Cookie header for your Harvard Q session (overrides HARVARD_Q_COOKIE)")
	resolveCmd.Flags().DurationVar(&resolveDelay, "delay", config.DefaultDelay, "Wait between HTTP requests")
	resolveCmd.Flags().IntVar(&resolveMaxRetries, "max-retries", config.DefaultMaxRetries, "Maximum attempts per request before giving up")
	resolveCmd.Flags().StringVar(&resolveLogLevel, "log-level", config.DefaultLogLevel, "Logging level (debug, info, warn, error)")

	if err := resolveCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}
	if err := resolveCmd.MarkFlagRequired("last-name"); err != nil {
		panic(fmt.Sprintf("failed to mark last-name flag as required: %v", err))
	}

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, _ []string) error {
	observability.SetupLogging(resolveLogLevel)

	client := fetch.NewClient(&fetch.Options{
		Credential: config.ResolveCookie(resolveCookie),
		Delay:      resolveDelay,
		MaxRetries: resolveMaxRetries,
	})
	resolver := resolve.New(client)

	first, ok := resolver.Resolve(context.Background(), resolveURL, resolveLastName)
	if !ok {
		_, _ = fmt.Fprintln(os.Stdout, "No first name resolved.")
		return nil
	}

	detector, err := gender.NewDetector()
	if err != nil {
		return fmt.Errorf("failed to load gender detector: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "First name: %s\n", first)
	_, _ = fmt.Fprintf(os.Stdout, "Sex: %s\n", detector.Sex(first))
	return nil
}
