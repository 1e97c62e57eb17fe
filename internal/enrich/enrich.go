// Package enrich runs the CSV augmentation batch: read the evaluation table,
// resolve instructor first names row by row, derive gender labels, and write
// the augmented table.
package enrich

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/qguide-enricher/internal/gender"
	"github.com/jonathan/qguide-enricher/internal/observability"
	"github.com/jonathan/qguide-enricher/internal/resolve"
)

// Column names in the source and output tables.
const (
	ColumnTeacher   = "course_teacher"
	ColumnLink      = "link"
	ColumnFirstName = "course_teacher_first_name"
	ColumnSex       = "course_teacher_sex"
)

// progressInterval is how many rows pass between progress log lines.
const progressInterval = 25

// Options configures one batch run.
type Options struct {
	InputPath  string
	OutputPath string
	Force      bool
	// Limit processes only the first N rows; 0 processes all. Rows past the
	// limit pass through untouched.
	Limit int
	// ReuseFirstNames keeps pre-existing first-name values instead of
	// re-fetching them.
	ReuseFirstNames bool
}

// Run executes the batch. Per-row failures are never fatal; only a missing
// input file or a pre-existing output without Force abort the run.
func Run(ctx context.Context, opts Options, resolver *resolve.Resolver, detector *gender.Detector) (*observability.RunSummary, error) {
	if _, err := os.Stat(opts.InputPath); err != nil {
		return nil, fmt.Errorf("input file %s does not exist: %w", opts.InputPath, err)
	}
	if !opts.Force {
		if _, err := os.Stat(opts.OutputPath); err == nil {
			return nil, fmt.Errorf("output file %s already exists; use --force to overwrite", opts.OutputPath)
		}
	}

	header, rows, err := readTable(opts.InputPath)
	if err != nil {
		return nil, err
	}
	firstCol := ensureColumn(&header, ColumnFirstName)
	sexCol := ensureColumn(&header, ColumnSex)
	teacherCol := columnIndex(header, ColumnTeacher)
	linkCol := columnIndex(header, ColumnLink)

	summary := &observability.RunSummary{
		RunID:      uuid.NewString(),
		OutputPath: opts.OutputPath,
	}

	for i := range rows {
		rows[i] = padRow(rows[i], len(header))
		idx := i + 1
		if opts.Limit > 0 && idx > opts.Limit {
			continue
		}

		lastName := cellAt(rows[i], teacherCol)
		link := cellAt(rows[i], linkCol)
		if lastName == "" {
			slog.Warn("row lacks a course_teacher value; skipping", "row", idx)
			summary.Skipped++
			continue
		}

		first := strings.TrimSpace(rows[i][firstCol])
		if first != "" && opts.ReuseFirstNames {
			summary.Reused++
		} else {
			first, _ = resolver.Resolve(ctx, link, lastName)
		}
		rows[i][firstCol] = first

		if existingSex := strings.TrimSpace(rows[i][sexCol]); existingSex != "" {
			rows[i][sexCol] = existingSex
		} else {
			rows[i][sexCol] = detector.Sex(first)
		}

		if idx%progressInterval == 0 {
			display := first
			if display == "" {
				display = "?"
			}
			slog.Info("progress", "rows", idx, "last", display+" "+lastName)
		}
	}

	if err := writeTable(opts.OutputPath, header, rows); err != nil {
		return nil, err
	}

	stats := resolver.Stats()
	summary.RowsWritten = len(rows)
	summary.Resolved = stats.Resolved
	summary.Fetches = stats.Fetches
	summary.CacheHits = stats.CacheHits
	summary.AuthFailures = stats.AuthFailures
	return summary, nil
}

// readTable reads the whole CSV, tolerating ragged rows. The first record is
// the header.
func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("input file %s has no header row", path)
	}
	return records[0], records[1:], nil
}

func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := writer.Write(padRow(row, len(header))); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// ensureColumn returns the index of name in header, appending it when absent.
func ensureColumn(header *[]string, name string) int {
	if idx := columnIndex(*header, name); idx >= 0 {
		return idx
	}
	*header = append(*header, name)
	return len(*header) - 1
}

func columnIndex(header []string, name string) int {
	for i, column := range header {
		if column == name {
			return i
		}
	}
	return -1
}

// padRow extends row with empty cells up to width.
func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// cellAt returns the trimmed cell at idx, or "" when the column is absent.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
