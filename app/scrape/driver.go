package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
	"golang.org/x/time/rate"
)

// Result is what one member's listing produced. Err is set when the listing
// could not be fetched or parsed.
type Result struct {
	Rows    []amendment.ParsedRow
	Details map[string]string
	Err     error
}

type Driver struct {
	pipeline  *cfg.Pipeline
	roster    []amendment.Member
	fetcher   PageFetcher
	parser    *amendment.Parser
	extractor *amendment.DetailExtractor
	limiter   *rate.Limiter
	records   database.RecordStore
	runs      database.RunStore
	now       func() time.Time
}

// NewLimiter spaces outbound LIS requests by delay. One limiter is shared by
// every partition so concurrent runs keep the sequential rate.
func NewLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

func NewDriver(pipeline *cfg.Pipeline, roster []amendment.Member, fetcher PageFetcher, parser *amendment.Parser, extractor *amendment.DetailExtractor, limiter *rate.Limiter, records database.RecordStore, runs database.RunStore) *Driver {
	return &Driver{
		pipeline:  pipeline,
		roster:    roster,
		fetcher:   fetcher,
		parser:    parser,
		extractor: extractor,
		limiter:   limiter,
		records:   records,
		runs:      runs,
		now:       time.Now,
	}
}

// Sequence lazily fetches and parses the listing of each member in roster
// order. Nothing is fetched until the sequence is ranged over, every range
// starts again from the first member, and breaking out stops fetching.
func (d *Driver) Sequence(ctx context.Context, roster []amendment.Member, partition cfg.Partition) iter.Seq2[amendment.Member, Result] {
	return func(yield func(amendment.Member, Result) bool) {
		for _, member := range roster {
			if err := d.limiter.Wait(ctx); err != nil {
				yield(member, Result{Err: err})
				return
			}
			if !yield(member, d.fetchMember(ctx, member, partition)) {
				return
			}
		}
	}
}

func (d *Driver) fetchMember(ctx context.Context, member amendment.Member, partition cfg.Partition) Result {
	data, err := d.fetcher.FetchAmendments(ctx, member.Code(), partition.Year, partition.Session)
	if err != nil {
		return Result{Err: err}
	}

	rows, err := d.parser.Run(data)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to parse listing: %w", err)}
	}

	result := Result{Rows: rows}
	if d.pipeline.ExtractDetails && d.extractor != nil {
		result.Details = d.fetchDetails(ctx, rows)
	}

	return result
}

func (d *Driver) fetchDetails(ctx context.Context, rows []amendment.ParsedRow) map[string]string {
	details := make(map[string]string)

	for _, row := range rows {
		if row.DetailURL == "" {
			continue
		}
		if _, ok := details[row.DetailURL]; ok {
			continue
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return details
		}

		data, err := d.fetcher.FetchPage(ctx, row.DetailURL)
		if err != nil {
			slog.Warn("Failed to fetch amendment detail", "url", row.DetailURL, "error", err)
			continue
		}

		text, err := d.extractor.Run(data, row.DetailURL)
		if err != nil {
			slog.Debug("No detail text extracted", "url", row.DetailURL, "error", err)
			continue
		}

		details[row.DetailURL] = text
	}

	return details
}

// RunPartition scrapes every roster member for one partition, publishes the
// card file and replaces the partition's stored records.
func (d *Driver) RunPartition(ctx context.Context, partition cfg.Partition) (database.Run, error) {
	run := database.Run{
		ID:        uuid.NewString(),
		Year:      partition.Year,
		Bill:      partition.Bill,
		StartedAt: d.now().UTC(),
	}

	cards := make(map[string]amendment.Card, len(d.roster))
	records := []amendment.Record{}

	for member, result := range d.Sequence(ctx, d.roster, partition) {
		if ctx.Err() != nil {
			break
		}

		if result.Err != nil {
			slog.Warn("Failed to fetch member requests",
				"member", member.ID,
				"year", partition.Year,
				"bill", partition.Bill,
				"error", result.Err)
			run.Failures++
		}

		requests, memberRecords := amendment.BuildMemberRequests(member, partition.Year, partition.Bill, result.Rows, result.Details)
		profileURL := d.fetcher.MemberURL(member.Code(), partition.Year, partition.Session)
		cards[member.ID] = amendment.BuildCard(member, partition.Bill, requests, profileURL, d.now())
		records = append(records, memberRecords...)
	}

	if err := ctx.Err(); err != nil {
		return run, fmt.Errorf("partition %s interrupted: %w", partition, err)
	}

	run.Members = len(cards)
	run.Records = len(records)

	if err := d.publish(partition, cards); err != nil {
		return d.fail(ctx, run, err)
	}

	if err := d.records.ReplacePartition(ctx, partition.Year, partition.Bill, records); err != nil {
		return d.fail(ctx, run, fmt.Errorf("failed to store records: %w", err))
	}

	run.Status = database.RunStatusSuccess
	if run.Failures > 0 {
		run.Status = database.RunStatusPartial
	}
	run.FinishedAt = d.now().UTC()

	if err := d.runs.RecordRun(ctx, run, run.FinishedAt.Add(d.pipeline.RefreshInterval)); err != nil {
		return run, fmt.Errorf("failed to record run: %w", err)
	}

	slog.Info("Partition scraped",
		"year", partition.Year,
		"bill", partition.Bill,
		"members", run.Members,
		"records", run.Records,
		"failures", run.Failures,
		"duration", run.Duration())

	return run, nil
}

func (d *Driver) fail(ctx context.Context, run database.Run, cause error) (database.Run, error) {
	run.Status = database.RunStatusFailed
	run.Error = cause.Error()
	run.FinishedAt = d.now().UTC()

	if err := d.runs.RecordRun(ctx, run, run.FinishedAt.Add(d.pipeline.RefreshInterval)); err != nil {
		return run, errors.Join(cause, fmt.Errorf("failed to record run: %w", err))
	}

	return run, cause
}

// publish writes the same JSON bytes to the data and frontend data dirs.
func (d *Driver) publish(partition cfg.Partition, cards map[string]amendment.Card) error {
	data, err := EncodeCards(cards)
	if err != nil {
		return err
	}

	name := partition.OutputFileName()
	for _, dir := range []string{d.pipeline.DataDir, d.pipeline.FrontendDataDir} {
		if err := writeFile(filepath.Join(dir, name), data); err != nil {
			return err
		}
	}

	return nil
}

// EncodeCards renders the card file: a pretty-printed JSON object keyed by
// legislator id.
func EncodeCards(cards map[string]amendment.Card) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(cards); err != nil {
		return nil, fmt.Errorf("failed to encode cards: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
