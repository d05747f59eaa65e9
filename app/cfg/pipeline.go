package cfg

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRequestDelay    = 750 * time.Millisecond
	DefaultTimeout         = 30 * time.Second
	DefaultRefreshInterval = 24 * time.Hour
	DefaultDataDir         = "data"
	DefaultFrontendDataDir = "frontend/src/data"
	DefaultLISBaseURL      = "https://budget.lis.virginia.gov"
)

var SupportedBills = []string{"HB30", "HB1600", "SB30", "SB1600"}

func ValidBill(bill string) bool {
	return slices.Contains(SupportedBills, bill)
}

// DefaultPartitions are scraped when the pipeline file lists none.
func DefaultPartitions() []Partition {
	return []Partition{
		{Year: 2024, Bill: "HB30", Session: 1},
		{Year: 2025, Bill: "HB1600", Session: 1},
	}
}

// LoadPipeline reads the pipeline file. A missing file yields the defaults.
func LoadPipeline(path string) (*Pipeline, error) {
	var pipeline Pipeline

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		slog.Debug("Pipeline file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &pipeline); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	pipeline.applyDefaults()

	if err := pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config %s: %w", path, err)
	}

	return &pipeline, nil
}

func (p *Pipeline) applyDefaults() {
	if len(p.Partitions) == 0 {
		p.Partitions = DefaultPartitions()
	}
	for i := range p.Partitions {
		if p.Partitions[i].Session == 0 {
			p.Partitions[i].Session = 1
		}
	}
	if p.RequestDelay == 0 {
		p.RequestDelay = DefaultRequestDelay
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultTimeout
	}
	if p.RefreshInterval == 0 {
		p.RefreshInterval = DefaultRefreshInterval
	}
	if p.DataDir == "" {
		p.DataDir = DefaultDataDir
	}
	if p.FrontendDataDir == "" {
		p.FrontendDataDir = DefaultFrontendDataDir
	}
	if p.LISBaseURL == "" {
		p.LISBaseURL = DefaultLISBaseURL
	}
}

func (p *Pipeline) Validate() error {
	if p == nil {
		return fmt.Errorf("pipeline is nil")
	}

	seen := make(map[Partition]bool, len(p.Partitions))
	for _, partition := range p.Partitions {
		if partition.Year < 2000 {
			return fmt.Errorf("partition %s has invalid year %d", partition.Bill, partition.Year)
		}
		if !ValidBill(partition.Bill) {
			return fmt.Errorf("partition %d has unsupported bill %q", partition.Year, partition.Bill)
		}
		if seen[partition] {
			return fmt.Errorf("duplicate partition %d/%s", partition.Year, partition.Bill)
		}
		seen[partition] = true
	}

	if p.RequestDelay < 0 {
		return fmt.Errorf("request_delay must not be negative")
	}
	if p.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// Select returns the configured partitions matching a year and bill filter;
// zero values match everything.
func (p *Pipeline) Select(year int, bill string) []Partition {
	var selected []Partition
	for _, partition := range p.Partitions {
		if year != 0 && partition.Year != year {
			continue
		}
		if bill != "" && partition.Bill != bill {
			continue
		}
		selected = append(selected, partition)
	}
	return selected
}

// Find returns the configured partition for year and bill.
func (p *Pipeline) Find(year int, bill string) (Partition, bool) {
	for _, partition := range p.Partitions {
		if partition.Year == year && partition.Bill == bill {
			return partition, true
		}
	}
	return Partition{}, false
}

func (p Partition) String() string {
	return fmt.Sprintf("%d/%s", p.Year, p.Bill)
}

// OutputFileName is the card file published for a partition.
func (p Partition) OutputFileName() string {
	return fmt.Sprintf("lis_member_requests_%d_%s.json", p.Year, p.Bill)
}
