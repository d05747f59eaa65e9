package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/lis_comb.db" description:"Path to the SQLite database file"`

	// Pipeline inputs
	PipelinePath string `long:"pipeline" env:"PIPELINE_CONFIG" default:"./pipeline.yml" description:"Pipeline configuration file"`
	RosterPath   string `long:"roster" env:"ROSTER_PATH" default:"./members.yml" description:"Legislator roster file (YAML or JSON)"`

	// Server configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl           string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://lis.example.com)"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for scrape tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"LIS Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type scrapeCmd struct {
	Year int    `long:"year" description:"Only scrape this session year"`
	Bill string `long:"bill" description:"Only scrape this budget bill (HB30, HB1600, SB30, SB1600)"`
}

type serveCmd struct{}

type importCmd struct {
	File string `long:"file" required:"true" description:"JSON Lines file of amendment records"`
	Year int    `long:"year" required:"true" description:"Session year of the imported records"`
	Bill string `long:"bill" required:"true" description:"Budget bill of the imported records"`
}

// Load parses command line arguments and environment variables. It returns
// nil without an error when help was requested.
func Load(args []string) (*Cfg, error) {
	var (
		raw    rawCfg
		scrape scrapeCmd
		serve  serveCmd
		imp    importCmd
	)

	parser := flags.NewParser(&raw, flags.Default)

	commands := []struct {
		name, short, long string
		data              any
	}{
		{CommandScrape, "Scrape member requests", "Fetch member request pages for every configured partition and publish cards", &scrape},
		{CommandServe, "Run the API server", "Serve the aggregation API and re-scrape partitions on a schedule", &serve},
		{CommandImport, "Import records", "Load amendment records from a JSON Lines file into the store", &imp},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return nil, fmt.Errorf("failed to register command %s: %w", c.name, err)
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		PipelinePath:      raw.PipelinePath,
		RosterPath:        raw.RosterPath,
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
		Scrape:            ScrapeArgs{Year: scrape.Year, Bill: scrape.Bill},
		Import:            ImportArgs{File: imp.File, Year: imp.Year, Bill: imp.Bill},
	}

	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}

	if cfg.Scrape.Bill != "" && !ValidBill(cfg.Scrape.Bill) {
		return nil, fmt.Errorf("unsupported bill: %s", cfg.Scrape.Bill)
	}
	if cfg.Command == CommandImport && !ValidBill(cfg.Import.Bill) {
		return nil, fmt.Errorf("unsupported bill: %s", cfg.Import.Bill)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		slog.Warn("Invalid timezone, using system default", "timezone", cfg.Timezone, "error", err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	return nil
}
