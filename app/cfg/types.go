package cfg

import "time"

const (
	CommandScrape = "scrape"
	CommandServe  = "serve"
	CommandImport = "import"
)

type Cfg struct {
	Command string

	// Storage
	DBPath string

	// Pipeline inputs
	PipelinePath string
	RosterPath   string

	// Server configuration
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	// Command arguments
	Scrape ScrapeArgs
	Import ImportArgs
}

// ScrapeArgs narrows a scrape run to one partition when set.
type ScrapeArgs struct {
	Year int
	Bill string
}

type ImportArgs struct {
	File string
	Year int
	Bill string
}

// Partition is one (session year, budget bill) pair scraped as a unit.
type Partition struct {
	Year    int    `yaml:"year" json:"year"`
	Bill    string `yaml:"bill" json:"bill"`
	Session int    `yaml:"session,omitempty" json:"session,omitempty"`
}

// Pipeline holds the scrape settings read from the pipeline YAML file.
type Pipeline struct {
	Partitions      []Partition   `yaml:"partitions"`
	RequestDelay    time.Duration `yaml:"request_delay"`
	Timeout         time.Duration `yaml:"timeout"`
	DataDir         string        `yaml:"data_dir"`
	FrontendDataDir string        `yaml:"frontend_data_dir"`
	LISBaseURL      string        `yaml:"lis_base_url"`
	ExtractDetails  bool          `yaml:"extract_details"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}
