package cfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPipeline_Valid(t *testing.T) {
	path := writeFile(t, "pipeline.yml", `
partitions:
  - year: 2025
    bill: HB1600
  - year: 2024
    bill: SB30
    session: 2
request_delay: 1s
timeout: 10s
data_dir: out
extract_details: true
`)

	pipeline, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(pipeline.Partitions) != 2 {
		t.Fatalf("Expected 2 partitions, got %d", len(pipeline.Partitions))
	}
	if pipeline.Partitions[0].Session != 1 {
		t.Errorf("Expected default session 1, got %d", pipeline.Partitions[0].Session)
	}
	if pipeline.Partitions[1].Session != 2 {
		t.Errorf("Expected session 2, got %d", pipeline.Partitions[1].Session)
	}
	if pipeline.RequestDelay != time.Second {
		t.Errorf("Expected request delay 1s, got %v", pipeline.RequestDelay)
	}
	if pipeline.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", pipeline.Timeout)
	}
	if pipeline.DataDir != "out" {
		t.Errorf("Expected data dir 'out', got '%s'", pipeline.DataDir)
	}
	if pipeline.FrontendDataDir != DefaultFrontendDataDir {
		t.Errorf("Expected default frontend dir, got '%s'", pipeline.FrontendDataDir)
	}
	if !pipeline.ExtractDetails {
		t.Error("Expected extract_details to be enabled")
	}
}

func TestLoadPipeline_MissingFileUsesDefaults(t *testing.T) {
	pipeline, err := LoadPipeline(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(pipeline.Partitions) != 2 {
		t.Fatalf("Expected default partitions, got %v", pipeline.Partitions)
	}
	if pipeline.Partitions[0].OutputFileName() != "lis_member_requests_2024_HB30.json" {
		t.Errorf("Unexpected output file %s", pipeline.Partitions[0].OutputFileName())
	}
	if pipeline.RequestDelay != 750*time.Millisecond {
		t.Errorf("Expected 750ms delay, got %v", pipeline.RequestDelay)
	}
	if pipeline.LISBaseURL != DefaultLISBaseURL {
		t.Errorf("Expected default base URL, got '%s'", pipeline.LISBaseURL)
	}
}

func TestLoadPipeline_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown bill": "partitions:\n  - year: 2025\n    bill: HB2\n",
		"bad year":     "partitions:\n  - year: 25\n    bill: HB30\n",
		"duplicate":    "partitions:\n  - year: 2025\n    bill: HB30\n  - year: 2025\n    bill: HB30\n",
		"bad yaml":     "partitions: [",
	}

	for name, content := range tests {
		path := writeFile(t, "pipeline.yml", content)
		if _, err := LoadPipeline(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPipeline_Select(t *testing.T) {
	pipeline := &Pipeline{Partitions: []Partition{
		{Year: 2024, Bill: "HB30"},
		{Year: 2025, Bill: "HB1600"},
		{Year: 2025, Bill: "SB1600"},
	}}

	if got := pipeline.Select(0, ""); len(got) != 3 {
		t.Errorf("Expected all partitions, got %v", got)
	}
	if got := pipeline.Select(2025, ""); len(got) != 2 {
		t.Errorf("Expected 2 partitions for 2025, got %v", got)
	}
	if got := pipeline.Select(2025, "SB1600"); len(got) != 1 || got[0].Bill != "SB1600" {
		t.Errorf("Expected SB1600 only, got %v", got)
	}

	if _, ok := pipeline.Find(2024, "HB1600"); ok {
		t.Error("Expected 2024/HB1600 to be absent")
	}
}

func TestLoadRoster_YAMLAndJSON(t *testing.T) {
	yamlPath := writeFile(t, "members.yml", `
- id: H354
  fullName: " Jane Q. Example "
  chamber: House
  district: "12"
- id: S010
  memberCode: S10
  fullName: John Sample
  chamber: Senate
`)
	jsonPath := writeFile(t, "members.json", `[{"id":"H354","fullName":"Jane Q. Example","chamber":"House"}]`)

	members, err := LoadRoster(yamlPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	if members[0].FullName != "Jane Q. Example" {
		t.Errorf("Expected trimmed name, got %q", members[0].FullName)
	}
	if members[1].Code() != "S10" {
		t.Errorf("Expected member code S10, got %s", members[1].Code())
	}

	members, err = LoadRoster(jsonPath)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(members) != 1 || members[0].Chamber != amendment.ChamberHouse {
		t.Errorf("Unexpected JSON roster %+v", members)
	}
}

func TestLoadRoster_Invalid(t *testing.T) {
	tests := map[string]string{
		"missing id":      "- fullName: A\n  chamber: House\n",
		"missing name":    "- id: H1\n  chamber: House\n",
		"invalid chamber": "- id: H1\n  fullName: A\n  chamber: Assembly\n",
		"duplicate":       "- id: H1\n  fullName: A\n  chamber: House\n- id: H1\n  fullName: B\n  chamber: House\n",
	}

	for name, content := range tests {
		path := writeFile(t, "members.yml", content)
		_, err := LoadRoster(path)
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !strings.Contains(err.Error(), "roster") {
			t.Errorf("%s: expected roster error, got %v", name, err)
		}
	}
}
