package cfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/lysyi3m/lis-comb/app/amendment"
	"gopkg.in/yaml.v3"
)

// LoadRoster reads the legislator roster. JSON rosters parse as YAML too.
func LoadRoster(path string) ([]amendment.Member, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var members []amendment.Member
	if err := yaml.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	seen := make(map[string]bool, len(members))
	for i, member := range members {
		member.ID = strings.TrimSpace(member.ID)
		member.FullName = strings.TrimSpace(member.FullName)

		if member.ID == "" {
			return nil, fmt.Errorf("roster entry %d has no id", i)
		}
		if member.FullName == "" {
			return nil, fmt.Errorf("roster entry %s has no full name", member.ID)
		}
		if member.Chamber != amendment.ChamberHouse && member.Chamber != amendment.ChamberSenate {
			return nil, fmt.Errorf("roster entry %s has invalid chamber %q", member.ID, member.Chamber)
		}
		if seen[member.ID] {
			return nil, fmt.Errorf("duplicate roster entry %s", member.ID)
		}
		seen[member.ID] = true

		members[i] = member
	}

	return members, nil
}
