// Package seed loads the journal authority reference data from its YAML
// seed file. The file is the bootstrap source for both the Postgres
// journals table and the in-memory authority snapshot.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"relimeter/domain/reliability"
	"relimeter/internal/errors"
)

type seedFile struct {
	Journals []journalEntry `yaml:"journals"`
}

type journalEntry struct {
	Name            string             `yaml:"name"`
	Aliases         []string           `yaml:"aliases"`
	BaseAuthority   float64            `yaml:"baseAuthority"`
	TAOverrides     map[string]float64 `yaml:"taOverrides"`
	Specialties     []string           `yaml:"specialties"`
	GuidelineBodies []string           `yaml:"guidelineBodies"`
	PeerReviewed    bool               `yaml:"peerReviewed"`
	GeneralCoverage bool               `yaml:"generalCoverage"`
}

// LoadFile reads and parses a journal seed file into authority records.
func LoadFile(path string) ([]reliability.JournalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading journal seed file %s", path)
	}
	return Parse(data)
}

// Parse decodes seed YAML into authority records, validating as it goes.
func Parse(data []byte) ([]reliability.JournalRecord, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing journal seed data")
	}
	if len(file.Journals) == 0 {
		return nil, errors.ConfigInvalid("journal seed data contains no journals")
	}

	records := make([]reliability.JournalRecord, 0, len(file.Journals))
	for i, entry := range file.Journals {
		if entry.Name == "" {
			return nil, errors.ConfigInvalid(fmt.Sprintf("journal entry %d has no name", i))
		}
		records = append(records, reliability.JournalRecord{
			Key:             entry.Name,
			DisplayName:     entry.Name,
			Aliases:         entry.Aliases,
			BaseAuthority:   entry.BaseAuthority,
			TAOverrides:     entry.TAOverrides,
			Specialties:     entry.Specialties,
			GuidelineBodies: entry.GuidelineBodies,
			PeerReviewed:    entry.PeerReviewed,
			GeneralCoverage: entry.GeneralCoverage,
		})
	}
	return records, nil
}

// BuildTable is a convenience that parses seed data and constructs the
// immutable authority snapshot in one step, surfacing range violations
// with the file context attached.
func BuildTable(records []reliability.JournalRecord) (*reliability.AuthorityTable, error) {
	table, err := reliability.NewAuthorityTable(records)
	if err != nil {
		return nil, errors.Wrap(err, "building authority table from seed records")
	}
	return table, nil
}
