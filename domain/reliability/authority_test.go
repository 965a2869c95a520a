package reliability

import (
	"testing"
)

func testTable(t *testing.T) *AuthorityTable {
	t.Helper()

	table, err := NewAuthorityTable([]JournalRecord{
		{
			Key:             "Journal of Clinical Oncology",
			DisplayName:     "Journal of Clinical Oncology",
			Aliases:         []string{"JCO"},
			BaseAuthority:   0.70,
			TAOverrides:     map[string]float64{"Oncology": 0.85},
			Specialties:     []string{"oncology"},
			GuidelineBodies: []string{"ASCO", "NCCN"},
			PeerReviewed:    true,
		},
		{
			Key:             "Nature",
			DisplayName:     "Nature",
			BaseAuthority:   0.85,
			PeerReviewed:    true,
			GeneralCoverage: true,
		},
		{
			Key:           "European Heart Journal",
			DisplayName:   "European Heart Journal",
			BaseAuthority: 0.75,
			TAOverrides:   map[string]float64{"cardiovascular": 0.88},
			Specialties:   []string{"cardiovascular"},
			PeerReviewed:  true,
		},
	})
	if err != nil {
		t.Fatalf("building table: %v", err)
	}
	return table
}

func TestCanonicalJournalKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases and trims", "  The Lancet  ", "lancet"},
		{"collapses whitespace", "New  England\tJournal", "new england"},
		{"strips journal-of prefix", "Journal of Clinical Oncology", "clinical oncology"},
		{"strips proceedings suffix", "Obscure Regional Proceedings", "obscure regional"},
		{"plain acronym untouched", "JCO", "jco"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalJournalKey(tt.in); got != tt.want {
				t.Errorf("CanonicalJournalKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAuthorityTable_Resolve(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name          string
		journal       string
		ta            string
		wantAuthority float64
		wantGuideline bool
		wantFound     bool
	}{
		{"ta override wins over base", "Journal of Clinical Oncology", "oncology", 0.85, true, true},
		{"override match is case-insensitive", "Journal of Clinical Oncology", "ONCOLOGY", 0.85, true, true},
		{"base authority outside override ta", "Journal of Clinical Oncology", "cardiovascular", 0.70, true, true},
		{"alias resolves to same record", "JCO", "oncology", 0.85, true, true},
		{"query name is canonicalized", "  the NATURE ", "oncology", 0.85, false, true},
		{"unknown journal gets default", "Obscure Regional Proceedings", "oncology", DefaultAuthority, false, false},
		{"lowercase override key in record", "European Heart Journal", "Cardiovascular", 0.88, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := table.Resolve(tt.journal, tt.ta)
			if res.Authority != tt.wantAuthority {
				t.Errorf("authority = %v, want %v", res.Authority, tt.wantAuthority)
			}
			if res.GuidelinePresence != tt.wantGuideline {
				t.Errorf("guideline presence = %v, want %v", res.GuidelinePresence, tt.wantGuideline)
			}
			if res.Found != tt.wantFound {
				t.Errorf("found = %v, want %v", res.Found, tt.wantFound)
			}
		})
	}
}

func TestNewAuthorityTable_Validation(t *testing.T) {
	tests := []struct {
		name    string
		records []JournalRecord
	}{
		{"empty table", nil},
		{"base authority above one", []JournalRecord{{Key: "x", BaseAuthority: 1.2}}},
		{"negative base authority", []JournalRecord{{Key: "x", BaseAuthority: -0.1}}},
		{"override outside range", []JournalRecord{{
			Key:           "x",
			BaseAuthority: 0.5,
			TAOverrides:   map[string]float64{"oncology": 2.0},
		}}},
		{"blank key", []JournalRecord{{Key: "   ", BaseAuthority: 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAuthorityTable(tt.records); err == nil {
				t.Errorf("expected error for %s, got nil", tt.name)
			}
		})
	}
}
