package reliability

import (
	"fmt"
	"regexp"
	"strings"

	"relimeter/domain/core"
)

// DefaultAuthority is the authority assigned to journals absent from the
// table. Deliberately above zero so an unindexed journal is down-weighted,
// not excluded from ranking outright.
const DefaultAuthority = 0.30

// JournalRecord is one row of the journal authority reference data, owned
// and refreshed by the data-maintenance process.
type JournalRecord struct {
	Key             string
	DisplayName     string
	Aliases         []string
	BaseAuthority   float64
	TAOverrides     map[string]float64
	Specialties     []string
	GuidelineBodies []string
	PeerReviewed    bool
	GeneralCoverage bool
}

// Resolution is the outcome of a table lookup for one (journal,
// therapeutic area) pair.
type Resolution struct {
	Authority         float64
	GuidelinePresence bool
	SpecialtyMatch    bool
	GeneralCoverage   bool
	PeerReviewed      bool
	PeerReviewKnown   bool
	Found             bool
}

// AuthorityTable is an immutable snapshot of journal authority records.
// Refreshes are published by building a new table and swapping the
// reference, never by mutating one in place, so concurrent scoring needs
// no locks.
type AuthorityTable struct {
	records map[string]JournalRecord
	aliases map[string]string
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	prefixRe     = regexp.MustCompile(`^(the|journal of|international journal of)\s+`)
	suffixRe     = regexp.MustCompile(`\s+(journal|magazine|review|letters?|proceedings)$`)
)

// CanonicalJournalKey normalizes a journal name for table matching:
// lowercase, trimmed, internal whitespace collapsed, leading articles and
// trailing publication-type words stripped. Applied identically to stored
// keys and query keys.
func CanonicalJournalKey(name string) string {
	key := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
	key = prefixRe.ReplaceAllString(key, "")
	key = suffixRe.ReplaceAllString(key, "")
	return strings.TrimSpace(key)
}

// NewAuthorityTable builds an immutable table from records, canonicalizing
// keys and validating that every authority value is within [0,1].
func NewAuthorityTable(records []JournalRecord) (*AuthorityTable, error) {
	if len(records) == 0 {
		return nil, core.ErrEmptyJournalTable
	}

	indexed := make(map[string]JournalRecord, len(records))
	aliases := make(map[string]string)
	for _, rec := range records {
		key := rec.Key
		if key == "" {
			key = rec.DisplayName
		}
		key = CanonicalJournalKey(key)
		if key == "" {
			return nil, fmt.Errorf("%w: record %q has no usable key", core.ErrConfiguration, rec.DisplayName)
		}
		if rec.BaseAuthority < 0 || rec.BaseAuthority > 1 {
			return nil, fmt.Errorf("%w: %s base authority %.3f outside [0,1]", core.ErrConfiguration, key, rec.BaseAuthority)
		}

		// Lowercase the override and specialty keys once so lookups stay
		// case-insensitive without per-request normalization of the record.
		overrides := make(map[string]float64, len(rec.TAOverrides))
		for ta, v := range rec.TAOverrides {
			if v < 0 || v > 1 {
				return nil, fmt.Errorf("%w: %s override for %s is %.3f, outside [0,1]", core.ErrConfiguration, key, ta, v)
			}
			overrides[strings.ToLower(strings.TrimSpace(ta))] = v
		}
		specialties := make([]string, 0, len(rec.Specialties))
		for _, s := range rec.Specialties {
			specialties = append(specialties, strings.ToLower(strings.TrimSpace(s)))
		}

		stored := rec
		stored.Key = key
		stored.TAOverrides = overrides
		stored.Specialties = specialties
		indexed[key] = stored

		for _, alias := range rec.Aliases {
			if aliasKey := CanonicalJournalKey(alias); aliasKey != "" && aliasKey != key {
				aliases[aliasKey] = key
			}
		}
	}

	return &AuthorityTable{records: indexed, aliases: aliases}, nil
}

// Len returns the number of journals in the snapshot.
func (t *AuthorityTable) Len() int {
	return len(t.records)
}

// Records returns a copy of the stored records, keyed by canonical name.
// Used by the snapshot worker to enumerate the journal universe.
func (t *AuthorityTable) Records() []JournalRecord {
	out := make([]JournalRecord, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	return out
}

// KeyFor resolves a journal name to its stored canonical key, following
// the alias index. The canonicalized input comes back unchanged, with
// ok=false, for journals absent from the table.
func (t *AuthorityTable) KeyFor(journalName string) (string, bool) {
	key := CanonicalJournalKey(journalName)
	if _, ok := t.records[key]; ok {
		return key, true
	}
	if canonical, ok := t.aliases[key]; ok {
		return canonical, true
	}
	return key, false
}

// Resolve looks up a journal name in the therapeutic-area context. A miss
// never errors: it yields the default authority, no guideline presence and
// Found=false, leaving the caller to note the defaulted input.
func (t *AuthorityTable) Resolve(journalName, therapeuticArea string) Resolution {
	key := CanonicalJournalKey(journalName)
	rec, ok := t.records[key]
	if !ok {
		if canonical, aliased := t.aliases[key]; aliased {
			rec, ok = t.records[canonical]
		}
	}
	if !ok {
		return Resolution{Authority: DefaultAuthority}
	}

	ta := strings.ToLower(strings.TrimSpace(therapeuticArea))
	authority := rec.BaseAuthority
	if override, ok := rec.TAOverrides[ta]; ok {
		authority = override
	}

	specialtyMatch := false
	for _, s := range rec.Specialties {
		if s == ta {
			specialtyMatch = true
			break
		}
	}

	return Resolution{
		Authority:         authority,
		GuidelinePresence: len(rec.GuidelineBodies) > 0,
		SpecialtyMatch:    specialtyMatch,
		GeneralCoverage:   rec.GeneralCoverage,
		PeerReviewed:      rec.PeerReviewed,
		PeerReviewKnown:   true,
		Found:             true,
	}
}
