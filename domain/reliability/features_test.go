package reliability

import (
	"math"
	"testing"
	"time"

	"relimeter/domain/core"
)

var evalClock = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func boolPtr(v bool) *bool { return &v }

func TestExtractor_Relevance(t *testing.T) {
	extractor := NewExtractor(testTable(t))

	tests := []struct {
		name    string
		journal string
		ta      string
		want    float64
	}{
		{"specialty match scores high", "Journal of Clinical Oncology", "oncology", RelevanceSpecialized},
		{"general coverage scores mid", "Nature", "oncology", RelevanceGeneral},
		{"specialty mismatch scores low", "Journal of Clinical Oncology", "neurology", RelevanceUnknown},
		{"unknown journal scores low", "Obscure Regional Proceedings", "oncology", RelevanceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := ArticleFeatures{
				JournalName:     tt.journal,
				PublicationDate: evalClock.AddDate(0, 0, -10),
				TherapeuticArea: tt.ta,
				AbstractPresent: boolPtr(true),
				PeerReviewed:    boolPtr(true),
			}
			raw, _ := extractor.Extract(article, core.NewEvaluatedAt(evalClock))
			if raw.Relevance != tt.want {
				t.Errorf("relevance = %v, want %v", raw.Relevance, tt.want)
			}
		})
	}

	// The proxy must be monotonic: specialization >= general >= unknown.
	if !(RelevanceSpecialized >= RelevanceGeneral && RelevanceGeneral >= RelevanceUnknown) {
		t.Error("relevance constants violate monotonicity ordering")
	}
}

func TestFreshnessAt(t *testing.T) {
	tests := []struct {
		name      string
		published time.Time
		want      float64
	}{
		{"inside recent window", evalClock.AddDate(0, 0, -10), 1.0},
		{"window boundary", evalClock.AddDate(0, 0, -30), 1.0},
		{"beyond horizon hits floor", evalClock.AddDate(-6, 0, 0), FreshnessFloor},
		{"future date gets full credit", evalClock.AddDate(0, 0, 7), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := freshnessAt(tt.published, evalClock); got != tt.want {
				t.Errorf("freshnessAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreshnessAt_MonotonicDecay(t *testing.T) {
	// A more recent publication date never yields lower freshness.
	prev := 2.0
	for days := 0; days <= 2200; days += 25 {
		got := freshnessAt(evalClock.AddDate(0, 0, -days), evalClock)
		if got > prev {
			t.Fatalf("freshness increased with age: %v days old scored %v, younger scored %v", days, got, prev)
		}
		if got < FreshnessFloor || got > 1.0 {
			t.Fatalf("freshness %v out of range at age %v days", got, days)
		}
		prev = got
	}
}

func TestExtractor_Rigor(t *testing.T) {
	extractor := NewExtractor(testTable(t))

	tests := []struct {
		name      string
		journal   string
		abstract  *bool
		peer      *bool
		want      float64
		wantNotes int
	}{
		{"all signals present", "Journal of Clinical Oncology", boolPtr(true), boolPtr(true), RigorBaseline, 0},
		{"journal flag backfills peer review", "Journal of Clinical Oncology", boolPtr(true), nil, RigorBaseline, 0},
		{"missing abstract penalized", "Journal of Clinical Oncology", nil, boolPtr(true), RigorBaseline - RigorMissingPenalty, 1},
		{"stated no abstract penalized without note", "Journal of Clinical Oncology", boolPtr(false), boolPtr(true), RigorBaseline - RigorMissingPenalty, 0},
		{"known not peer reviewed", "Journal of Clinical Oncology", boolPtr(true), boolPtr(false), RigorNotPeerReviewed, 0},
		{"unknown journal, no signals", "Obscure Regional Proceedings", nil, nil, RigorBaseline - 2*RigorMissingPenalty, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := ArticleFeatures{
				JournalName:     tt.journal,
				PublicationDate: evalClock.AddDate(0, 0, -10),
				TherapeuticArea: "oncology",
				AbstractPresent: tt.abstract,
				PeerReviewed:    tt.peer,
			}
			raw, notes := extractor.Extract(article, core.NewEvaluatedAt(evalClock))
			// Sequential penalty subtraction accumulates float error, so
			// compare within a tolerance far below the displayed precision.
			if math.Abs(raw.Rigor-tt.want) > 1e-9 {
				t.Errorf("rigor = %v, want %v", raw.Rigor, tt.want)
			}
			if len(notes) != tt.wantNotes {
				t.Errorf("defaulted notes = %v, want %v entries", notes, tt.wantNotes)
			}
		})
	}
}

func TestExtractor_MissingOptionalNeverPanics(t *testing.T) {
	extractor := NewExtractor(testTable(t))

	raw, notes := extractor.Extract(ArticleFeatures{
		JournalName:     "Obscure Regional Proceedings",
		TherapeuticArea: "oncology",
	}, core.NewEvaluatedAt(evalClock))

	for name, v := range map[string]float64{
		"authority": raw.Authority,
		"relevance": raw.Relevance,
		"freshness": raw.Freshness,
		"guideline": raw.Guideline,
		"rigor":     raw.Rigor,
	} {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, outside [0,1]", name, v)
		}
	}
	if len(notes) < 2 {
		t.Errorf("expected multiple defaulted-field notes, got %v", notes)
	}
}
