package app

import (
	"context"
	"testing"
	"time"

	"relimeter/domain/core"
	"relimeter/domain/reliability"
	"relimeter/internal"
	"relimeter/internal/testkit"
)

var testClock = testkit.FixedClock{At: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}

func newTestReliabilityService(t *testing.T) *ReliabilityService {
	t.Helper()
	svc := NewReliabilityService(testkit.NewInMemoryJournalRepository(), testClock, 4, internal.NewDefaultLogger())
	table, err := testkit.FixtureTable()
	if err != nil {
		t.Fatalf("building fixture table: %v", err)
	}
	if err := svc.UseTable(table); err != nil {
		t.Fatalf("publishing fixture table: %v", err)
	}
	return svc
}

func TestReliabilityService_ScoreBeforeTablePublished(t *testing.T) {
	svc := NewReliabilityService(testkit.NewInMemoryJournalRepository(), testClock, 4, internal.NewDefaultLogger())

	_, err := svc.Score(context.Background(), reliability.ArticleFeatures{
		JournalName:     "Nature",
		PublicationDate: testClock.At,
		TherapeuticArea: "oncology",
	}, "clinical")
	if err == nil {
		t.Fatal("expected an error before any table is published")
	}
}

func TestReliabilityService_RefreshTable(t *testing.T) {
	repo := testkit.NewInMemoryJournalRepository()
	if err := repo.UpsertJournals(context.Background(), testkit.FixtureRecords()); err != nil {
		t.Fatalf("seeding repo: %v", err)
	}

	svc := NewReliabilityService(repo, testClock, 4, internal.NewDefaultLogger())
	if err := svc.RefreshTable(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	result, err := svc.Score(context.Background(), reliability.ArticleFeatures{
		JournalName:     "Journal of Clinical Oncology",
		PublicationDate: testClock.At,
		TherapeuticArea: "oncology",
	}, "clinical")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if result.Components.Authority != 0.85 {
		t.Errorf("authority = %v, want 0.85 from the oncology override", result.Components.Authority)
	}
}

func TestReliabilityService_RefreshTableEmptyRepo(t *testing.T) {
	svc := NewReliabilityService(testkit.NewInMemoryJournalRepository(), testClock, 4, internal.NewDefaultLogger())
	if err := svc.RefreshTable(context.Background()); err == nil {
		t.Fatal("expected refresh against an empty repository to fail")
	}
}

func TestReliabilityService_RankOrdering(t *testing.T) {
	svc := newTestReliabilityService(t)

	articles := []reliability.ArticleFeatures{
		{JournalName: "Obscure Regional Bulletin", PublicationDate: testClock.At.AddDate(-4, 0, 0), TherapeuticArea: "oncology"},
		{JournalName: "Journal of Clinical Oncology", PublicationDate: testClock.At.AddDate(0, -1, 0), TherapeuticArea: "oncology"},
		{JournalName: "Nature", PublicationDate: testClock.At.AddDate(0, -6, 0), TherapeuticArea: "oncology"},
	}

	ranked, err := svc.Rank(context.Background(), articles, "clinical")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != len(articles) {
		t.Fatalf("got %d results, want %d", len(ranked), len(articles))
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Result.Score > ranked[i-1].Result.Score {
			t.Errorf("results out of order at %d: %v > %v", i, ranked[i].Result.Score, ranked[i-1].Result.Score)
		}
	}
	if ranked[0].Index != 1 {
		t.Errorf("top result index = %d, want the JCO article (1)", ranked[0].Index)
	}
	if ranked[len(ranked)-1].Index != 0 {
		t.Errorf("bottom result index = %d, want the unknown journal (0)", ranked[len(ranked)-1].Index)
	}
}

func TestReliabilityService_RankTieBreaksOnDate(t *testing.T) {
	svc := newTestReliabilityService(t)

	// Same journal, same area, both inside the full-freshness window, so
	// the scores tie and ordering falls to the publication date.
	articles := []reliability.ArticleFeatures{
		{JournalName: "Nature", PublicationDate: testClock.At.AddDate(0, 0, -20), TherapeuticArea: "oncology"},
		{JournalName: "Nature", PublicationDate: testClock.At.AddDate(0, 0, -2), TherapeuticArea: "oncology"},
	}

	ranked, err := svc.Rank(context.Background(), articles, "exploratory")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if ranked[0].Result.Score != ranked[1].Result.Score {
		t.Fatalf("fixture scores should tie, got %v and %v", ranked[0].Result.Score, ranked[1].Result.Score)
	}
	if ranked[0].Index != 1 {
		t.Errorf("more recent article should rank first on a score tie, got index %d", ranked[0].Index)
	}
}

func TestReliabilityService_RankCancelledContext(t *testing.T) {
	svc := newTestReliabilityService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles := make([]reliability.ArticleFeatures, 10)
	for i := range articles {
		articles[i] = reliability.ArticleFeatures{
			JournalName:     "Nature",
			PublicationDate: testClock.At,
			TherapeuticArea: "oncology",
		}
	}

	if _, err := svc.Rank(ctx, articles, "clinical"); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}

func TestReliabilityService_RankInputValidation(t *testing.T) {
	svc := newTestReliabilityService(t)
	ctx := context.Background()

	article := reliability.ArticleFeatures{
		JournalName:     "Nature",
		PublicationDate: testClock.At,
		TherapeuticArea: "oncology",
	}

	if _, err := svc.Rank(ctx, nil, "clinical"); err == nil {
		t.Error("expected an error for an empty batch")
	}

	oversized := make([]reliability.ArticleFeatures, MaxBatchSize+1)
	for i := range oversized {
		oversized[i] = article
	}
	if _, err := svc.Rank(ctx, oversized, "clinical"); err == nil {
		t.Error("expected an error for an oversized batch")
	}

	_, err := svc.Rank(ctx, []reliability.ArticleFeatures{article}, "regulatory")
	if err == nil {
		t.Fatal("expected an error for an unknown use case")
	}
	if !core.IsConfigurationError(err) {
		t.Errorf("unknown use case error should be a configuration error, got %v", err)
	}
}
