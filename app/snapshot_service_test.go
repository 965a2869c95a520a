package app

import (
	"context"
	"testing"
	"time"

	"relimeter/internal"
	"relimeter/internal/testkit"
	"relimeter/ports"
)

func newTestSnapshotService(t *testing.T) (*SnapshotService, *testkit.InMemorySnapshotRepository) {
	t.Helper()
	repo := testkit.NewInMemorySnapshotRepository()
	svc := NewSnapshotService(newTestReliabilityService(t), repo, internal.NewDefaultLogger())
	return svc, repo
}

func TestSnapshotService_Refresh(t *testing.T) {
	svc, repo := newTestSnapshotService(t)
	ctx := context.Background()
	day := time.Date(2025, 6, 14, 3, 0, 0, 0, time.UTC)

	areas := []string{"oncology", "cardiovascular"}
	if err := svc.Refresh(ctx, day, areas); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// Every fixture journal, each area, both use cases.
	want := len(testkit.FixtureRecords()) * len(areas) * 2
	if got := repo.Count(); got != want {
		t.Errorf("wrote %d snapshots, want %d", got, want)
	}

	// Rerunning the same day upserts in place, never duplicates.
	if err := svc.Refresh(ctx, day, areas); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if got := repo.Count(); got != want {
		t.Errorf("after rerun: %d snapshots, want %d", got, want)
	}
}

func TestSnapshotService_RefreshNeedsPublishedTable(t *testing.T) {
	reliabilitySvc := NewReliabilityService(testkit.NewInMemoryJournalRepository(), testClock, 4, internal.NewDefaultLogger())
	svc := NewSnapshotService(reliabilitySvc, testkit.NewInMemorySnapshotRepository(), internal.NewDefaultLogger())

	if err := svc.Refresh(context.Background(), testClock.At, nil); err == nil {
		t.Fatal("expected refresh to fail without a published journal table")
	}
}

func TestSnapshotService_TopRanking(t *testing.T) {
	svc, _ := newTestSnapshotService(t)
	ctx := context.Background()
	day := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	if err := svc.Refresh(ctx, day, []string{"oncology"}); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	rows, err := svc.Top(ctx, ports.TopQuery{TherapeuticArea: "oncology", UseCase: "clinical", Limit: 10})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(rows) != len(testkit.FixtureRecords()) {
		t.Fatalf("got %d rows, want %d", len(rows), len(testkit.FixtureRecords()))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Score > rows[i-1].Score {
			t.Errorf("rows out of order at %d: %v > %v", i, rows[i].Score, rows[i-1].Score)
		}
	}
	// The TA override should put JCO ahead of the general journals under
	// the clinical profile.
	if rows[0].JournalName != "Journal of Clinical Oncology" {
		t.Errorf("top journal = %q, want Journal of Clinical Oncology", rows[0].JournalName)
	}
}

func TestSnapshotService_TopValidatesUseCase(t *testing.T) {
	svc, _ := newTestSnapshotService(t)

	_, err := svc.Top(context.Background(), ports.TopQuery{TherapeuticArea: "oncology", UseCase: "speculative"})
	if err == nil {
		t.Fatal("expected an unknown use case to be rejected")
	}
}
