package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kamal-hamza/bobina/internal/core/ports/mocks"
)

func newHistoryService(source *mocks.MockSnapshotSource) *HistoryService {
	return NewHistoryService(source, mocks.NewMockTableDecoder())
}

func TestHistoryService_Execute_LatestPerDay(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.AddFile("20250910-080000.csv", statusBody(9, 9))
	source.AddFile("20250910-180000.csv", statusBody(4, 1))
	source.AddFile("20250911-090000.csv", statusBody(2, 3))
	source.AddFile("inventario.csv", statusBody(100, 100))

	resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	days := resp.History.Days
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Source != "20250910-180000.csv" || days[0].Saldo != 4 || days[0].Completa != 1 {
		t.Errorf("unexpected first day %+v", days[0])
	}
	if days[1].DateKey != "2025-09-11" || days[1].Saldo != 2 || days[1].Completa != 3 {
		t.Errorf("unexpected second day %+v", days[1])
	}

	if resp.Selected != 2 || resp.Failed != 0 {
		t.Errorf("expected 2 selected / 0 failed, got %d / %d", resp.Selected, resp.Failed)
	}

	months := resp.History.Months
	if len(months) != 1 || months[0].DayCount != 2 || months[0].SaldoSum != 6 {
		t.Fatalf("unexpected months %+v", months)
	}
	if months[0].SaldoAverage() != 3 || months[0].CompletaAverage() != 2 {
		t.Errorf("unexpected averages %v / %v", months[0].SaldoAverage(), months[0].CompletaAverage())
	}
}

func TestHistoryService_Execute_MaxDays(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	for _, name := range []string{
		"20250901-080000.csv",
		"20250902-080000.csv",
		"20250903-080000.csv",
		"20250904-080000.csv",
	} {
		source.AddFile(name, statusBody(1, 0))
	}

	tests := []struct {
		name     string
		maxDays  int
		expected []string
	}{
		{"limit", 2, []string{"2025-09-03", "2025-09-04"}},
		{"unlimited", 0, []string{"2025-09-01", "2025-09-02", "2025-09-03", "2025-09-04"}},
		{"negative clamps", -3, []string{"2025-09-01", "2025-09-02", "2025-09-03", "2025-09-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{MaxDays: tt.maxDays})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.History.Days) != len(tt.expected) {
				t.Fatalf("expected %d days, got %d", len(tt.expected), len(resp.History.Days))
			}
			for i, key := range tt.expected {
				if resp.History.Days[i].DateKey != key {
					t.Errorf("day %d = %s, want %s", i, resp.History.Days[i].DateKey, key)
				}
			}
			if resp.MaxDays < 0 {
				t.Errorf("MaxDays should be clamped, got %d", resp.MaxDays)
			}
		})
	}
}

func TestHistoryService_Execute_FileFailureIsIsolated(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.AddFile("20250910-080000.csv", statusBody(3, 1))
	source.AddFile("20250911-080000.csv", statusBody(5, 5))
	source.AddFile("20250912-080000.csv", "!corrupt")
	source.FailOpen("20250911-080000.csv", errors.New("locked"))

	resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{MaxWorkers: 2})
	if err != nil {
		t.Fatalf("per-file failures must not fail the batch: %v", err)
	}

	days := resp.History.Days
	if len(days) != 3 {
		t.Fatalf("failed days must be kept, got %d days", len(days))
	}
	if days[0].Saldo != 3 || days[0].Err != nil {
		t.Errorf("unexpected first day %+v", days[0])
	}
	for _, day := range days[1:] {
		if day.Saldo != 0 || day.Completa != 0 || day.Err == nil {
			t.Errorf("expected zero metric with error for %s, got %+v", day.DateKey, day)
		}
	}
	if resp.Failed != 2 {
		t.Errorf("expected 2 failures, got %d", resp.Failed)
	}
}

func TestHistoryService_Execute_ListFailure(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.FailList(errors.New("folder removed"))

	resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{})
	if err == nil {
		t.Fatal("expected a list error")
	}
	if resp != nil {
		t.Errorf("expected nil response, got %+v", resp)
	}
}

func TestHistoryService_Execute_Empty(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.AddFile("inventario.csv", statusBody(1, 1))

	resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.History.Days) != 0 || len(resp.History.Months) != 0 {
		t.Errorf("expected empty history, got %+v", resp.History)
	}
	if len(source.Opened()) != 0 {
		t.Errorf("no file should be opened, got %v", source.Opened())
	}
}

func TestHistoryService_Execute_OrderIndependentOfCompletion(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.AddFile("20250910-080000.csv", statusBody(1, 0))
	source.AddFile("20250911-080000.csv", statusBody(2, 0))
	source.AddFile("20250912-080000.csv", statusBody(3, 0))

	// The first day finishes last
	release := source.Block("20250910-080000.csv")
	go func() {
		for len(source.Opened()) < 3 {
			time.Sleep(time.Millisecond)
		}
		release()
	}()

	resp, err := newHistoryService(source).Execute(context.Background(), HistoryRequest{MaxWorkers: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, day := range resp.History.Days {
		if day.Saldo != i+1 {
			t.Errorf("day %d has saldo %d, want %d", i, day.Saldo, i+1)
		}
	}
}

func TestHistoryService_Execute_Cancelled(t *testing.T) {
	source := mocks.NewMockSnapshotSource()
	source.AddFile("20250910-080000.csv", statusBody(1, 0))
	release := source.Block("20250910-080000.csv")
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for len(source.Opened()) < 1 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := newHistoryService(source).Execute(ctx, HistoryRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
