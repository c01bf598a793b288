package domain

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSelectLatestPerDay_OneFilePerDay(t *testing.T) {
	list := entries(
		"20250910-235900.csv",
		"20250910-080000.csv",
		"20250911-120000.CSV",
		"not-a-snapshot.csv",
		"20251310-120000.csv",
	)

	selected := SelectLatestPerDay(list, 0)

	if len(selected) != 2 {
		t.Fatalf("expected 2 days, got %d: %+v", len(selected), selected)
	}
	if selected[0].Entry.Name != "20250910-235900.csv" {
		t.Errorf("2025-09-10 should use the 23:59 file, got %s", selected[0].Entry.Name)
	}
	if selected[1].Meta.DateKey != "2025-09-11" {
		t.Errorf("second day = %s", selected[1].Meta.DateKey)
	}
}

func TestSelectLatestPerDay_MaxDaysKeepsMostRecent(t *testing.T) {
	var names []string
	for day := 10; day >= 1; day-- {
		names = append(names, fmt.Sprintf("202509%02d-100000.csv", day))
	}

	selected := SelectLatestPerDay(entries(names...), 3)

	expected := []string{"2025-09-08", "2025-09-09", "2025-09-10"}
	if len(selected) != len(expected) {
		t.Fatalf("expected %d days, got %d", len(expected), len(selected))
	}
	for i, s := range selected {
		if s.Meta.DateKey != expected[i] {
			t.Errorf("position %d = %s, want %s", i, s.Meta.DateKey, expected[i])
		}
	}
}

func TestSelectLatestPerDay_NoLimitWhenNonPositive(t *testing.T) {
	list := entries("20250901-100000.csv", "20250902-100000.csv", "20250903-100000.csv")

	for _, maxDays := range []int{0, -4} {
		if got := SelectLatestPerDay(list, maxDays); len(got) != 3 {
			t.Errorf("maxDays=%d kept %d days, want 3", maxDays, len(got))
		}
	}
}

func TestSelectLatestPerDay_Empty(t *testing.T) {
	if got := SelectLatestPerDay(nil, 5); len(got) != 0 {
		t.Errorf("expected nothing, got %+v", got)
	}
}

func TestCountStatuses(t *testing.T) {
	rows := []RawRecord{
		roll("A", "1", "Saldo", "Stock", "Planta SFM", "X"),
		roll("A", "1", "SALDO ", "Stock", "Planta SFM", "X"),
		roll("A", "1", "Completa", "Stock", "Planta SFM", "X"),
		roll("A", "1", "Completa", "Stock", "Planta SFM", "ULOG"),
		roll("A", "1", "Otro", "Stock", "Planta SFM", "X"),
	}

	got := CountStatuses(rows)
	if got.Saldo != 2 || got.Completa != 1 {
		t.Errorf("CountStatuses() = %+v, want {2 1}", got)
	}
}

func day(name string, saldo, completa int) DailyMetric {
	meta, ok := ParseSnapshotName(name)
	if !ok {
		panic("bad test filename " + name)
	}
	return NewDailyMetric(DaySelection{Meta: meta}, StatusCounts{Saldo: saldo, Completa: completa}, nil)
}

func TestRollupMonthly(t *testing.T) {
	days := []DailyMetric{
		day("20250930-120000.csv", 10, 4),
		day("20251001-120000.csv", 7, 2),
		day("20251002-120000.csv", 8, 3),
		day("20250929-120000.csv", 20, 6),
		day("20241215-120000.csv", 5, 5),
	}

	months := RollupMonthly(days)

	if len(months) != 3 {
		t.Fatalf("expected 3 months, got %d", len(months))
	}

	order := []string{"2024-12", "2025-09", "2025-10"}
	for i, m := range months {
		if m.MonthKey != order[i] {
			t.Errorf("month %d = %s, want %s", i, m.MonthKey, order[i])
		}
		if m.DayCount == 0 {
			t.Errorf("month %s has zero days", m.MonthKey)
		}
	}

	sep := months[1]
	if sep.SaldoSum != 30 || sep.CompletaSum != 10 || sep.DayCount != 2 {
		t.Errorf("september = %+v", sep)
	}
	if !sep.SaldoAvg.Equal(decimal.NewFromInt(15)) || !sep.CompletaAvg.Equal(decimal.NewFromInt(5)) {
		t.Errorf("september averages = %s / %s", sep.SaldoAvg, sep.CompletaAvg)
	}
	if sep.Label != "septiembre de 2025" {
		t.Errorf("september label = %q", sep.Label)
	}

	oct := months[2]
	if !oct.SaldoAvg.Equal(decimal.RequireFromString("7.5")) || oct.SaldoAverage() != 7.5 {
		t.Errorf("october saldo average = %s", oct.SaldoAvg)
	}
	if oct.CompletaAverage() != 2.5 {
		t.Errorf("october completa average = %v", oct.CompletaAverage())
	}
	if len(oct.Days) != 2 || oct.Days[0].Label != "01 de octubre de 2025" {
		t.Errorf("october days = %+v", oct.Days)
	}

	totalSaldo := 0
	for _, m := range months {
		totalSaldo += m.SaldoSum
	}
	if totalSaldo != 50 {
		t.Errorf("monthly sums lost data: %d", totalSaldo)
	}
}

func TestRollupMonthly_LabelFromKey(t *testing.T) {
	days := []DailyMetric{
		{MonthKey: "2025-10", StatusCounts: StatusCounts{Saldo: 4}},
		{MonthKey: "2024-11", StatusCounts: StatusCounts{Saldo: 2}},
		{MonthKey: "2025-10", StatusCounts: StatusCounts{Saldo: 1}},
	}

	months := RollupMonthly(days)
	if len(months) != 2 || months[0].MonthKey != "2024-11" {
		t.Fatalf("unexpected months %+v", months)
	}
	if months[0].Label != "noviembre de 2024" {
		t.Errorf("label = %q", months[0].Label)
	}
	if months[1].SaldoSum != 5 || !months[1].SaldoAvg.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("october = %+v", months[1])
	}
}

func TestBuildHistory_ZeroDayKept(t *testing.T) {
	failed := NewDailyMetric(DaySelection{Meta: mustMeta("20250902-100000.csv")}, StatusCounts{}, fmt.Errorf("boom"))
	ok := day("20250901-100000.csv", 3, 1)

	h := BuildHistory([]DailyMetric{ok, failed})

	if len(h.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(h.Days))
	}
	if h.Days[1].Saldo != 0 || h.Days[1].Completa != 0 || h.Days[1].Err == nil {
		t.Errorf("failed day = %+v", h.Days[1])
	}
	if h.Months[0].DayCount != 2 {
		t.Errorf("failed day should still count toward the month, got %d", h.Months[0].DayCount)
	}
}

func mustMeta(name string) FileMeta {
	meta, ok := ParseSnapshotName(name)
	if !ok {
		panic("bad test filename " + name)
	}
	return meta
}
