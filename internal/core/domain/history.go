package domain

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kamal-hamza/bobina/pkg/labels"
)

// DaySelection is the snapshot chosen to represent one calendar day
type DaySelection struct {
	Entry FileEntry
	Meta  FileMeta
}

// StatusCounts is the saldo/completa split of one snapshot
type StatusCounts struct {
	Saldo    int `json:"saldo"`
	Completa int `json:"completa"`
}

// DailyMetric is the status split of the day's latest snapshot.
// Err is set when the snapshot could not be read; the counts are then zero.
type DailyMetric struct {
	DateKey       string    `json:"dateKey"`
	MonthKey      string    `json:"monthKey"`
	Timestamp     time.Time `json:"timestamp"`
	DateLabel     string    `json:"dateLabel"`
	FullDateLabel string    `json:"fullDateLabel"`
	Source        string    `json:"source"`
	StatusCounts
	Err error `json:"-"`
}

// DayDetail is one day inside a monthly summary
type DayDetail struct {
	Label    string `json:"label"`
	Saldo    int    `json:"saldo"`
	Completa int    `json:"completa"`
}

// MonthlyStat aggregates the daily metrics of one year-month
type MonthlyStat struct {
	MonthKey    string          `json:"monthKey"`
	Label       string          `json:"monthLabel"`
	SaldoSum    int             `json:"saldoSum"`
	CompletaSum int             `json:"completaSum"`
	DayCount    int             `json:"dayCount"`
	SaldoAvg    decimal.Decimal `json:"saldoAverage"`
	CompletaAvg decimal.Decimal `json:"completaAverage"`
	Days        []DayDetail     `json:"perDayDetail"`
}

// SaldoAverage returns the monthly saldo mean as a float
func (m MonthlyStat) SaldoAverage() float64 {
	f, _ := m.SaldoAvg.Float64()
	return f
}

// CompletaAverage returns the monthly completa mean as a float
func (m MonthlyStat) CompletaAverage() float64 {
	f, _ := m.CompletaAvg.Float64()
	return f
}

// History is the chart-ready daily series plus its monthly rollup
type History struct {
	Days   []DailyMetric `json:"days"`
	Months []MonthlyStat `json:"months"`
}

// SelectLatestPerDay keeps, for each calendar day, the snapshot with the latest
// timestamp. Entries whose name does not parse are dropped. A positive maxDays
// keeps only the most recent days. The result is in ascending time order.
func SelectLatestPerDay(entries []FileEntry, maxDays int) []DaySelection {
	byDay := make(map[string]DaySelection)
	for _, entry := range entries {
		meta, ok := ParseSnapshotName(entry.Name)
		if !ok {
			continue
		}

		existing, seen := byDay[meta.DateKey]
		if !seen || !meta.Timestamp.Before(existing.Meta.Timestamp) {
			byDay[meta.DateKey] = DaySelection{Entry: entry, Meta: meta}
		}
	}

	selected := make([]DaySelection, 0, len(byDay))
	for _, s := range byDay {
		selected = append(selected, s)
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Meta.Timestamp.After(selected[j].Meta.Timestamp)
	})

	if maxDays > 0 && len(selected) > maxDays {
		selected = selected[:maxDays]
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Meta.Timestamp.Before(selected[j].Meta.Timestamp)
	})

	return selected
}

// CountStatuses counts saldo and completa rolls among the generally valid rows
func CountStatuses(rows []RawRecord) StatusCounts {
	var counts StatusCounts
	for _, r := range FilterGeneral(rows) {
		switch NormalizeString(r[ColumnCompleta]) {
		case StatusSaldo:
			counts.Saldo++
		case StatusCompleta:
			counts.Completa++
		}
	}
	return counts
}

// NewDailyMetric attaches counts to the day a selection represents
func NewDailyMetric(sel DaySelection, counts StatusCounts, err error) DailyMetric {
	return DailyMetric{
		DateKey:       sel.Meta.DateKey,
		MonthKey:      sel.Meta.MonthKey,
		Timestamp:     sel.Meta.Timestamp,
		DateLabel:     sel.Meta.DateLabel,
		FullDateLabel: sel.Meta.LongLabel,
		Source:        sel.Entry.RelativePath,
		StatusCounts:  counts,
		Err:           err,
	}
}

// RollupMonthly groups daily metrics by year-month, summing and averaging
// the counts. Months are ordered by numeric (year, month).
func RollupMonthly(days []DailyMetric) []MonthlyStat {
	index := make(map[string]int)
	var months []MonthlyStat

	for _, day := range days {
		key := day.MonthKey
		if key == "" && len(day.DateKey) >= 7 {
			key = day.DateKey[:7]
		}

		pos, ok := index[key]
		if !ok {
			pos = len(months)
			index[key] = pos
			months = append(months, MonthlyStat{
				MonthKey: key,
				Label:    monthLabel(key, day.Timestamp),
			})
		}

		m := &months[pos]
		m.SaldoSum += day.Saldo
		m.CompletaSum += day.Completa
		m.DayCount++
		m.Days = append(m.Days, DayDetail{
			Label:    day.FullDateLabel,
			Saldo:    day.Saldo,
			Completa: day.Completa,
		})
	}

	for i := range months {
		count := decimal.NewFromInt(int64(months[i].DayCount))
		months[i].SaldoAvg = decimal.NewFromInt(int64(months[i].SaldoSum)).Div(count)
		months[i].CompletaAvg = decimal.NewFromInt(int64(months[i].CompletaSum)).Div(count)
	}

	sort.SliceStable(months, func(i, j int) bool {
		yi, mi := splitMonthKey(months[i].MonthKey)
		yj, mj := splitMonthKey(months[j].MonthKey)
		if yi != yj {
			return yi < yj
		}
		return mi < mj
	})

	if months == nil {
		return []MonthlyStat{}
	}
	return months
}

func splitMonthKey(key string) (int, int) {
	if len(key) < 7 {
		return 0, 0
	}
	year, _ := strconv.Atoi(key[:4])
	month, _ := strconv.Atoi(key[5:7])
	return year, month
}

func monthLabel(key string, ts time.Time) string {
	if !ts.IsZero() {
		return labels.Month(ts.Year(), ts.Month())
	}
	year, month := splitMonthKey(key)
	return labels.Month(year, time.Month(month))
}

// BuildHistory rolls a daily series up into a History
func BuildHistory(days []DailyMetric) *History {
	if days == nil {
		days = []DailyMetric{}
	}
	return &History{
		Days:   days,
		Months: RollupMonthly(days),
	}
}
