package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kamal-hamza/bobina/pkg/labels"
)

// FileEntry is one CSV file found in the selected directory.
// Entries are created by a listing and never modified afterwards.
type FileEntry struct {
	Name         string // Base name, e.g. "20250913-110416.CSV"
	RelativePath string // Path relative to the selected directory, always with forward slashes
	Path         string // Absolute path used to open the file
}

// FileMeta is the timestamp information encoded in a snapshot filename
type FileMeta struct {
	Name      string
	DateKey   string    // "YYYY-MM-DD"
	MonthKey  string    // "YYYY-MM"
	Timestamp time.Time // Always UTC
	DateLabel string    // "10 sept 2025"
	LongLabel string    // "10 de septiembre de 2025"
}

// TimestampMillis returns the timestamp as milliseconds since the Unix epoch
func (m FileMeta) TimestampMillis() int64 {
	return m.Timestamp.UnixMilli()
}

// snapshotPattern matches "YYYYMMDD-HHMMSS.csv" with a case-insensitive extension
var snapshotPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})\.(?i:csv)$`)

// ParseSnapshotName extracts the UTC timestamp embedded in a snapshot filename.
// Names that do not match the pattern, or whose components do not form a real
// calendar instant (month 13, Feb 30, hour 24...), return false.
func ParseSnapshotName(name string) (FileMeta, bool) {
	match := snapshotPattern.FindStringSubmatch(name)
	if match == nil {
		return FileMeta{}, false
	}

	parts := make([]int, 6)
	for i := range parts {
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return FileMeta{}, false
		}
		parts[i] = n
	}
	year, month, day, hour, minute, second := parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]

	ts := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)

	// time.Date normalises overflow; a rollover means the name was not a valid date
	if ts.Year() != year || int(ts.Month()) != month || ts.Day() != day ||
		ts.Hour() != hour || ts.Minute() != minute || ts.Second() != second {
		return FileMeta{}, false
	}

	dateKey := match[1] + "-" + match[2] + "-" + match[3]

	return FileMeta{
		Name:      name,
		DateKey:   dateKey,
		MonthKey:  dateKey[:7],
		Timestamp: ts,
		DateLabel: labels.ShortDate(ts),
		LongLabel: labels.LongDate(ts),
	}, true
}

// IsCSVName reports whether a filename carries a .csv extension (any case)
func IsCSVName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}

// IsHiddenName reports dot files and "~" lock files left by spreadsheet editors
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~")
}

// FilterCSV keeps the entries whose name ends in .csv
func FilterCSV(entries []FileEntry) []FileEntry {
	var csvs []FileEntry
	for _, entry := range entries {
		if IsCSVName(entry.Name) {
			csvs = append(csvs, entry)
		}
	}
	return csvs
}

// LatestSnapshot picks the newest entry by filename timestamp.
// Entries whose name does not parse are skipped. When nothing parses, the first
// entry is returned without meta if allowFallback is set.
func LatestSnapshot(entries []FileEntry, allowFallback bool) (FileEntry, *FileMeta, bool) {
	var (
		latest     FileEntry
		latestMeta *FileMeta
	)

	for _, entry := range entries {
		meta, ok := ParseSnapshotName(entry.Name)
		if !ok {
			continue
		}
		if latestMeta == nil || meta.Timestamp.After(latestMeta.Timestamp) {
			m := meta
			latest = entry
			latestMeta = &m
		}
	}

	if latestMeta != nil {
		return latest, latestMeta, true
	}

	if allowFallback && len(entries) > 0 {
		return entries[0], nil, true
	}

	return FileEntry{}, nil, false
}
