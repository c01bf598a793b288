package domain

import (
	"sort"
	"strconv"
	"strings"
)

// PreferredWidths are shown first inside each paper code group
var PreferredWidths = []string{"1930", "2100", "2250", "2350", "2450"}

// UnknownPaperCode labels a group whose rows carry no paper code
const UnknownPaperCode = "Sin código"

// InventoryItem is the roll count of one (paper code, width) pair.
// PaperCode and Width keep the cell value as read; nil stays nil.
type InventoryItem struct {
	PaperCode  any `json:"paperCode"`
	Width      any `json:"width"`
	TotalRolls int `json:"totalRolls"`
}

// PaperCodeString returns the paper code as text
func (i InventoryItem) PaperCodeString() string {
	return Stringify(i.PaperCode)
}

// WidthString returns the width as text
func (i InventoryItem) WidthString() string {
	return Stringify(i.Width)
}

// PaperGroup holds every width of one paper code, preferred widths split out
type PaperGroup struct {
	PaperCode  string          `json:"paperCode"`
	Widths     []InventoryItem `json:"widths"`
	Preferred  []InventoryItem `json:"preferredWidths"`
	Additional []InventoryItem `json:"additionalWidths"`
	TotalRolls int             `json:"totalRolls"`
}

func inventoryKey(paperCode, width any) string {
	return Stringify(paperCode) + "::" + Stringify(width)
}

// AggregateInventory counts rows per (paper code, width); every row is one roll.
// Output follows first-seen key order and is not sorted.
func AggregateInventory(rows []RawRecord) []InventoryItem {
	index := make(map[string]int)
	var items []InventoryItem

	for _, r := range rows {
		paperCode := r[ColumnPaperCode]
		width := r[ColumnWidth]
		key := inventoryKey(paperCode, width)

		pos, ok := index[key]
		if !ok {
			pos = len(items)
			index[key] = pos
			items = append(items, InventoryItem{PaperCode: paperCode, Width: width})
		}
		items[pos].TotalRolls++
	}

	if items == nil {
		return []InventoryItem{}
	}
	return items
}

// SortInventory orders items by paper code, then numerically by width.
// Widths fall back to text comparison when either side is not a number.
func SortInventory(items []InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PaperCodeString(), items[j].PaperCodeString()
		if a != b {
			return a < b
		}
		return lessWidth(items[i].Width, items[j].Width)
	})
}

func lessWidth(a, b any) bool {
	na, okA := widthNumber(a)
	nb, okB := widthNumber(b)
	if okA && okB {
		return na < nb
	}
	return Stringify(a) < Stringify(b)
}

func widthNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			// Blank widths sort as zero
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case nil:
		return 0, true
	default:
		return 0, false
	}
}

// IsPreferredWidth is an exact trimmed-string match against PreferredWidths
func IsPreferredWidth(width any) bool {
	w := strings.TrimSpace(Stringify(width))
	for _, p := range PreferredWidths {
		if w == p {
			return true
		}
	}
	return false
}

// SplitPreferred partitions items into preferred and other widths, keeping order
func SplitPreferred(items []InventoryItem) (preferred, others []InventoryItem) {
	for _, item := range items {
		if IsPreferredWidth(item.Width) {
			preferred = append(preferred, item)
		} else {
			others = append(others, item)
		}
	}
	return preferred, others
}

// GroupByPaperCode groups items by paper code, sorted by code, with sorted widths
func GroupByPaperCode(items []InventoryItem) []PaperGroup {
	sorted := make([]InventoryItem, len(items))
	copy(sorted, items)
	SortInventory(sorted)

	index := make(map[string]int)
	var groups []PaperGroup
	for _, item := range sorted {
		code := item.PaperCodeString()
		if code == "" {
			code = UnknownPaperCode
		}

		pos, ok := index[code]
		if !ok {
			pos = len(groups)
			index[code] = pos
			groups = append(groups, PaperGroup{PaperCode: code})
		}
		groups[pos].Widths = append(groups[pos].Widths, item)
		groups[pos].TotalRolls += item.TotalRolls
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].PaperCode < groups[j].PaperCode
	})

	for i := range groups {
		groups[i].Preferred, groups[i].Additional = SplitPreferred(groups[i].Widths)
	}

	return groups
}

// SumRolls is the grand total of a set of items
func SumRolls(items []InventoryItem) int {
	total := 0
	for _, item := range items {
		total += item.TotalRolls
	}
	return total
}

// SearchInventory keeps items whose paper code or width contains term (case-insensitive)
func SearchInventory(items []InventoryItem, term string) []InventoryItem {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return items
	}

	var matches []InventoryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.PaperCodeString()), needle) ||
			strings.Contains(strings.ToLower(item.WidthString()), needle) {
			matches = append(matches, item)
		}
	}
	return matches
}
