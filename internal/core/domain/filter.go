package domain

// Column names of the snapshot export
const (
	ColumnRollID    = "ROLL_ID"
	ColumnPaperCode = "PAPER_CODE"
	ColumnWidth     = "WIDTH"
	ColumnEstado    = "ESTADO"
	ColumnCompleta  = "COMPLETA"
	ColumnLocation  = "LOCATION"
	ColumnDepo      = "DEPO"
)

// RequiredColumns is the column set the filters and aggregators read
var RequiredColumns = []string{
	ColumnRollID,
	ColumnPaperCode,
	ColumnWidth,
	ColumnEstado,
	ColumnCompleta,
	ColumnLocation,
	ColumnDepo,
}

// Normalized values the business filter compares against
const (
	StatusSaldo    = "SALDO"
	StatusCompleta = "COMPLETA"
	EstadoStock    = "STOCK"
	DepoPlanta     = "PLANTA SFM"
)

// excludedLocations never count as plant inventory
var excludedLocations = map[string]bool{
	"ULOG": true,
	"DPBQ": true,
}

// MissingColumns returns the required columns absent from the declared ones, in required order
func MissingColumns(columns []string) []string {
	declared := make(map[string]bool, len(columns))
	for _, c := range columns {
		declared[c] = true
	}

	var missing []string
	for _, required := range RequiredColumns {
		if !declared[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// MatchesGeneral is the validity predicate every inventory computation starts from
func MatchesGeneral(r RawRecord) bool {
	location := NormalizeString(r[ColumnLocation])

	return !excludedLocations[location] &&
		NormalizeString(r[ColumnEstado]) == EstadoStock &&
		NormalizeString(r[ColumnDepo]) == DepoPlanta
}

// IsAvailable reports a valid, unallocated (saldo) roll
func IsAvailable(r RawRecord) bool {
	return MatchesGeneral(r) && NormalizeString(r[ColumnCompleta]) == StatusSaldo
}

// IsComplete reports a valid, allocated (completa) roll
func IsComplete(r RawRecord) bool {
	return MatchesGeneral(r) && NormalizeString(r[ColumnCompleta]) == StatusCompleta
}

// FilterGeneral keeps the rows passing MatchesGeneral, in input order
func FilterGeneral(rows []RawRecord) []RawRecord {
	return filterRows(rows, MatchesGeneral)
}

// FilterAvailable keeps the rows passing IsAvailable, in input order
func FilterAvailable(rows []RawRecord) []RawRecord {
	return filterRows(rows, IsAvailable)
}

func filterRows(rows []RawRecord, keep func(RawRecord) bool) []RawRecord {
	filtered := make([]RawRecord, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
