package labels

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the display locale used for every number and date label
var Locale = language.MustParse("es-CL")

var shortMonths = [...]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sept", "oct", "nov", "dic",
}

var longMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ShortDate formats a day as "10 sept 2025"
func ShortDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d %s %d", t.Day(), shortMonths[t.Month()-1], t.Year())
}

// LongDate formats a day as "10 de septiembre de 2025"
func LongDate(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d de %s de %d", t.Day(), longMonths[t.Month()-1], t.Year())
}

// Month formats a year-month as "septiembre de 2025"
func Month(year int, month time.Month) string {
	if month < time.January || month > time.December {
		return fmt.Sprintf("%04d-%02d", year, int(month))
	}
	return fmt.Sprintf("%s de %d", longMonths[month-1], year)
}

// Count formats an integer with the locale's grouping ("12.345")
func Count(n int) string {
	return message.NewPrinter(Locale).Sprintf("%d", n)
}

// Average formats a mean with at most one fractional digit ("12,5")
func Average(v float64) string {
	p := message.NewPrinter(Locale)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(1), number.MinFractionDigits(0)))
}

// Items renders the "N item(s)" counter shown next to the inventory search
func Items(n int) string {
	if n == 1 {
		return Count(n) + " item"
	}
	return Count(n) + " items"
}
