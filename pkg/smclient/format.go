package smclient

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var languageTags = map[string]language.Tag{
	"english":   language.English,
	"hindi":     language.Hindi,
	"bengali":   language.Bengali,
	"tamil":     language.Tamil,
	"telugu":    language.Telugu,
	"marathi":   language.Marathi,
	"gujarati":  language.Gujarati,
	"kannada":   language.Kannada,
	"malayalam": language.Malayalam,
	"punjabi":   language.Punjabi,
	"spanish":   language.Spanish,
	"french":    language.French,
	"arabic":    language.Arabic,
}

func tagFor(code string) language.Tag {
	if tag, ok := languageTags[code]; ok {
		return tag
	}
	return language.English
}

// dateLayouts maps preference patterns to Go reference layouts.
var dateLayouts = map[string]string{
	"MM/DD/YYYY": "01/02/2006",
	"DD/MM/YYYY": "02/01/2006",
	"YYYY-MM-DD": "2006-01-02",
	"MM-DD-YYYY": "01-02-2006",
	"DD-MM-YYYY": "02-01-2006",
	"YYYY/MM/DD": "2006/01/02",
}

// FormatNumber renders v with two decimal places in the preferred
// separator style. Styles outside the named set fall back to the
// current language's locale conventions.
func (s *Store) FormatNumber(v float64) string {
	switch s.Preferences().NumberFormat {
	case "1,234.56":
		return groupedNumber(v, ",", ".")
	case "1.234,56":
		return groupedNumber(v, ".", ",")
	case "1 234,56":
		return groupedNumber(v, " ", ",")
	}

	p := message.NewPrinter(tagFor(s.Language()))
	return p.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

// FormatCurrency renders an amount with the currency's symbol. An empty
// code uses the preference currency; a code that is not ISO 4217 is
// shown as-is in place of a symbol. Never errors.
func (s *Store) FormatCurrency(v float64, code string) string {
	prefs := s.Preferences()
	if code == "" {
		code = prefs.Currency
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	thousands, decimal := separatorsFor(prefs.NumberFormat)
	amount := groupedNumber(v, thousands, decimal)

	symbol := code
	spaced := true
	if unit, err := currency.ParseISO(code); err == nil {
		p := message.NewPrinter(tagFor(s.Language()))
		symbol = p.Sprintf("%v", currency.Symbol(unit))
		spaced = false
	}

	style := currencyStyles[s.Language()]
	if style.space {
		spaced = true
	}
	if style.position == "after" {
		if spaced {
			return amount + " " + symbol
		}
		return amount + symbol
	}
	if spaced {
		return symbol + " " + amount
	}
	return symbol + amount
}

// FormatDate renders the date part per the dateFormat preference in the
// preferred timezone. Unknown patterns fall back to the default.
func (s *Store) FormatDate(t time.Time) string {
	prefs := s.Preferences()
	layout, ok := dateLayouts[prefs.DateFormat]
	if !ok {
		layout = dateLayouts[defaultPreferences().DateFormat]
	}
	return inZone(t, prefs.Timezone).Format(layout)
}

// FormatTime renders the time part honoring the 12h/24h preference.
func (s *Store) FormatTime(t time.Time) string {
	prefs := s.Preferences()
	t = inZone(t, prefs.Timezone)
	if prefs.TimeFormat == "24h" {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

// FormatDateTime renders date and time together.
func (s *Store) FormatDateTime(t time.Time) string {
	return s.FormatDate(t) + " " + s.FormatTime(t)
}

// inZone converts t to the named zone, keeping t's own zone when the
// name is empty or does not load.
func inZone(t time.Time, zone string) time.Time {
	if zone == "" {
		return t
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t
	}
	return t.In(loc)
}

func separatorsFor(style string) (thousands, decimal string) {
	switch style {
	case "1.234,56":
		return ".", ","
	case "1 234,56":
		return " ", ","
	default:
		return ",", "."
	}
}

type currencyStyle struct {
	position string
	space    bool
}

// currencyStyles lists locales that deviate from symbol-before,
// no-space presentation.
var currencyStyles = map[string]currencyStyle{
	"spanish": {position: "after", space: true},
	"french":  {position: "after", space: true},
	"arabic":  {position: "before", space: true},
}

// groupedNumber renders v with two decimal places, grouping integer
// digits in threes.
func groupedNumber(v float64, thousands, decimal string) string {
	raw := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign = "-"
		raw = raw[1:]
	}
	intPart, fracPart, _ := strings.Cut(raw, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousands)
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + decimal + fracPart
}
