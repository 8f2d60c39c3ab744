package language

// NumberRules describes how a locale groups and separates digits.
type NumberRules struct {
	DecimalSeparator   string `json:"decimal_separator"`
	ThousandsSeparator string `json:"thousands_separator"`
}

// CurrencyRules describes how a locale presents its default currency.
type CurrencyRules struct {
	Code             string `json:"code"`
	Symbol           string `json:"symbol"`
	Position         string `json:"position"` // "before" or "after" the amount
	DecimalPlaces    int    `json:"decimal_places"`
	SpaceAfterSymbol bool   `json:"space_after_symbol"`
}

// LocaleRules bundles everything a client needs to format values for a
// language: text direction, date/time patterns, digit separators, and
// default currency presentation.
type LocaleRules struct {
	Code       string        `json:"code"`
	Tag        string        `json:"tag"` // BCP 47
	Direction  string        `json:"direction"`
	DateFormat string        `json:"date_format"`
	TimeFormat string        `json:"time_format"` // "12h" or "24h"
	Number     NumberRules   `json:"number_format"`
	Currency   CurrencyRules `json:"currency_format"`
}

var localeRules = map[string]LocaleRules{
	"english": {
		Code: "english", Tag: "en", Direction: "ltr",
		DateFormat: "MM/DD/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "USD", Symbol: "$", Position: "before", DecimalPlaces: 2},
	},
	"hindi": {
		Code: "hindi", Tag: "hi", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"bengali": {
		Code: "bengali", Tag: "bn", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"tamil": {
		Code: "tamil", Tag: "ta", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"telugu": {
		Code: "telugu", Tag: "te", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"marathi": {
		Code: "marathi", Tag: "mr", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"gujarati": {
		Code: "gujarati", Tag: "gu", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"kannada": {
		Code: "kannada", Tag: "kn", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"malayalam": {
		Code: "malayalam", Tag: "ml", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"punjabi": {
		Code: "punjabi", Tag: "pa", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "INR", Symbol: "₹", Position: "before", DecimalPlaces: 2},
	},
	"spanish": {
		Code: "spanish", Tag: "es", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "24h",
		Number:   NumberRules{DecimalSeparator: ",", ThousandsSeparator: "."},
		Currency: CurrencyRules{Code: "EUR", Symbol: "€", Position: "after", DecimalPlaces: 2, SpaceAfterSymbol: true},
	},
	"french": {
		Code: "french", Tag: "fr", Direction: "ltr",
		DateFormat: "DD/MM/YYYY", TimeFormat: "24h",
		Number:   NumberRules{DecimalSeparator: ",", ThousandsSeparator: " "},
		Currency: CurrencyRules{Code: "EUR", Symbol: "€", Position: "after", DecimalPlaces: 2, SpaceAfterSymbol: true},
	},
	"arabic": {
		Code: "arabic", Tag: "ar", Direction: "rtl",
		DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
		Number:   NumberRules{DecimalSeparator: ".", ThousandsSeparator: ","},
		Currency: CurrencyRules{Code: "AED", Symbol: "د.إ", Position: "before", DecimalPlaces: 2, SpaceAfterSymbol: true},
	},
}

// RulesFor returns the formatting rules for a language code. Unknown codes
// get the base language's rules and a fallback flag so clients can still
// render something sensible.
func RulesFor(code string) (LocaleRules, bool) {
	if rules, ok := localeRules[code]; ok {
		return rules, false
	}
	return localeRules[BaseLanguage], true
}

// Tag returns the BCP 47 tag for a language code, or the base language's
// tag when the code is unknown.
func Tag(code string) string {
	rules, _ := RulesFor(code)
	return rules.Tag
}
