package billdate

import "time"

// Mode selects between the two display styles used for bills.
type Mode int

const (
	// ModeDate renders the day only, e.g. 15/03/2024.
	ModeDate Mode = iota
	// ModeDateTime renders day and clock time, e.g. 15/03/2024, 10:30 AM.
	ModeDateTime
)

// DefaultLocale is used when a caller passes an unknown locale.
const DefaultLocale = "en-GB"

type localeLayouts struct {
	date     string
	dateTime string
}

// Only day-first locales are offered so that everything Format writes can
// be read back by Parse.
var locales = map[string]localeLayouts{
	"en-GB": {date: "02/01/2006", dateTime: "02/01/2006, 03:04 PM"},
	"en-IN": {date: "2/1/2006", dateTime: "2/1/2006, 3:04:05 pm"},
}

// SupportedLocale reports whether Format knows the locale.
func SupportedLocale(locale string) bool {
	_, ok := locales[locale]
	return ok
}

// Format renders t in the parser's location.
func (p *Parser) Format(t time.Time, mode Mode, locale string) string {
	l, ok := locales[locale]
	if !ok {
		l = locales[DefaultLocale]
	}
	layout := l.date
	if mode == ModeDateTime {
		layout = l.dateTime
	}
	return t.In(p.loc()).Format(layout)
}

// Today returns the current date in ModeDate for the given locale.
func (p *Parser) Today(locale string) string {
	return p.Format(p.CurrentTime(), ModeDate, locale)
}
