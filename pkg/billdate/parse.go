// Package billdate normalizes the assorted date strings a bill can carry
// (ISO 8601, DD/MM/YYYY, DD/MM/YYYY HH:MM AM/PM, browser locale output)
// into comparable instants, and formats instants back for display.
package billdate

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parser converts raw bill date strings into instants. The zero value reads
// and writes dates in time.Local and uses the wall clock.
type Parser struct {
	Location *time.Location
	Now      func() time.Time
}

// New creates a parser bound to the shop's timezone.
func New(loc *time.Location) *Parser {
	return &Parser{Location: loc}
}

var std = &Parser{}

// Parse normalizes raw with the default parser.
func Parse(raw string) time.Time {
	return std.Parse(raw)
}

// IsValid reports whether t is a real instant rather than the sentinel
// Parse returns for input it could not understand.
func IsValid(t time.Time) bool {
	return !t.IsZero()
}

func (p *Parser) loc() *time.Location {
	if p == nil || p.Location == nil {
		return time.Local
	}
	return p.Location
}

// CurrentTime returns the parser's notion of now in its location.
func (p *Parser) CurrentTime() time.Time {
	if p != nil && p.Now != nil {
		return p.Now().In(p.loc())
	}
	return time.Now().In(p.loc())
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockLayouts = []string{
	"3:04 PM",
	"3:04:05 PM",
	"3:04PM",
	"3:04:05PM",
	"15:04",
	"15:04:05",
}

// Parse never fails. Empty input yields the current instant; anything it
// cannot read yields the zero time, which sorts before every real bill.
func (p *Parser) Parse(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return p.CurrentTime()
	}

	if strings.Contains(s, "T") {
		if t, ok := p.parseISO(s); ok {
			return t
		}
	}

	if strings.Contains(s, "/") {
		if t, ok := p.parseDayFirst(s); ok {
			return t
		}
	}

	if t, ok := p.parseLoose(s); ok {
		return t
	}
	return time.Time{}
}

func (p *Parser) parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p *Parser) parseDayFirst(s string) (time.Time, bool) {
	datePart, timePart := splitDateTime(s)

	fields := strings.Split(datePart, "/")
	if len(fields) != 3 || len(fields[2]) != 4 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	var hour, minute, second int
	if timePart != "" {
		clock, ok := parseClock(timePart)
		if !ok {
			return time.Time{}, false
		}
		hour, minute, second = clock.Clock()
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, p.loc())
	// 31/02 would otherwise roll over into March
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// splitDateTime cuts on the first space or comma, so both
// "15/03/2024 10:30 AM" and "15/03/2024, 10:30 am" work.
func splitDateTime(s string) (string, string) {
	idx := strings.IndexAny(s, " ,")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.Trim(s[idx+1:], " ,")
}

func parseClock(raw string) (time.Time, bool) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(raw), " "))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p *Parser) parseLoose(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, p.loc())
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
