package billdate

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Period is a rolling reporting window anchored at local midnight.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

const day = 24 * time.Hour

// ParsePeriod validates a period name. Empty input means today.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// StartOfToday returns midnight of the current day in the parser's location.
func (p *Parser) StartOfToday() time.Time {
	now := p.CurrentTime()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc())
}

// Since returns the earliest instant included in period. The second result
// is false for PeriodAll, which has no lower bound.
func (p *Parser) Since(period Period) (time.Time, bool) {
	todayStart := p.StartOfToday()
	switch period {
	case PeriodToday:
		return todayStart, true
	case PeriodWeek:
		return todayStart.Add(-7 * day), true
	case PeriodMonth:
		return todayStart.Add(-30 * day), true
	default:
		return time.Time{}, false
	}
}

// InPeriod reports whether the raw bill timestamp falls inside period.
func (p *Parser) InPeriod(raw string, period Period) bool {
	since, bounded := p.Since(period)
	if !bounded {
		return true
	}
	return !p.Parse(raw).Before(since)
}

// SortNewestFirst orders items by their parsed timestamp, newest first.
// Unreadable timestamps sink to the end.
func SortNewestFirst[T any](p *Parser, items []T, stamp func(T) string) {
	keys := make(map[int]time.Time, len(items))
	idx := make([]int, len(items))
	for i := range items {
		idx[i] = i
		keys[i] = p.Parse(stamp(items[i]))
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].After(keys[idx[b]])
	})

	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
