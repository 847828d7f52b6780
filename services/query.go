package services

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Page selects a window of a list. A zero Size means no limit.
type Page struct {
	Number int
	Size   int
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if p.Size <= 0 {
			return q
		}
		n := p.Number
		if n < 1 {
			n = 1
		}
		return q.Offset((n - 1) * p.Size).Limit(p.Size)
	}
}

// newestFirst orders by creation time with id as a stable tie-break.
func newestFirst(table string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// escaping wildcards with '!' which every supported dialect accepts.
func containsPattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// ilike returns a case-insensitive substring condition on column.
func ilike(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '!'"
}

// dayRange returns the UTC bounds [start, end) of the calendar day of t.
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
