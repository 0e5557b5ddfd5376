package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ManassasDevAct/msg2txt/model"
)

// Order selects how records are arranged in the combined documents.
type Order string

const (
	OrderDateAsc    Order = "by-date-asc"
	OrderDateDesc   Order = "by-date-desc"
	OrderAsUploaded Order = "as-uploaded"
)

// Orders lists the accepted order values.
func Orders() []Order {
	return []Order{OrderDateAsc, OrderDateDesc, OrderAsUploaded}
}

// ParseOrder validates an order string.
func ParseOrder(s string) (Order, error) {
	for _, o := range Orders() {
		if s == string(o) {
			return o, nil
		}
	}
	return "", fmt.Errorf("invalid order %q", s)
}

type sortKey struct {
	rec     model.Record
	date    time.Time
	hasDate bool
}

// Sort arranges records per the ordering policy. Records with a parseable
// date always come before records without one, in both directions; the
// chosen direction applies to the date value, with subject and original
// filename as ascending tie-breakers. OrderAsUploaded preserves input order.
func Sort(records []model.Record, order Order) {
	if order == OrderAsUploaded || len(records) < 2 {
		return
	}
	desc := order == OrderDateDesc

	keys := make([]sortKey, len(records))
	for i, rec := range records {
		date, ok := parseRecordDate(rec)
		keys[i] = sortKey{rec: rec, date: date, hasDate: ok}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.hasDate != b.hasDate {
			return a.hasDate
		}
		if a.hasDate && !a.date.Equal(b.date) {
			if desc {
				return a.date.After(b.date)
			}
			return a.date.Before(b.date)
		}
		if a.rec.Subject != b.rec.Subject {
			return a.rec.Subject < b.rec.Subject
		}
		return a.rec.OriginalFilename < b.rec.OriginalFilename
	})

	for i, k := range keys {
		records[i] = k.rec
	}
}

func parseRecordDate(rec model.Record) (time.Time, bool) {
	s := rec.Date
	if s == "" {
		s = rec.DateRaw
	}
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
