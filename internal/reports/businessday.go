// Package reports aggregates sold lines into business-day totals and shift
// closing summaries.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

const DayLayout = "2006-01-02"

// Row is one sold line as seen by the reports. Key is the archived item id
// and is unique across the archive.
type Row struct {
	Key       uint64          `json:"key"`
	OrderID   uint            `json:"order_id"`
	TableID   *uint           `json:"table_id,omitempty"`
	ProductID *uint           `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	PriceEach decimal.Decimal `json:"price_each"`
	At        time.Time       `json:"at"`
	Day       string          `json:"day,omitempty"`
}

func (r Row) Amount() decimal.Decimal {
	return r.PriceEach.Mul(decimal.NewFromInt(int64(r.Qty)))
}

// Clock holds the business-day rule: anything before CutoffHour local time
// belongs to the previous calendar day.
type Clock struct {
	Loc        *time.Location
	CutoffHour int
	// DayOnlyPrevious makes rows that carry only a day string follow the
	// midnight reading of the rule and land on the day before.
	DayOnlyPrevious bool
}

func (c Clock) loc() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

func (c Clock) BusinessDay(t time.Time) string {
	local := t.In(c.loc())
	if local.Hour() < c.CutoffHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DayLayout)
}

// RowDay resolves the business day of a row. Rows with neither a timestamp
// nor a readable day are reported as false.
func (c Clock) RowDay(r Row) (string, bool) {
	if !r.At.IsZero() {
		return c.BusinessDay(r.At), true
	}
	d, err := time.ParseInLocation(DayLayout, r.Day, c.loc())
	if err != nil {
		return "", false
	}
	if c.DayOnlyPrevious {
		return c.BusinessDay(d), true
	}
	return d.Format(DayLayout), true
}

// Moment gives the instant used for shift filtering; day-only rows read as
// local midnight.
func (c Clock) Moment(r Row) (time.Time, bool) {
	if !r.At.IsZero() {
		return r.At, true
	}
	d, err := time.ParseInLocation(DayLayout, r.Day, c.loc())
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
