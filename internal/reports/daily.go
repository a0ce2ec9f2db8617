package reports

import (
	"sort"

	"github.com/shopspring/decimal"
)

type DayTotal struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Qty     int             `json:"qty"`
}

// Daily buckets rows by business day, oldest first.
func Daily(c Clock, rows []Row) []DayTotal {
	byDay := make(map[string]*DayTotal)
	for _, r := range rows {
		day, ok := c.RowDay(r)
		if !ok {
			continue
		}
		dt, exists := byDay[day]
		if !exists {
			dt = &DayTotal{Day: day, Revenue: decimal.Zero}
			byDay[day] = dt
		}
		dt.Revenue = dt.Revenue.Add(r.Amount())
		dt.Qty += r.Qty
	}

	out := make([]DayTotal, 0, len(byDay))
	for _, dt := range byDay {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// LastN keeps the newest n days of an ascending slice.
func LastN(days []DayTotal, n int) []DayTotal {
	if n <= 0 || n >= len(days) {
		return days
	}
	return days[len(days)-n:]
}

func Sum(days []DayTotal) DayTotal {
	total := DayTotal{Revenue: decimal.Zero}
	for _, d := range days {
		total.Revenue = total.Revenue.Add(d.Revenue)
		total.Qty += d.Qty
	}
	return total
}
