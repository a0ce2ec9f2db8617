package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type ItemTotal struct {
	Name   string          `json:"name"`
	Qty    int             `json:"qty"`
	Amount decimal.Decimal `json:"amt"`
}

func (i ItemTotal) AvgPrice() decimal.Decimal {
	if i.Qty == 0 {
		return decimal.Zero
	}
	return i.Amount.Div(decimal.NewFromInt(int64(i.Qty)))
}

// ShiftReport is both the close preview and the history entry written when
// a shift is closed.
type ShiftReport struct {
	At    time.Time       `json:"at"`
	Since *time.Time      `json:"since"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
	Items []ItemTotal     `json:"items"`
	Keys  []uint64        `json:"-"`
}

func (s ShiftReport) Empty() bool { return len(s.Keys) == 0 }

type KeySet interface {
	Contains(uint64) bool
}

// Pending drops rows already covered by an earlier close. A keyed row is
// pending until its key is printed, however old its time: a receipt stamped
// before a close may commit after the close read the archive. Only rows
// without a key fall back to the since anchor, and undated ones are kept.
func Pending(c Clock, rows []Row, since *time.Time, printed KeySet) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Key != 0 {
			if printed != nil && printed.Contains(r.Key) {
				continue
			}
		} else if since != nil {
			if t, ok := c.Moment(r); ok && t.Before(*since) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// GroupItems sums rows by product name, largest amount first, ties by
// quantity then name.
func GroupItems(rows []Row) []ItemTotal {
	idx := make(map[string]int)
	out := make([]ItemTotal, 0)
	for _, r := range rows {
		i, ok := idx[r.Name]
		if !ok {
			i = len(out)
			idx[r.Name] = i
			out = append(out, ItemTotal{Name: r.Name, Amount: decimal.Zero})
		}
		out[i].Qty += r.Qty
		out[i].Amount = out[i].Amount.Add(r.Amount())
	}
	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Amount.Cmp(out[b].Amount); c != 0 {
			return c > 0
		}
		if out[a].Qty != out[b].Qty {
			return out[a].Qty > out[b].Qty
		}
		return out[a].Name < out[b].Name
	})
	return out
}

func BuildShift(rows []Row, since *time.Time, at time.Time) ShiftReport {
	rep := ShiftReport{
		At:    at,
		Since: since,
		Total: decimal.Zero,
		Items: GroupItems(rows),
		Keys:  make([]uint64, 0, len(rows)),
	}
	for _, r := range rows {
		rep.Total = rep.Total.Add(r.Amount())
		rep.Count += r.Qty
		rep.Keys = append(rep.Keys, r.Key)
	}
	return rep
}
