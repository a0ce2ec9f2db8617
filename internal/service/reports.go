package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/appstate"
	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/reports"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	"github.com/Skotchmaster/cafe_pos/pkg/logging"
)

// saleKeyBit marks report keys of sales rows that have no archived item
// behind them, so they never collide with archived item ids.
const saleKeyBit = uint64(1) << 63

type ReportService struct {
	Repo     *repo.GormRepo
	State    *appstate.State
	Clock    reports.Clock
	Events   events.Publisher
	Currency string
	Now      func() time.Time

	closeMu sync.Mutex
}

type DaysReport struct {
	Days  []reports.DayTotal `json:"days"`
	Total reports.DayTotal   `json:"total"`
}

type OpenTotals struct {
	Orders int             `json:"orders"`
	Qty    int             `json:"qty"`
	Total  decimal.Decimal `json:"total"`
}

func (s *ReportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Rows is the sold-line ledger: every archived item, plus sales rows that
// do not point at an archived item.
func (s *ReportService) Rows(ctx context.Context) ([]reports.Row, error) {
	lines, err := s.Repo.ArchivedLines(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.Repo.Sales(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]reports.Row, 0, len(lines))
	seen := make(map[uint64]struct{}, len(lines))
	for _, l := range lines {
		seen[l.ItemID] = struct{}{}
		out = append(out, reports.Row{
			Key:       l.ItemID,
			OrderID:   l.OrderID,
			TableID:   l.TableID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			PriceEach: l.PriceEach,
			At:        l.ArchivedAt,
		})
	}
	for _, sr := range sales {
		if sr.ArchivedItemID != 0 {
			if _, dup := seen[sr.ArchivedItemID]; dup {
				continue
			}
		}
		key := sr.ArchivedItemID
		if key == 0 {
			key = saleKeyBit | uint64(sr.ID)
		}
		row := reports.Row{
			Key:       key,
			OrderID:   sr.ArchivedOrderID,
			TableID:   sr.TableID,
			ProductID: sr.ProductID,
			Name:      sr.Name,
			Qty:       sr.Qty,
			PriceEach: sr.PriceEach,
			Day:       sr.Day,
		}
		if sr.At != nil {
			row.At = *sr.At
		}
		out = append(out, row)
	}
	return out, nil
}

// Days returns the last n business days (all of them when n <= 0).
func (s *ReportService) Days(ctx context.Context, n int) (*DaysReport, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	days := reports.LastN(reports.Daily(s.Clock, rows), n)
	return &DaysReport{Days: days, Total: reports.Sum(days)}, nil
}

func (s *ReportService) ExportDays(ctx context.Context, w io.Writer, n int) error {
	rep, err := s.Days(ctx, n)
	if err != nil {
		return err
	}
	cur := s.Currency
	if cur == "" {
		cur = "RSD"
	}
	return reports.WriteXLSX(w, rep.Days, cur)
}

// OpenTotals sums what is currently on open table orders.
func (s *ReportService) OpenTotals(ctx context.Context) (*OpenTotals, error) {
	orders, err := s.Repo.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := &OpenTotals{Total: decimal.Zero}
	for _, o := range orders {
		qty := 0
		for _, it := range o.Items {
			qty += it.Qty
			out.Total = out.Total.Add(it.Amount())
		}
		if qty > 0 {
			out.Orders++
			out.Qty += qty
		}
	}
	return out, nil
}

// PendingShift previews the next shift close without recording anything.
func (s *ReportService) PendingShift(ctx context.Context) (reports.ShiftReport, error) {
	since, err := s.State.LastClose(ctx)
	if err != nil {
		return reports.ShiftReport{}, err
	}
	printed, err := s.State.Printed(ctx)
	if err != nil {
		return reports.ShiftReport{}, err
	}
	rows, err := s.Rows(ctx)
	if err != nil {
		return reports.ShiftReport{}, err
	}
	pending := reports.Pending(s.Clock, rows, since, printed)
	return reports.BuildShift(pending, since, s.now().UTC()), nil
}

// CloseShift records the pending rows as printed and moves the anchor. A
// close with nothing pending returns the empty report and changes nothing.
func (s *ReportService) CloseShift(ctx context.Context) (reports.ShiftReport, error) {
	s.closeMu.Lock()
	defer s.closeMu.Unlock()

	rep, err := s.PendingShift(ctx)
	if err != nil {
		return reports.ShiftReport{}, err
	}
	if rep.Empty() {
		logging.FromContext(ctx).Info("shift_close_empty")
		return rep, nil
	}
	if err := s.State.RecordClose(ctx, rep); err != nil {
		return reports.ShiftReport{}, err
	}

	publish(ctx, s.Events, "shift", events.ShiftClosed, rep)
	return rep, nil
}

func (s *ReportService) History(ctx context.Context) ([]reports.ShiftReport, error) {
	return s.State.History(ctx)
}
