package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/events"
	"github.com/Skotchmaster/cafe_pos/internal/models"
	"github.com/Skotchmaster/cafe_pos/internal/receipt"
	"github.com/Skotchmaster/cafe_pos/internal/reports"
	"github.com/Skotchmaster/cafe_pos/internal/repo"
	"github.com/Skotchmaster/cafe_pos/pkg/util"
)

// Printer turns archived receipts into printable documents.
type Printer struct {
	Shop    receipt.Shop
	Warning string
}

func receiptLines(arch *models.ArchivedOrder) []receipt.Line {
	out := make([]receipt.Line, 0, len(arch.Items))
	for _, it := range arch.Items {
		out = append(out, receipt.Line{Name: it.Name, Qty: it.Qty, PriceEach: it.PriceEach})
	}
	return out
}

func receiptMeta(arch *models.ArchivedOrder) receipt.Meta {
	return receipt.Meta{Label: arch.Label, ReceiptNo: arch.ReceiptNo.String(), At: arch.ArchivedAt}
}

func (p Printer) HTML(arch *models.ArchivedOrder) (string, error) {
	lines := receiptLines(arch)
	return receipt.Render(p.Shop, receiptMeta(arch), lines, receipt.Total(lines), p.Warning)
}

func (p Printer) PDF(arch *models.ArchivedOrder) ([]byte, error) {
	lines := receiptLines(arch)
	return receipt.PDF(p.Shop, receiptMeta(arch), lines, receipt.Total(lines), p.Warning)
}

func (p Printer) Shift(rep reports.ShiftReport) (string, error) {
	return receipt.RenderShift(p.Shop, rep)
}

type ReceiptService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Loc    *time.Location
}

// ReceiptFilter narrows the archive list. From and To are calendar days
// (2006-01-02) in the shop's timezone; To is inclusive.
type ReceiptFilter struct {
	From     string
	To       string
	TableID  *uint
	Query    string
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
	Page     int
	Size     int
}

type ReceiptPage struct {
	Data []models.ArchivedOrder `json:"data"`
	Meta map[string]any         `json:"meta"`
}

func (s *ReceiptService) loc() *time.Location {
	if s.Loc == nil {
		return time.Local
	}
	return s.Loc
}

func (s *ReceiptService) List(ctx context.Context, f ReceiptFilter) (*ReceiptPage, error) {
	var from, to *time.Time
	if f.From != "" {
		t, err := time.ParseInLocation(reports.DayLayout, f.From, s.loc())
		if err != nil {
			return nil, fmt.Errorf("bad from date %q: %w", f.From, ErrValidation)
		}
		from = &t
	}
	if f.To != "" {
		t, err := time.ParseInLocation(reports.DayLayout, f.To, s.loc())
		if err != nil {
			return nil, fmt.Errorf("bad to date %q: %w", f.To, ErrValidation)
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}

	all, err := s.Repo.ListArchived(ctx, f.TableID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	matched := make([]models.ArchivedOrder, 0, len(all))
	for _, o := range all {
		if from != nil && o.ArchivedAt.Before(*from) {
			continue
		}
		if to != nil && !o.ArchivedAt.Before(*to) {
			continue
		}
		if f.MinTotal != nil && o.Total.LessThan(*f.MinTotal) {
			continue
		}
		if f.MaxTotal != nil && o.Total.GreaterThan(*f.MaxTotal) {
			continue
		}
		if q != "" && !strings.Contains(searchText(o), q) {
			continue
		}
		matched = append(matched, o)
	}

	page := util.ClampPage(f.Page)
	offset, limit := util.Calculate(page, f.Size)
	meta := util.Meta(page, limit, offset, int64(len(matched)))
	end := offset + limit
	if offset > len(matched) {
		offset = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &ReceiptPage{
		Data: matched[offset:end],
		Meta: meta,
	}, nil
}

// searchText is what the archive text filter matches against: the label
// and every line as "name xqty".
func searchText(o models.ArchivedOrder) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(o.Label))
	for _, it := range o.Items {
		fmt.Fprintf(&b, "\n%s x%d", strings.ToLower(it.Name), it.Qty)
	}
	return b.String()
}

func (s *ReceiptService) Get(ctx context.Context, id uint) (*models.ArchivedOrder, error) {
	o, err := s.Repo.GetArchived(ctx, id)
	if err != nil {
		return nil, notFound(err, "receipt")
	}
	return o, nil
}

// Delete drops the receipt from the archive and from every report.
func (s *ReceiptService) Delete(ctx context.Context, id uint) error {
	o, err := s.Repo.DeleteArchived(ctx, id)
	if err != nil {
		return notFound(err, "receipt")
	}
	publish(ctx, s.Events, o.ReceiptNo.String(), events.ReceiptDeleted, ReceiptEvent{
		ID:        o.ID,
		ReceiptNo: o.ReceiptNo.String(),
		TableID:   o.TableID,
		Total:     o.Total,
		At:        o.ArchivedAt,
	})
	return nil
}
