// Package receipt renders printable 80mm receipts.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/reports"
)

const (
	Title      = "Predračun"
	QuickLabel = "Brzo kucanje"
	emptyLine  = "— Nema stavki —"

	// DefaultWarning is stamped when no warning is configured.
	DefaultWarning = "Ovo nije fiskalni račun"
)

type Shop struct {
	Name     string
	Address  string
	Currency string
	Footer   string
	Loc      *time.Location
}

type Meta struct {
	Label     string
	ReceiptNo string
	At        time.Time
}

type Line struct {
	Name      string
	Qty       int
	PriceEach decimal.Decimal
}

func (l Line) Amount() decimal.Decimal {
	return l.PriceEach.Mul(decimal.NewFromInt(int64(l.Qty)))
}

func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// TableLabel is "Sto #id" for table orders and QuickLabel otherwise.
func TableLabel(tableID *uint) string {
	if tableID == nil {
		return QuickLabel
	}
	return fmt.Sprintf("Sto #%d", *tableID)
}

func (s Shop) money(d decimal.Decimal) string {
	cur := s.Currency
	if cur == "" {
		cur = "RSD"
	}
	return d.StringFixed(2) + " " + cur
}

func (s Shop) local(t time.Time) time.Time {
	if s.Loc == nil {
		return t
	}
	return t.In(s.Loc)
}

type receiptView struct {
	Shop    Shop
	Title   string
	Meta    Meta
	When    string
	Lines   []lineView
	Empty   string
	Total   string
	Warning string
}

type lineView struct {
	Qty    int
	Name   string
	Unit   string
	Amount string
}

func stamp(warning string) string {
	if strings.TrimSpace(warning) == "" {
		return DefaultWarning
	}
	return warning
}

// Render builds the customer receipt. An empty line list prints a
// placeholder instead of items.
func Render(shop Shop, meta Meta, lines []Line, total decimal.Decimal, warning string) (string, error) {
	v := receiptView{
		Shop:    shop,
		Title:   Title,
		Meta:    meta,
		When:    shop.local(meta.At).Format("02.01.2006. 15:04"),
		Empty:   emptyLine,
		Total:   shop.money(total),
		Warning: stamp(warning),
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, lineView{
			Qty:    l.Qty,
			Name:   l.Name,
			Unit:   l.PriceEach.StringFixed(2),
			Amount: shop.money(l.Amount()),
		})
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

type shiftView struct {
	Shop    Shop
	Since   string
	Until   string
	Total   string
	Count   int
	Items   []shiftItemView
	Printed string
}

type shiftItemView struct {
	Name   string
	Unit   string
	Amount string
}

// RenderShift prints the shift close summary.
func RenderShift(shop Shop, rep reports.ShiftReport) (string, error) {
	v := shiftView{
		Shop:    shop,
		Since:   "početak",
		Until:   shop.local(rep.At).Format("2006-01-02 15:04"),
		Total:   shop.money(rep.Total),
		Count:   rep.Count,
		Printed: shop.local(rep.At).Format("02.01.2006. 15:04:05"),
	}
	if rep.Since != nil {
		v.Since = shop.local(*rep.Since).Format("2006-01-02 15:04")
	}
	for _, it := range rep.Items {
		v.Items = append(v.Items, shiftItemView{
			Name:   it.Name,
			Unit:   fmt.Sprintf("%d× %s", it.Qty, it.AvgPrice().StringFixed(2)),
			Amount: shop.money(it.Amount),
		})
	}

	var buf bytes.Buffer
	if err := shiftTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render shift close: %w", err)
	}
	return buf.String(), nil
}
