package receipt

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

const (
	paperWidthMM  = 80
	paperHeightMM = 297
)

// PDF is the archived copy of a receipt on 80mm roll paper.
//
// TODO: register a UTF-8 font with WithCustomFonts; the built-in core font
// drops č and ć.
func PDF(shop Shop, meta Meta, lines []Line, total decimal.Decimal, warning string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(paperWidthMM, paperHeightMM).
		WithLeftMargin(4).
		WithTopMargin(4).
		WithRightMargin(4).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, shop, meta)
	addPDFLines(m, shop, lines)

	m.AddRow(6,
		col.New(6).Add(text.New("UKUPNO", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
		col.New(6).Add(text.New(shop.money(total), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right})),
	)
	m.AddRow(3, line.NewCol(12))
	if shop.Footer != "" {
		m.AddRow(5, col.New(12).Add(text.New(shop.Footer, props.Text{Size: 8, Align: align.Center})))
	}
	m.AddRow(5, col.New(12).Add(text.New(stamp(warning), props.Text{Size: 7, Align: align.Center})))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addPDFHeader(m core.Maroto, shop Shop, meta Meta) {
	m.AddRow(6, col.New(12).Add(text.New(shop.Name, props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Center})))
	if shop.Address != "" {
		m.AddRow(4, col.New(12).Add(text.New(shop.Address, props.Text{Size: 7, Align: align.Center})))
	}
	m.AddRow(5, col.New(12).Add(text.New(Title, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Center})))
	m.AddRow(4,
		col.New(6).Add(text.New(meta.Label, props.Text{Size: 7, Align: align.Left})),
		col.New(6).Add(text.New(shop.local(meta.At).Format("02.01.2006. 15:04"), props.Text{Size: 7, Align: align.Right})),
	)
	if meta.ReceiptNo != "" {
		m.AddRow(4, col.New(12).Add(text.New("Br: "+meta.ReceiptNo, props.Text{Size: 6, Align: align.Left})))
	}
	m.AddRow(3, line.NewCol(12))
}

func addPDFLines(m core.Maroto, shop Shop, lines []Line) {
	if len(lines) == 0 {
		m.AddRow(5, col.New(12).Add(text.New(emptyLine, props.Text{Size: 8, Align: align.Center})))
		m.AddRow(3, line.NewCol(12))
		return
	}
	for _, l := range lines {
		m.AddRow(5,
			col.New(5).Add(text.New(l.Name, props.Text{Size: 8, Align: align.Left})),
			col.New(3).Add(text.New(fmt.Sprintf("%d × %s", l.Qty, l.PriceEach.StringFixed(2)), props.Text{Size: 7, Align: align.Right})),
			col.New(4).Add(text.New(shop.money(l.Amount()), props.Text{Size: 8, Align: align.Right})),
		)
	}
	m.AddRow(3, line.NewCol(12))
}
