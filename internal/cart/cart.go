// Package cart is the in-memory order line arithmetic shared by the quick
// cart and by table orders before they hit the store.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

var ErrGuest = errors.New("guest must be between 0 and 5")

type Line struct {
	ItemID    uint            `json:"item_id,omitempty"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	PriceEach decimal.Decimal `json:"price_each"`
	Guest     int             `json:"guest"`
}

func (l Line) Amount() decimal.Decimal {
	return l.PriceEach.Mul(decimal.NewFromInt(int64(l.Qty)))
}

type Cart struct {
	Lines []Line `json:"lines"`
}

func ValidGuest(g int) bool { return g >= 0 && g <= models.MaxGuest }

// Add bumps the line for the same product and guest or appends a new line
// with quantity 1 and the product's current price.
func (c *Cart) Add(p models.Product, guest int) error {
	if !ValidGuest(guest) {
		return ErrGuest
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID && c.Lines[i].Guest == guest {
			c.Lines[i].Qty++
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{
		ProductID: p.ID,
		Name:      p.Name,
		Qty:       1,
		PriceEach: p.Price,
		Guest:     guest,
	})
	return nil
}

// Change applies delta to the line at idx and drops it once the quantity
// reaches zero. It reports whether the line was removed.
func (c *Cart) Change(idx, delta int) bool {
	if idx < 0 || idx >= len(c.Lines) {
		return false
	}
	c.Lines[idx].Qty += delta
	if c.Lines[idx].Qty <= 0 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
		return true
	}
	return false
}

// Index finds the line for product and guest, or -1.
func (c Cart) Index(productID uint, guest int) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Guest == guest {
			return i
		}
	}
	return -1
}

func (c Cart) Total() decimal.Decimal {
	return Total(c.Lines)
}

func (c Cart) Quantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// ForGuest returns every line when guest is 0.
func ForGuest(lines []Line, guest int) []Line {
	if guest == 0 {
		return lines
	}
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Guest == guest {
			out = append(out, l)
		}
	}
	return out
}

func FromOrderItems(items []models.OrderItem) []Line {
	out := make([]Line, 0, len(items))
	for _, it := range items {
		out = append(out, Line{
			ItemID:    it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			PriceEach: it.PriceEach,
			Guest:     it.Guest,
		})
	}
	return out
}
