// Package layout converts table positions for the floor plan. Positions are
// fractions of the canvas so the map scales with the screen.
package layout

import (
	"math"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

const (
	legacyCols = 24
	legacyRows = 14

	DefaultPos = 0.05
)

type Position struct {
	XPct float64 `json:"xpct"`
	YPct float64 `json:"ypct"`
}

func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Normalize clamps and rounds a position before it is stored.
func Normalize(x, y float64) Position {
	return Position{XPct: Round4(Clamp01(x)), YPct: Round4(Clamp01(y))}
}

// Resolve returns the percentage position of a table, falling back to the
// legacy grid cell centre and then to DefaultPos per axis.
func Resolve(t models.PosTable) Position {
	return Position{
		XPct: axis(t.XPct, t.X, legacyCols),
		YPct: axis(t.YPct, t.Y, legacyRows),
	}
}

func axis(pct *float64, cell *int, cells int) float64 {
	if pct != nil {
		return Clamp01(*pct)
	}
	if cell != nil {
		return Clamp01((float64(*cell) + 0.5) / float64(cells))
	}
	return DefaultPos
}
