package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cafe_pos/internal/models"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestResolve(t *testing.T) {
	cases := []struct {
		name  string
		table models.PosTable
		want  Position
	}{
		{"percentWins", models.PosTable{XPct: ptrF(0.3), YPct: ptrF(0.7), X: ptrI(1), Y: ptrI(1)}, Position{0.3, 0.7}},
		{"legacyGrid", models.PosTable{X: ptrI(11), Y: ptrI(6)}, Position{11.5 / 24, 6.5 / 14}},
		{"legacyClamped", models.PosTable{X: ptrI(40), Y: ptrI(-3)}, Position{1, 0}},
		{"missing", models.PosTable{}, Position{DefaultPos, DefaultPos}},
		{"mixed", models.PosTable{XPct: ptrF(0.5), Y: ptrI(0)}, Position{0.5, 0.5 / 14}},
		{"percentClamped", models.PosTable{XPct: ptrF(1.7), YPct: ptrF(-0.2)}, Position{1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.table)
			require.InDelta(t, tc.want.XPct, got.XPct, 1e-9)
			require.InDelta(t, tc.want.YPct, got.YPct, 1e-9)
		})
	}
}

func TestNormalize(t *testing.T) {
	p := Normalize(0.123456, 1.5)
	require.Equal(t, 0.1235, p.XPct)
	require.Equal(t, 1.0, p.YPct)

	p = Normalize(math.NaN(), -1)
	require.Equal(t, 0.0, p.XPct)
	require.Equal(t, 0.0, p.YPct)
}
