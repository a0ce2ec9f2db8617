// Package icons holds the fixed set of category icon tags the screens know
// how to draw.
package icons

import (
	"sort"
	"strings"
)

type Icon string

const (
	Coffee     Icon = "Coffee"
	Beer       Icon = "Beer"
	Wine       Icon = "Wine"
	Martini    Icon = "Martini"
	GlassWater Icon = "GlassWater"
	CupSoda    Icon = "CupSoda"
	Utensils   Icon = "Utensils"
	Pizza      Icon = "Pizza"
	IceCream   Icon = "IceCream"
	Cake       Icon = "Cake"
	Cookie     Icon = "Cookie"
	Croissant  Icon = "Croissant"
	Soup       Icon = "Soup"
	Salad      Icon = "Salad"
	Sandwich   Icon = "Sandwich"
	Zap        Icon = "Zap"
	Apple      Icon = "Apple"
	Snowflake  Icon = "Snowflake"
	Mug        Icon = "Mug"
	Cherry     Icon = "Cherry"
	Fish       Icon = "Fish"
	Drumstick  Icon = "Drumstick"
)

const Default = Utensils

// glyphs is the fixed table every tag resolves through.
var glyphs = map[Icon]string{
	Coffee:     "☕",
	Beer:       "🍺",
	Wine:       "🍷",
	Martini:    "🍸",
	GlassWater: "💧",
	CupSoda:    "🥤",
	Utensils:   "🍴",
	Pizza:      "🍕",
	IceCream:   "🍨",
	Cake:       "🍰",
	Cookie:     "🍪",
	Croissant:  "🥐",
	Soup:       "🍲",
	Salad:      "🥗",
	Sandwich:   "🥪",
	Zap:        "⚡",
	Apple:      "🍎",
	Snowflake:  "❄",
	Mug:        "🍵",
	Cherry:     "🍒",
	Fish:       "🐟",
	Drumstick:  "🍗",
}

func (i Icon) Valid() bool {
	_, ok := glyphs[i]
	return ok
}

func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[Default]
}

// Parse accepts any casing and falls back to Default.
func Parse(s string) Icon {
	s = strings.TrimSpace(s)
	for ic := range glyphs {
		if strings.EqualFold(string(ic), s) {
			return ic
		}
	}
	return Default
}

func (i *Icon) UnmarshalText(b []byte) error {
	*i = Parse(string(b))
	return nil
}

func All() []Icon {
	out := make([]Icon, 0, len(glyphs))
	for ic := range glyphs {
		out = append(out, ic)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

var keywords = []struct {
	icon  Icon
	words []string
}{
	{Coffee, []string{"kaf", "coffee", "espresso", "topli"}},
	{Beer, []string{"pivo", "piva", "beer"}},
	{Wine, []string{"vino", "vina", "wine"}},
	{Martini, []string{"koktel", "cocktail", "žestin", "zestin", "alkohol", "rakij"}},
	{GlassWater, []string{"voda", "vode", "water"}},
	{CupSoda, []string{"sok", "sokovi", "gazir", "juice", "piće", "pice"}},
	{Mug, []string{"čaj", "caj", "tea"}},
	{Cake, []string{"torta", "torte", "kolač", "kolac", "desert", "slatk"}},
	{IceCream, []string{"sladoled", "ice"}},
	{Pizza, []string{"pic", "pizza"}},
	{Sandwich, []string{"sendvi", "sandwich", "tost"}},
	{Croissant, []string{"kroasan", "peciv", "doručak", "dorucak"}},
	{Salad, []string{"salat"}},
	{Soup, []string{"supa", "čorba", "corba"}},
	{Zap, []string{"energ"}},
}

// ForCategory guesses a tag from a category name.
func ForCategory(name string) Icon {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) {
				return k.icon
			}
		}
	}
	return Default
}
