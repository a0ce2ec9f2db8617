package csvimport

import "strings"

const FallbackCategory = "Ostalo"

// Classifier assigns a category to a product whose row left it blank.
type Classifier interface {
	Classify(productName string) string
}

type Rule struct {
	Category string
	Keywords []string
}

type KeywordClassifier struct {
	Rules    []Rule
	Fallback string
}

func (k *KeywordClassifier) Classify(productName string) string {
	lower := strings.ToLower(productName)
	for _, r := range k.Rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	if k.Fallback != "" {
		return k.Fallback
	}
	return FallbackCategory
}

func DefaultClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		Fallback: FallbackCategory,
		Rules: []Rule{
			{"Topli napici", []string{"espresso", "kafa", "kapu", "cappuccino", "latte", "macchiato", "makijato", "nescaf", "čaj", "caj", "kakao", "čokolad", "cokolad"}},
			{"Energetska pića", []string{"red bull", "guarana", "energ", "monster"}},
			{"Voda", []string{"voda", "rosa", "knjaz", "aqua"}},
			{"Sokovi", []string{"sok", "coca", "cola", "fanta", "sprite", "schweppes", "limunada", "cedevita", "juice", "ice tea"}},
			{"Pivo", []string{"pivo", "lav", "jelen", "heineken", "tuborg", "stella", "corona", "zaječar", "zajecar"}},
			{"Vino", []string{"vino", "vranac", "chardonnay", "sauvignon", "merlot", "rose"}},
			{"Žestoka pića", []string{"rakija", "viski", "whisky", "vodka", "votka", "gin", "rum", "tekila", "tequila", "jäger", "jager", "pelin", "vinjak", "konjak"}},
			{"Hrana", []string{"sendvič", "sendvic", "tost", "pica", "pizza", "kroasan", "torta", "kolač", "kolac", "palačink", "palacink"}},
		},
	}
}

// FillCategories resolves blank categories in place.
func FillCategories(rows []Row, c Classifier) {
	if c == nil {
		c = DefaultClassifier()
	}
	for i := range rows {
		if rows[i].Category == "" {
			rows[i].Category = c.Classify(rows[i].Name)
		}
	}
}

// Categories lists distinct category names in order of first appearance.
func Categories(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)
	for _, r := range rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}
