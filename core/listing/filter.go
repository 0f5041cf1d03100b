package listing

import (
	"math"
	"strconv"
	"strings"

	"github.com/sigimobiliare/sig/core"
)

// anyValue is the "no preference" option of the search form.
const anyValue = "oricare"

// QueryFilter holds the search form criteria. Empty fields and "Oricare" match everything.
type QueryFilter struct {
	PropertyType string `query:"propertyType"`
	Neighborhood string `query:"neighborhood"`
	Budget       string `query:"budget"`
	ID           string `query:"id"`
}

type budgetRange struct {
	min, max float64
}

func isAny(v string) bool {
	v = core.NormalizeText(v)
	return v == "" || v == anyValue
}

// IsEmpty reports whether the filter matches every listing.
func (f QueryFilter) IsEmpty() bool {
	return isAny(f.PropertyType) && isAny(f.Neighborhood) &&
		strings.TrimSpace(f.Budget) == "" && strings.TrimSpace(f.ID) == ""
}

// Match reports whether l satisfies every criterion of the filter.
func (f QueryFilter) Match(l Listing) bool {
	if kind, ok := KindFromPropertyType(f.PropertyType); ok && l.Kind != kind {
		return false
	}

	if !isAny(f.Neighborhood) {
		n, ok := l.Neighborhood()
		if !ok || core.NormalizeText(n) != core.NormalizeText(f.Neighborhood) {
			return false
		}
	}

	if r, ok := parseBudgetRange(f.Budget); ok {
		price, ok := parseEuroAmount(l.Price)
		if !ok || price < r.min || price > r.max {
			return false
		}
	}

	if id := strings.TrimSpace(f.ID); id != "" {
		if core.NormalizeText(l.ID) != core.NormalizeText(id) {
			return false
		}
	}
	return true
}

// Apply returns the listings matching the filter, keeping their order.
func (f QueryFilter) Apply(ls []Listing) []Listing {
	if f.IsEmpty() {
		return ls
	}
	out := make([]Listing, 0, len(ls))
	for _, l := range ls {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// KindFromPropertyType maps the search form property types (and the kinds themselves) to a Kind.
func KindFromPropertyType(propertyType string) (Kind, bool) {
	switch core.NormalizeText(propertyType) {
	case "apartament", string(KindApartment):
		return KindApartment, true
	case "casa", string(KindHouse):
		return KindHouse, true
	case "teren", string(KindLand):
		return KindLand, true
	default:
		return "", false
	}
}

// parseEuroAmount reads every digit of a display price: "189.000 €" -> 189000.
// A price without digits ("La cerere") reads as 0.
func parseEuroAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, true
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseBudgetRange accepts "100.000 – 150.000 €" (en dash) and open ranges such as "300.000+ €".
func parseBudgetRange(budget string) (budgetRange, bool) {
	b := strings.TrimSpace(budget)
	if b == "" {
		return budgetRange{}, false
	}
	if strings.Contains(b, "+") {
		lo, ok := parseEuroAmount(b)
		if !ok {
			return budgetRange{}, false
		}
		return budgetRange{min: lo, max: math.Inf(1)}, true
	}

	parts := strings.SplitN(b, "–", 2)
	if len(parts) != 2 {
		return budgetRange{}, false
	}
	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if left == "" || right == "" {
		return budgetRange{}, false
	}
	lo, ok := parseEuroAmount(left)
	if !ok {
		return budgetRange{}, false
	}
	hi, ok := parseEuroAmount(right)
	if !ok {
		return budgetRange{}, false
	}
	return budgetRange{min: lo, max: hi}, true
}
