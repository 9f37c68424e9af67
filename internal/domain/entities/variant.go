package entities

// PreviewProduct is one preview row from the initial two-step search.
type PreviewProduct struct {
	Name         string  `json:"name"`
	Form         string  `json:"form"`
	Manufacturer string  `json:"manufacturer"`
	Country      string  `json:"country"`
	Price        float64 `json:"price"`
	PharmacyCity string  `json:"pharmacy_city"`
}

// VariantKey identifies a disambiguation combination. Unlike StockKey it
// includes the country: variants are told apart by country even though the
// per-pharmacy stock view later groups without it.
type VariantKey struct {
	Name         string
	Form         string
	Manufacturer string
	Country      string
}

// Variant is one combination offered on the disambiguation screen, with the
// price spread observed across the preview rows.
type Variant struct {
	Name         string  `json:"name"`
	Form         string  `json:"form"`
	Manufacturer string  `json:"manufacturer"`
	Country      string  `json:"country"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

// Key returns the combination key for the variant.
func (v *Variant) Key() VariantKey {
	return VariantKey{
		Name:         v.Name,
		Form:         v.Form,
		Manufacturer: v.Manufacturer,
		Country:      v.Country,
	}
}

// BuildVariants collapses preview rows into unique combinations, tracking
// the min and max price seen for each. First-occurrence order is kept so
// the cheapest combinations (the upstream sorts previews by price) stay on
// top of the list.
func BuildVariants(previews []PreviewProduct) []Variant {
	index := make(map[VariantKey]int, len(previews))
	variants := make([]Variant, 0, len(previews))

	for _, p := range previews {
		key := VariantKey{Name: p.Name, Form: p.Form, Manufacturer: p.Manufacturer, Country: p.Country}
		at, ok := index[key]
		if !ok {
			index[key] = len(variants)
			variants = append(variants, Variant{
				Name:         p.Name,
				Form:         p.Form,
				Manufacturer: p.Manufacturer,
				Country:      p.Country,
				MinPrice:     p.Price,
				MaxPrice:     p.Price,
			})
			continue
		}
		v := &variants[at]
		if p.Price < v.MinPrice {
			v.MinPrice = p.Price
		}
		if p.Price > v.MaxPrice {
			v.MaxPrice = p.Price
		}
	}

	return variants
}
