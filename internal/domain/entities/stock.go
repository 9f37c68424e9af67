package entities

import (
	"time"

	"github.com/AleksandrAndreew-Dev/Novamedika-LTS/pkg/numeric"
)

// DefaultWorkingHours is shown when a pharmacy row carries no schedule.
const DefaultWorkingHours = "Уточняйте в аптеке"

// StockRow is one pharmacy-stock entry as returned by the upstream refined
// search. The same pharmacy/product pair can appear several times (one row
// per stock batch), which is why display surfaces group rows first.
type StockRow struct {
	UUID            string       `json:"uuid"`
	Name            string       `json:"name"`
	Form            string       `json:"form"`
	Manufacturer    string       `json:"manufacturer"`
	Country         string       `json:"country"`
	Price           float64      `json:"price"`
	Quantity        numeric.Flex `json:"quantity"`
	PharmacyID      string       `json:"pharmacy_id"`
	PharmacyNumber  string       `json:"pharmacy_number"`
	PharmacyName    string       `json:"pharmacy_name"`
	PharmacyCity    string       `json:"pharmacy_city"`
	PharmacyAddress string       `json:"pharmacy_address"`
	PharmacyPhone   string       `json:"pharmacy_phone"`
	WorkingHours    string       `json:"working_hours"`
	UpdatedAt       string       `json:"updated_at"`
}

// StockKey identifies a display group: one product in one pharmacy.
// Country is deliberately not part of this key; stock rows are already
// narrowed to a single variant (which includes country) before they reach
// the results screen. An explicit struct key avoids the delimiter-collision
// problem of concatenated string keys.
type StockKey struct {
	PharmacyNumber string
	Name           string
	Form           string
	Manufacturer   string
}

// Key returns the display grouping key for the row.
func (r *StockRow) Key() StockKey {
	return StockKey{
		PharmacyNumber: r.PharmacyNumber,
		Name:           r.Name,
		Form:           r.Form,
		Manufacturer:   r.Manufacturer,
	}
}

// updatedTime parses the row timestamp; zero time when absent or malformed.
func (r *StockRow) updatedTime() time.Time {
	if r.UpdatedAt == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, r.UpdatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// GroupedRow is the display-level aggregation of all StockRows sharing a
// StockKey. Recomputed from scratch for every page; never persisted.
type GroupedRow struct {
	UUID              string  `json:"uuid"`
	Name              string  `json:"name"`
	Form              string  `json:"form"`
	Manufacturer      string  `json:"manufacturer"`
	Country           string  `json:"country"`
	Quantity          float64 `json:"quantity"`
	Price             float64 `json:"price"`
	PriceMax          float64 `json:"price_max"`
	HasMultiplePrices bool    `json:"has_multiple_prices"`
	PharmacyID        string  `json:"pharmacy_id"`
	PharmacyNumber    string  `json:"pharmacy_number"`
	PharmacyName      string  `json:"pharmacy_name"`
	PharmacyCity      string  `json:"pharmacy_city"`
	PharmacyAddress   string  `json:"pharmacy_address"`
	PharmacyPhone     string  `json:"pharmacy_phone"`
	WorkingHours      string  `json:"working_hours"`
	UpdatedAt         string  `json:"updated_at"`

	prices    map[float64]struct{}
	updatedAt time.Time
}

// InStock reports whether the grouped quantity allows booking.
func (g *GroupedRow) InStock() bool {
	return g.Quantity > 0
}

// GroupingPolicy controls how stock rows are aggregated for a given surface.
type GroupingPolicy struct {
	// ExcludeOutOfStock drops rows with quantity <= 0 before grouping.
	// The booking surface uses this; the plain aggregate view keeps
	// zero-quantity rows and disables booking per row instead.
	ExcludeOutOfStock bool
}

// GroupStock aggregates a page of stock rows for display. Quantities are
// summed per group, the lowest observed price wins, and the most recently
// updated row supplies the timestamp and (when non-empty) working hours.
// Emission follows first-occurrence order. Pure function of its input.
func GroupStock(rows []StockRow, policy GroupingPolicy) []GroupedRow {
	index := make(map[StockKey]int, len(rows))
	grouped := make([]GroupedRow, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		quantity := row.Quantity.Float64()
		if policy.ExcludeOutOfStock && quantity <= 0 {
			continue
		}

		key := row.Key()
		at, ok := index[key]
		if !ok {
			g := GroupedRow{
				UUID:            row.UUID,
				Name:            row.Name,
				Form:            row.Form,
				Manufacturer:    row.Manufacturer,
				Country:         row.Country,
				Quantity:        quantity,
				Price:           row.Price,
				PriceMax:        row.Price,
				PharmacyID:      row.PharmacyID,
				PharmacyNumber:  row.PharmacyNumber,
				PharmacyName:    row.PharmacyName,
				PharmacyCity:    row.PharmacyCity,
				PharmacyAddress: row.PharmacyAddress,
				PharmacyPhone:   row.PharmacyPhone,
				WorkingHours:    row.WorkingHours,
				UpdatedAt:       row.UpdatedAt,
				prices:          map[float64]struct{}{row.Price: {}},
				updatedAt:       row.updatedTime(),
			}
			if g.WorkingHours == "" {
				g.WorkingHours = DefaultWorkingHours
			}
			index[key] = len(grouped)
			grouped = append(grouped, g)
			continue
		}

		g := &grouped[at]
		g.Quantity += quantity
		if _, seen := g.prices[row.Price]; !seen {
			g.prices[row.Price] = struct{}{}
			g.HasMultiplePrices = true
		}
		if row.Price < g.Price {
			g.Price = row.Price
		}
		if row.Price > g.PriceMax {
			g.PriceMax = row.Price
		}
		if t := row.updatedTime(); t.After(g.updatedAt) {
			g.updatedAt = t
			g.UpdatedAt = row.UpdatedAt
			if row.WorkingHours != "" {
				g.WorkingHours = row.WorkingHours
			}
		}
	}

	return grouped
}
