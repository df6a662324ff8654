package finance

import (
	"fmt"
	"strings"
)

// Ingredient is one component of a ration.
type Ingredient struct {
	Name       string  `json:"name"`
	Kg         float64 `json:"kg"`
	PricePerKg float64 `json:"pricePerKg"`
}

// MixLine is an ingredient's contribution to the mix.
type MixLine struct {
	Name     string  `json:"name"`
	Kg       float64 `json:"kg"`
	Cost     float64 `json:"cost"`
	SharePct float64 `json:"sharePct"`
}

// FeedMix is the costed ration.
type FeedMix struct {
	TotalKg   float64   `json:"totalKg"`
	TotalCost float64   `json:"totalCost"`
	CostPerKg float64   `json:"costPerKg"`
	Lines     []MixLine `json:"lines"`
}

// MixCost prices a ration from its ingredients.
func MixCost(ingredients []Ingredient) (FeedMix, error) {
	if len(ingredients) == 0 {
		return FeedMix{}, fmt.Errorf("feed mix needs ingredients: %w", ErrInvalidInput)
	}

	var mix FeedMix
	for i, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" || badFloat(ing.Kg, ing.PricePerKg) {
			return FeedMix{}, fmt.Errorf("ingredient %d: %w", i, ErrInvalidInput)
		}
		cost := ing.Kg * ing.PricePerKg
		mix.TotalKg += ing.Kg
		mix.TotalCost += cost
		mix.Lines = append(mix.Lines, MixLine{Name: ing.Name, Kg: ing.Kg, Cost: roundCents(cost)})
	}
	for i := range mix.Lines {
		mix.Lines[i].SharePct = roundCents(safeDiv(mix.Lines[i].Kg, mix.TotalKg) * 100)
	}
	mix.CostPerKg = roundCents(safeDiv(mix.TotalCost, mix.TotalKg))
	mix.TotalCost = roundCents(mix.TotalCost)
	return mix, nil
}
