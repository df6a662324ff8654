package finance

import (
	"fmt"
	"math"
)

// maxCurveDays bounds the simulated fattening period.
const maxCurveDays = 3650

// CostCurveInput describes one animal from purchase to market.
type CostCurveInput struct {
	PurchaseCost     float64 `json:"purchaseCost"`
	StartWeightKg    float64 `json:"startWeightKg"`
	DailyGainKg      float64 `json:"dailyGainKg"`
	FCR              float64 `json:"fcr"`
	FeedPricePerKg   float64 `json:"feedPricePerKg"`
	DailyOverhead    float64 `json:"dailyOverhead"`
	Days             int     `json:"days"`
	MarketPricePerKg float64 `json:"marketPricePerKg"`
}

// CostPoint is the state of the animal at the end of a day.
type CostPoint struct {
	Day                 int     `json:"day"`
	LiveWeightKg        float64 `json:"liveWeightKg"`
	FeedKg              float64 `json:"feedKg"`
	CumulativeCost      float64 `json:"cumulativeCost"`
	BreakEvenPricePerKg float64 `json:"breakEvenPricePerKg"`
	Margin              float64 `json:"margin"`
}

// CostCurve is the simulated cumulative cost over the day range.
type CostCurve struct {
	Points         []CostPoint `json:"points"`
	DailyCost      float64     `json:"dailyCost"`
	BreakEvenDay   int         `json:"breakEvenDay"`
	FinalBreakEven float64     `json:"finalBreakEvenPricePerKg"`
}

// SimulateCostCurve walks days 0..Days accumulating feed (gain × FCR × price)
// and overhead on top of the purchase cost. Cumulative cost never decreases.
// BreakEvenDay is the first day the market price covers cumulative cost, or -1.
func SimulateCostCurve(in CostCurveInput) (CostCurve, error) {
	if badFloat(in.PurchaseCost, in.StartWeightKg, in.DailyGainKg, in.FCR, in.FeedPricePerKg, in.DailyOverhead, in.MarketPricePerKg) {
		return CostCurve{}, fmt.Errorf("cost curve: %w", ErrInvalidInput)
	}
	if in.Days < 0 || in.Days > maxCurveDays {
		return CostCurve{}, fmt.Errorf("cost curve days %d: %w", in.Days, ErrInvalidInput)
	}

	dailyFeed := in.DailyGainKg * in.FCR
	dailyCost := dailyFeed*in.FeedPricePerKg + in.DailyOverhead

	curve := CostCurve{
		Points:       make([]CostPoint, 0, in.Days+1),
		DailyCost:    roundCents(dailyCost),
		BreakEvenDay: -1,
	}

	cost := in.PurchaseCost
	feed := 0.0
	for day := 0; day <= in.Days; day++ {
		if day > 0 {
			cost += dailyCost
			feed += dailyFeed
		}
		weight := in.StartWeightKg + in.DailyGainKg*float64(day)

		point := CostPoint{
			Day:            day,
			LiveWeightKg:   weight,
			FeedKg:         feed,
			CumulativeCost: cost,
		}
		if weight > 0 {
			point.BreakEvenPricePerKg = cost / weight
		}
		if in.MarketPricePerKg > 0 {
			point.Margin = in.MarketPricePerKg*weight - cost
			if curve.BreakEvenDay < 0 && point.Margin >= 0 {
				curve.BreakEvenDay = day
			}
		}
		curve.Points = append(curve.Points, point)
	}

	last := curve.Points[len(curve.Points)-1]
	curve.FinalBreakEven = math.Round(last.BreakEvenPricePerKg*100) / 100
	return curve, nil
}
