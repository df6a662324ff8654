package finance

import (
	"fmt"
	"math"
)

// TaxBand taxes income up to UpTo at RatePct. UpTo == 0 marks the open top band.
type TaxBand struct {
	UpTo    float64 `json:"upTo"`
	RatePct float64 `json:"ratePct"`
}

// DefaultTaxBands are the bands used when none are supplied.
var DefaultTaxBands = []TaxBand{
	{UpTo: 5000, RatePct: 0},
	{UpTo: 20000, RatePct: 10},
	{UpTo: 50000, RatePct: 20},
	{UpTo: 0, RatePct: 30},
}

// BandCharge is the tax due within one band.
type BandCharge struct {
	TaxBand
	Taxed float64 `json:"taxed"`
	Tax   float64 `json:"tax"`
}

// TaxEstimate is the result of applying bands to taxable income.
type TaxEstimate struct {
	TaxableIncome    float64      `json:"taxableIncome"`
	Tax              float64      `json:"tax"`
	EffectiveRatePct float64      `json:"effectiveRatePct"`
	Bands            []BandCharge `json:"bands"`
}

// EstimateTax applies progressive fixed-percentage bands. A loss is taxed at
// zero; income above the last closed band is untaxed when no open band exists.
func EstimateTax(income float64, bands []TaxBand) (TaxEstimate, error) {
	if math.IsNaN(income) || math.IsInf(income, 0) {
		return TaxEstimate{}, fmt.Errorf("taxable income: %w", ErrInvalidInput)
	}
	if len(bands) == 0 {
		bands = DefaultTaxBands
	}
	if err := validateBands(bands); err != nil {
		return TaxEstimate{}, err
	}

	taxable := math.Max(0, income)
	est := TaxEstimate{TaxableIncome: taxable}
	lower := 0.0
	for _, band := range bands {
		if taxable <= lower {
			break
		}
		upper := band.UpTo
		if upper == 0 || upper > taxable {
			upper = taxable
		}
		taxed := upper - lower
		charge := BandCharge{TaxBand: band, Taxed: taxed, Tax: roundCents(taxed * band.RatePct / 100)}
		est.Bands = append(est.Bands, charge)
		est.Tax += charge.Tax
		lower = upper
	}
	est.Tax = roundCents(est.Tax)
	if taxable > 0 {
		est.EffectiveRatePct = roundCents(est.Tax / taxable * 100)
	}
	return est, nil
}

func validateBands(bands []TaxBand) error {
	prev := 0.0
	for i, band := range bands {
		if band.RatePct < 0 || band.RatePct > 100 || band.UpTo < 0 {
			return fmt.Errorf("tax band %d: %w", i, ErrInvalidInput)
		}
		if band.UpTo == 0 {
			if i != len(bands)-1 {
				return fmt.Errorf("tax band %d: open band must be last: %w", i, ErrInvalidInput)
			}
			continue
		}
		if band.UpTo <= prev {
			return fmt.Errorf("tax band %d: limits must ascend: %w", i, ErrInvalidInput)
		}
		prev = band.UpTo
	}
	return nil
}
