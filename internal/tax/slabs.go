package tax

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/fintrack-app/backend/internal/model"
)

// TaxFreeThreshold is the taxable income below which no tax is payable
// under the current regime (12,00,000 whole rupees). Callers short-circuit
// below this and never invoke the slab walk.
const TaxFreeThreshold int64 = 1_200_000

// slab is a contiguous income range taxed at a fixed marginal rate.
// to == 0 marks the open-ended top slab.
type slab struct {
	from int64
	to   int64
	rate float64
}

// slabTable is the progressive rate schedule. Slabs are ascending and
// contiguous; the zero-rate slab consumes income but never appears in the
// returned breakdown.
var slabTable = []slab{
	{from: 0, to: 250_000, rate: 0},
	{from: 250_000, to: 500_000, rate: 0.05},
	{from: 500_000, to: 750_000, rate: 0.10},
	{from: 750_000, to: 1_000_000, rate: 0.15},
	{from: 1_000_000, to: 1_250_000, rate: 0.20},
	{from: 1_250_000, to: 1_500_000, rate: 0.25},
	{from: 1_500_000, rate: 0.30},
}

// ComputeBreakdown walks the slab table for the given taxable income and
// returns the total tax payable in whole rupees together with the non-zero
// slabs actually touched. Per-slab taxes and the total are rounded
// independently to the nearest rupee.
//
// The threshold short-circuit is the caller's job: ComputeBreakdown always
// runs the full walk.
func ComputeBreakdown(taxableIncome int64) (int64, []model.TaxSlabLine) {
	var totalTax float64
	lines := []model.TaxSlabLine{}

	for _, s := range slabTable {
		if taxableIncome <= s.from {
			break
		}

		upper := s.to
		if upper == 0 {
			upper = taxableIncome
		}
		portion := min(taxableIncome, upper) - s.from
		if portion <= 0 {
			continue
		}

		slabTax := float64(portion) * s.rate
		totalTax += slabTax

		if s.rate > 0 {
			var to *int64
			if s.to != 0 {
				to = &s.to
			}
			lines = append(lines, model.TaxSlabLine{
				From:           s.from + 1,
				To:             to,
				Rate:           s.rate,
				TaxablePortion: portion,
				Tax:            int64(math.Round(slabTax)),
			})
		}

		if s.to == 0 {
			break
		}
	}

	return int64(math.Round(totalTax)), lines
}

// inr formats amounts with Indian digit grouping (e.g. 12,00,000).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// NoTaxMessage explains why no tax is due for an income below the
// threshold.
func NoTaxMessage(taxableIncome int64) string {
	return inr.Sprintf("No Tax Payable — Your taxable income of ₹%v is below the threshold of ₹%v. No tax is due.",
		number.Decimal(taxableIncome), number.Decimal(TaxFreeThreshold))
}
