// Package aggregation is the derived-figure engine: pure functions over a
// project's entity collections. No I/O, no shared state — safe to call on
// every edit.
package aggregation

import (
	"errors"

	"github.com/shopspring/decimal"

	"estatebook-backend/internal/domain"
	"estatebook-backend/internal/pkg/numeric"
)

// One ping is 3.305785 m²; the historical records were produced with the
// inverse factor 0.3025 and any drift here would silently disagree with them.
var pingFactor = decimal.RequireFromString("0.3025")

// ErrLotNumberRequired rejects a parcel save when any lot item is missing its
// lot number.
var ErrLotNumberRequired = errors.New("every land lot item needs a lot number")

// ToPing converts square meters to ping.
func ToPing(m2 decimal.Decimal) decimal.Decimal {
	return m2.Mul(pingFactor)
}

// EffectiveAreaM2 is the held share of a lot: areaM2 * shareNum/shareDenom.
// Blank or malformed inputs coerce per numeric.Value, so the result is always
// a finite number.
func EffectiveAreaM2(item domain.LandLotItem) decimal.Decimal {
	return item.AreaM2.Decimal().
		Mul(item.ShareNum.Decimal()).
		Div(item.ShareDenom.Denominator())
}

// Subtotal computes an item's price: held area in ping times price per ping,
// rounded half-up to the whole currency unit.
func Subtotal(item domain.LandLotItem) numeric.Value {
	amount := ToPing(EffectiveAreaM2(item)).Mul(item.PricePerPing.Decimal()).Round(0)
	return numeric.FromDecimal(amount)
}

// PriceInputsChanged reports whether any of the four fields that drive the
// subtotal differ between two revisions of the same item. A manual subtotal
// override survives only while these stay untouched.
func PriceInputsChanged(prev, cur domain.LandLotItem) bool {
	return prev.AreaM2 != cur.AreaM2 ||
		prev.ShareNum != cur.ShareNum ||
		prev.ShareDenom != cur.ShareDenom ||
		prev.PricePerPing != cur.PricePerPing
}

// EnsureItems never lets an item list go empty: removing the last row leaves a
// single fresh template instead.
func EnsureItems(items []domain.LandLotItem) []domain.LandLotItem {
	if len(items) == 0 {
		return []domain.LandLotItem{domain.NewEmptyLandItem()}
	}
	return items
}

// NormalizeParcel validates a parcel and overwrites its derived fields from the
// current item list. prev is the stored revision of the same parcel (nil for a
// new one); it decides whether each item's subtotal is kept or recomputed.
// On validation failure the parcel is left untouched.
func NormalizeParcel(p *domain.LandParcel, prev *domain.LandParcel) error {
	items := EnsureItems(p.Items)
	for _, item := range items {
		if item.LotNumber == "" {
			return ErrLotNumberRequired
		}
	}

	for i := range items {
		old := findItem(prev, items[i].ID)
		switch {
		case old == nil:
			if items[i].Subtotal.IsEmpty() {
				items[i].Subtotal = Subtotal(items[i])
			}
		case PriceInputsChanged(*old, items[i]):
			items[i].Subtotal = Subtotal(items[i])
		}
	}

	totalM2 := decimal.Zero
	totalPing := decimal.Zero
	totalPrice := decimal.Zero
	for _, item := range items {
		held := EffectiveAreaM2(item)
		totalM2 = totalM2.Add(held)
		totalPing = totalPing.Add(ToPing(held))
		totalPrice = totalPrice.Add(item.Subtotal.Decimal())
	}

	p.Items = items
	p.HoldingAreaM2 = numeric.FormatArea(totalM2)
	p.HoldingAreaPing = numeric.FormatArea(totalPing)
	p.TotalPrice = totalPrice.InexactFloat64()
	return nil
}

func findItem(p *domain.LandParcel, id string) *domain.LandLotItem {
	if p == nil || id == "" {
		return nil
	}
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}
