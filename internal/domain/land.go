package domain

import (
	"github.com/google/uuid"

	"estatebook-backend/internal/pkg/numeric"
)

// LandParcel is a "standing item": a set of cadastral lots acquired together,
// possibly under fractional co-ownership. HoldingAreaM2, HoldingAreaPing and
// TotalPrice are derived caches — recomputed from Items on every save, never
// taken from the caller.
type LandParcel struct {
	ID              string        `json:"id"`
	Section         string        `json:"section"`
	Sellers         []Seller      `json:"sellers"`
	Items           []LandLotItem `json:"items"`
	HoldingAreaM2   string        `json:"holdingAreaM2"`
	HoldingAreaPing string        `json:"holdingAreaPing"`
	TotalPrice      float64       `json:"totalPrice"`
}

// LandLotItem is one cadastral lot within a parcel. ShareNum/ShareDenom express
// the fractional ownership interest (1/1 = full ownership). Subtotal is
// recomputed whenever one of the four price inputs changes but stays editable
// in between (a manual override persists until an input changes again).
type LandLotItem struct {
	ID           string        `json:"id"`
	LotNumber    string        `json:"lotNumber"`
	AreaM2       numeric.Value `json:"areaM2"`
	ShareNum     numeric.Value `json:"shareNum"`
	ShareDenom   numeric.Value `json:"shareDenom"`
	PricePerPing numeric.Value `json:"pricePerPing"`
	Subtotal     numeric.Value `json:"subtotal"`
}

// NewEmptyLandItem returns the blank row template used when a parcel's item
// list would otherwise be empty. Full ownership by default.
func NewEmptyLandItem() LandLotItem {
	return LandLotItem{
		ID:         uuid.New().String(),
		ShareNum:   "1",
		ShareDenom: "1",
	}
}
