package domain

import "estatebook-backend/internal/pkg/numeric"

// Building is a built structure within a project. TotalPrice is a directly
// entered lump sum — it is intentionally not derived from PricePerUnit * AreaM2.
type Building struct {
	ID           string        `json:"id"`
	PermitNumber string        `json:"permitNumber"`
	Address      string        `json:"address"`
	License      string        `json:"license"`
	BuildNumber  string        `json:"buildNumber"`
	AreaM2       numeric.Value `json:"areaM2"`
	PricePerUnit numeric.Value `json:"pricePerUnit"`
	TotalPrice   numeric.Value `json:"totalPrice"`
	Sellers      []Seller      `json:"sellers"`
}
