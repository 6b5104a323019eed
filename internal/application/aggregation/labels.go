package aggregation

import (
	"strings"

	"estatebook-backend/internal/domain"
)

// Fallback labels for dangling references. A transaction keeps pointing at a
// deleted parcel or building; display degrades instead of failing.
const (
	LabelGeneral         = "General"
	LabelUnknownLand     = "unknown land"
	LabelUnknownBuilding = "unknown building"
)

const buildingLabelMaxRunes = 8

// LinkedLabel resolves a transaction's linkage to a human-readable label:
// seller names joined with "/", falling back to the parcel section (or first
// lot number) and to the building address truncated for compact display.
func LinkedLabel(t domain.Transaction, lands []domain.LandParcel, buildings []domain.Building) string {
	switch t.LinkedType {
	case domain.LinkLand:
		for i := range lands {
			if lands[i].ID == t.LinkedID {
				return landLabel(&lands[i])
			}
		}
		return LabelUnknownLand
	case domain.LinkBuilding:
		for i := range buildings {
			if buildings[i].ID == t.LinkedID {
				return buildingLabel(&buildings[i])
			}
		}
		return LabelUnknownBuilding
	default:
		return LabelGeneral
	}
}

func landLabel(p *domain.LandParcel) string {
	if names := sellerNames(p.Sellers); names != "" {
		return names
	}
	if p.Section != "" {
		return p.Section
	}
	if len(p.Items) > 0 {
		return p.Items[0].LotNumber
	}
	return LabelUnknownLand
}

func buildingLabel(b *domain.Building) string {
	if names := sellerNames(b.Sellers); names != "" {
		return names
	}
	if b.Address != "" {
		return truncateRunes(b.Address, buildingLabelMaxRunes)
	}
	return LabelUnknownBuilding
}

func sellerNames(sellers []domain.Seller) string {
	names := make([]string, 0, len(sellers))
	for _, s := range sellers {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, "/")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
