package domain

import "estatebook-backend/internal/pkg/numeric"

// Transaction types.
const (
	TxIncome  = "income"
	TxExpense = "expense"
)

// Linkage categories: a ledger entry belongs either to the project at large,
// to one land parcel, or to one building.
const (
	LinkGeneral  = "general"
	LinkLand     = "land"
	LinkBuilding = "building"
)

// Categories is the fixed chart of accounts, keyed by transaction type.
var Categories = map[string][]string{
	TxExpense: {
		"Land cost",
		"Building cost",
		"Brokerage fee",
		"Scrivener/registration",
		"Site work",
		"Marketing",
		"Tax",
		"Miscellaneous",
	},
	TxIncome: {
		"Sale deposit",
		"Contract payment",
		"Seal payment",
		"Tax-completion payment",
		"Final payment",
		"Rental income",
		"Tax refund/other",
	},
}

// Transaction is one ledger entry. LinkedID references a LandParcel or Building
// in the same project when LinkedType is land/building; deleting the referenced
// entity leaves the entry in place with a dangling reference (financial history
// outlives the asset), and display degrades to an "unknown" label.
type Transaction struct {
	ID         string        `json:"id"`
	Date       string        `json:"date"`
	Type       string        `json:"type"`
	Category   string        `json:"category"`
	Amount     numeric.Value `json:"amount"`
	Note       string        `json:"note"`
	Image      string        `json:"image,omitempty"`
	LinkedID   string        `json:"linkedId"`
	LinkedType string        `json:"linkedType"`
}
