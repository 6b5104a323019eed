package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is the root aggregate: one development case with its buyers, land
// parcels, buildings and transaction ledger. Persisted document-style — a single
// row with the nested collections as JSON columns, like the hosted document
// store it replaces.
type Project struct {
	ID           uuid.UUID                           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string                              `gorm:"column:name;not null" json:"name"`
	Site         string                              `gorm:"column:site" json:"site"`
	Zone         string                              `gorm:"column:zone" json:"zone"`
	Buyers       datatypes.JSONSlice[Buyer]          `gorm:"column:buyers" json:"buyers"`
	Lands        datatypes.JSONSlice[LandParcel]     `gorm:"column:lands" json:"lands"`
	Buildings    datatypes.JSONSlice[Building]       `gorm:"column:buildings" json:"buildings"`
	Transactions datatypes.JSONSlice[Transaction]    `gorm:"column:transactions" json:"transactions"`
	UpdatedAt    time.Time                           `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Project) TableName() string {
	return "Projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Buyer is an independent record within a project; nothing is computed from it
// beyond its presence in reports.
type Buyer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Image   string `json:"image,omitempty"`
}

// Seller is nested inside a LandParcel or Building; not independently addressable.
type Seller struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}
