package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

func init() {
	// the frontend reads prices and areas as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Complex struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Description  string    `json:"description"`
	HeroImageURL string    `json:"heroImageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Building struct {
	ID           int64     `json:"id"`
	ComplexID    int64     `json:"complexId"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Address      string    `json:"address"`
	Floors       int       `json:"floors"`
	Amenities    string    `json:"amenities"`
	HeroImageURL string    `json:"heroImageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Unit struct {
	ID          int64           `json:"id"`
	BuildingID  int64           `json:"buildingId"`
	UnitNumber  string          `json:"unitNumber"`
	Type        UnitType        `json:"type"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	InteriorSqm decimal.Decimal `json:"interiorSqm"`
	ExteriorSqm decimal.Decimal `json:"exteriorSqm"`
	TotalSqm    decimal.Decimal `json:"totalSqm"`
	Price       decimal.Decimal `json:"price"`
	Status      UnitStatus      `json:"status"`
	MoveInReady bool            `json:"moveInReady"`
	Facing      string          `json:"facing"`
	Floor       int             `json:"floor"`
	Plan2DURL   string          `json:"plan2DUrl"`
	Plan3DURL   string          `json:"plan3DUrl"`
	Gallery     string          `json:"gallery"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Inquiry struct {
	ID        int64         `json:"id"`
	UnitID    int64         `json:"unitId"`
	FullName  string        `json:"fullName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Message   string        `json:"message"`
	Source    *string       `json:"source,omitempty"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AvailabilitySummary counts the units of one (building, type) group by status.
type AvailabilitySummary struct {
	BuildingName string   `json:"buildingName"`
	UnitType     UnitType `json:"unitType"`
	Available    int      `json:"available"`
	Reserved     int      `json:"reserved"`
	Sold         int      `json:"sold"`
	Total        int      `json:"total"`
}

// UnitFilter holds the optional constraints of a unit search. A nil field
// imposes no restriction; set fields are AND-ed.
type UnitFilter struct {
	Type        *UnitType
	Status      *UnitStatus
	MoveInReady *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Bedrooms    *int
	BuildingID  *int64
}

// IsEmpty reports whether the filter has no constraints at all.
func (f UnitFilter) IsEmpty() bool {
	return f.Type == nil && f.Status == nil && f.MoveInReady == nil &&
		f.MinPrice == nil && f.MaxPrice == nil && f.Bedrooms == nil && f.BuildingID == nil
}

// Matches evaluates the filter against a single unit in memory. It mirrors
// the SQL built by the repository and is used to check query results.
func (f UnitFilter) Matches(u Unit) bool {
	if f.Type != nil && u.Type != *f.Type {
		return false
	}
	if f.Status != nil && u.Status != *f.Status {
		return false
	}
	if f.MoveInReady != nil && u.MoveInReady != *f.MoveInReady {
		return false
	}
	if f.MinPrice != nil && u.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && u.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Bedrooms != nil && u.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.BuildingID != nil && u.BuildingID != *f.BuildingID {
		return false
	}
	return true
}
