package models

import (
	"github.com/shopspring/decimal"
)

// Request payloads accepted by the API. Field limits mirror the column sizes
// in the schema and are checked with go-playground/validator tags.

type CreateComplexRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	City         string `json:"city" validate:"required,max=100"`
	Country      string `json:"country" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	HeroImageURL string `json:"heroImageUrl" validate:"max=500"`
}

func (r CreateComplexRequest) Complex() Complex {
	return Complex{
		Name:         r.Name,
		City:         r.City,
		Country:      r.Country,
		Description:  r.Description,
		HeroImageURL: r.HeroImageURL,
	}
}

// ComplexPatch is a partial update: nil fields are left unchanged.
type ComplexPatch struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	HeroImageURL *string `json:"heroImageUrl" validate:"omitempty,max=500"`
}

func (p ComplexPatch) Apply(c *Complex) {
	setIf(&c.Name, p.Name)
	setIf(&c.City, p.City)
	setIf(&c.Country, p.Country)
	setIf(&c.Description, p.Description)
	setIf(&c.HeroImageURL, p.HeroImageURL)
}

type CreateBuildingRequest struct {
	ComplexID    int64  `json:"complexId" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=200"`
	Code         string `json:"code" validate:"required,max=50"`
	Address      string `json:"address" validate:"max=500"`
	Floors       int    `json:"floors" validate:"gte=0"`
	Amenities    string `json:"amenities" validate:"max=2000"`
	HeroImageURL string `json:"heroImageUrl" validate:"max=500"`
}

func (r CreateBuildingRequest) Building() Building {
	return Building{
		ComplexID:    r.ComplexID,
		Name:         r.Name,
		Code:         r.Code,
		Address:      r.Address,
		Floors:       r.Floors,
		Amenities:    r.Amenities,
		HeroImageURL: r.HeroImageURL,
	}
}

type BuildingPatch struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Code         *string `json:"code" validate:"omitempty,max=50"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	Floors       *int    `json:"floors" validate:"omitempty,gte=0"`
	Amenities    *string `json:"amenities" validate:"omitempty,max=2000"`
	HeroImageURL *string `json:"heroImageUrl" validate:"omitempty,max=500"`
}

func (p BuildingPatch) Apply(b *Building) {
	setIf(&b.Name, p.Name)
	setIf(&b.Code, p.Code)
	setIf(&b.Address, p.Address)
	setIf(&b.Floors, p.Floors)
	setIf(&b.Amenities, p.Amenities)
	setIf(&b.HeroImageURL, p.HeroImageURL)
}

type CreateUnitRequest struct {
	BuildingID  int64           `json:"buildingId" validate:"required,gt=0"`
	UnitNumber  string          `json:"unitNumber" validate:"required,max=50"`
	Type        UnitType        `json:"type" validate:"required"`
	Bedrooms    int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms   decimal.Decimal `json:"bathrooms"`
	InteriorSqm decimal.Decimal `json:"interiorSqm"`
	ExteriorSqm decimal.Decimal `json:"exteriorSqm"`
	TotalSqm    decimal.Decimal `json:"totalSqm"`
	Price       decimal.Decimal `json:"price"`
	Status      UnitStatus      `json:"status"`
	MoveInReady bool            `json:"moveInReady"`
	Facing      string          `json:"facing" validate:"max=50"`
	Floor       int             `json:"floor"`
	Plan2DURL   string          `json:"plan2DUrl" validate:"max=500"`
	Plan3DURL   string          `json:"plan3DUrl" validate:"max=500"`
	Gallery     string          `json:"gallery" validate:"max=2000"`
}

func (r CreateUnitRequest) Unit() Unit {
	u := Unit{
		BuildingID:  r.BuildingID,
		UnitNumber:  r.UnitNumber,
		Type:        r.Type,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		InteriorSqm: r.InteriorSqm,
		ExteriorSqm: r.ExteriorSqm,
		TotalSqm:    r.TotalSqm,
		Price:       r.Price,
		Status:      r.Status,
		MoveInReady: r.MoveInReady,
		Facing:      r.Facing,
		Floor:       r.Floor,
		Plan2DURL:   r.Plan2DURL,
		Plan3DURL:   r.Plan3DURL,
		Gallery:     r.Gallery,
	}
	if u.Status == "" {
		u.Status = UnitStatusAvailable
	}
	if u.Gallery == "" {
		u.Gallery = "[]"
	}
	return u
}

type UnitPatch struct {
	UnitNumber  *string          `json:"unitNumber" validate:"omitempty,max=50"`
	Type        *UnitType        `json:"type"`
	Bedrooms    *int             `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms   *decimal.Decimal `json:"bathrooms"`
	InteriorSqm *decimal.Decimal `json:"interiorSqm"`
	ExteriorSqm *decimal.Decimal `json:"exteriorSqm"`
	TotalSqm    *decimal.Decimal `json:"totalSqm"`
	Price       *decimal.Decimal `json:"price"`
	Status      *UnitStatus      `json:"status"`
	MoveInReady *bool            `json:"moveInReady"`
	Facing      *string          `json:"facing" validate:"omitempty,max=50"`
	Floor       *int             `json:"floor"`
	Plan2DURL   *string          `json:"plan2DUrl" validate:"omitempty,max=500"`
	Plan3DURL   *string          `json:"plan3DUrl" validate:"omitempty,max=500"`
	Gallery     *string          `json:"gallery" validate:"omitempty,max=2000"`
}

func (p UnitPatch) Apply(u *Unit) {
	setIf(&u.UnitNumber, p.UnitNumber)
	setIf(&u.Type, p.Type)
	setIf(&u.Bedrooms, p.Bedrooms)
	setIf(&u.Bathrooms, p.Bathrooms)
	setIf(&u.InteriorSqm, p.InteriorSqm)
	setIf(&u.ExteriorSqm, p.ExteriorSqm)
	setIf(&u.TotalSqm, p.TotalSqm)
	setIf(&u.Price, p.Price)
	setIf(&u.Status, p.Status)
	setIf(&u.MoveInReady, p.MoveInReady)
	setIf(&u.Facing, p.Facing)
	setIf(&u.Floor, p.Floor)
	setIf(&u.Plan2DURL, p.Plan2DURL)
	setIf(&u.Plan3DURL, p.Plan3DURL)
	setIf(&u.Gallery, p.Gallery)
}

type CreateInquiryRequest struct {
	FullName string  `json:"fullName" validate:"required,max=200"`
	Email    string  `json:"email" validate:"required,email,max=200"`
	Phone    string  `json:"phone" validate:"required,max=50"`
	Message  string  `json:"message" validate:"max=2000"`
	Source   *string `json:"source" validate:"omitempty,max=100"`
}

func (r CreateInquiryRequest) Inquiry(unitID int64) Inquiry {
	return Inquiry{
		UnitID:   unitID,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Message:  r.Message,
		Source:   r.Source,
		Status:   InquiryStatusNew,
	}
}

type UpdateInquiryStatusRequest struct {
	Status InquiryStatus `json:"status" validate:"required"`
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
