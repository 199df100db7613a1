package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type UnitType string

const (
	UnitTypePenthouse UnitType = "Penthouse"
	UnitTypeLoft      UnitType = "Loft"
	UnitTypeA         UnitType = "TypeA"
	UnitTypeB         UnitType = "TypeB"
)

var unitTypes = []UnitType{UnitTypePenthouse, UnitTypeLoft, UnitTypeA, UnitTypeB}

type UnitStatus string

const (
	UnitStatusAvailable UnitStatus = "Available"
	UnitStatusReserved  UnitStatus = "Reserved"
	UnitStatusSold      UnitStatus = "Sold"
)

var unitStatuses = []UnitStatus{UnitStatusAvailable, UnitStatusReserved, UnitStatusSold}

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "New"
	InquiryStatusContacted InquiryStatus = "Contacted"
	InquiryStatusQualified InquiryStatus = "Qualified"
	InquiryStatusLost      InquiryStatus = "Lost"
)

var inquiryStatuses = []InquiryStatus{InquiryStatusNew, InquiryStatusContacted, InquiryStatusQualified, InquiryStatusLost}

// UnitStatuses returns every valid unit status in declaration order.
func UnitStatuses() []UnitStatus { return append([]UnitStatus(nil), unitStatuses...) }


// parseEnum matches s against the allowed names, ignoring case.
func parseEnum[T ~string](kind, s string, allowed []T) (T, error) {
	for _, v := range allowed {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func unmarshalEnum[T ~string](kind string, b []byte, allowed []T, dst *T) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	v, err := parseEnum(kind, s, allowed)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func ParseUnitType(s string) (UnitType, error) { return parseEnum("unit type", s, unitTypes) }

func ParseUnitStatus(s string) (UnitStatus, error) { return parseEnum("unit status", s, unitStatuses) }

func ParseInquiryStatus(s string) (InquiryStatus, error) {
	return parseEnum("inquiry status", s, inquiryStatuses)
}

// Valid reports whether the value is one of the canonical names.
func (t UnitType) Valid() bool { return slices.Contains(unitTypes, t) }

func (s UnitStatus) Valid() bool { return slices.Contains(unitStatuses, s) }

func (s InquiryStatus) Valid() bool { return slices.Contains(inquiryStatuses, s) }

func (t *UnitType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("unit type", b, unitTypes, t)
}

func (s *UnitStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("unit status", b, unitStatuses, s)
}

func (s *InquiryStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("inquiry status", b, inquiryStatuses, s)
}
