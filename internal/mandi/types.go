// Package mandi defines core types shared across subsystems.
package mandi

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultUnit is the standard unit label for mandi prices.
const DefaultUnit = "Quintal"

// Known data source identifiers.
const (
	SourceAgmarknet = "agmarknet"
	SourceEnam      = "enam"
	SourceSynthetic = "synthetic"
)

const dateLayout = "2006-01-02"

// Date is a calendar day without a time component. It serializes as
// YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// PriceQuery selects the region and optional crop filter for a fetch.
// State is required; an empty District or CropName means "all".
type PriceQuery struct {
	State    string `json:"state"`
	District string `json:"district,omitempty"`
	CropName string `json:"crop_name,omitempty"`
}

// Normalized trims whitespace and applies English title casing so that
// "north delhi" and "North Delhi" address the same region.
func (q PriceQuery) Normalized() PriceQuery {
	title := cases.Title(language.English)
	out := PriceQuery{
		State:    strings.TrimSpace(q.State),
		District: strings.TrimSpace(q.District),
		CropName: strings.TrimSpace(q.CropName),
	}
	if out.State != "" {
		out.State = title.String(out.State)
	}
	if out.District != "" {
		out.District = title.String(out.District)
	}
	if out.CropName != "" {
		out.CropName = title.String(out.CropName)
	}
	return out
}

// Validate enforces the query invariants.
func (q PriceQuery) Validate() error {
	if strings.TrimSpace(q.State) == "" {
		return fmt.Errorf("%w: state is required", ErrInvalidQuery)
	}
	return nil
}

// Matches reports whether a record satisfies the district/crop filters.
// State is matched by the provider; filters are case-insensitive.
func (q PriceQuery) Matches(rec PriceRecord) bool {
	if q.District != "" && !strings.EqualFold(q.District, rec.District) {
		return false
	}
	if q.CropName != "" && !strings.EqualFold(q.CropName, rec.CropName) {
		return false
	}
	return true
}

// PriceRecord is a single crop price entry observed at a mandi.
// Invariant: 0 <= MinPrice <= ModalPrice <= MaxPrice.
type PriceRecord struct {
	CropName   string  `json:"crop_name" validate:"required"`
	MinPrice   float64 `json:"min_price" validate:"gte=0"`
	MaxPrice   float64 `json:"max_price" validate:"gte=0,gtefield=MinPrice"`
	ModalPrice float64 `json:"modal_price" validate:"gte=0,gtefield=MinPrice,ltefield=MaxPrice"`
	MarketName string  `json:"market_name"`
	District   string  `json:"district"`
	State      string  `json:"state"`
	PriceDate  Date    `json:"price_date"`
	Unit       string  `json:"unit"`
}

// PriceResponse is the envelope returned for every orchestration call.
// It is assembled exactly once and never mutated afterwards. This shape is
// the wire contract exposed verbatim by the HTTP adapter.
type PriceResponse struct {
	Success   bool          `json:"success"`
	Data      []PriceRecord `json:"data"`
	Count     int           `json:"count"`
	State     string        `json:"state"`
	District  string        `json:"district,omitempty"`
	CropName  string        `json:"crop_name,omitempty"`
	FetchedAt time.Time     `json:"fetched_at"`
	Message   string        `json:"message,omitempty"`
}
