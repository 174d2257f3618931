// Package synthetic provides a deterministic in-memory price provider for
// development and fallback use.
package synthetic

import (
	"context"
	"sort"
	"strings"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

type sampleRow struct {
	crop   string
	min    float64
	max    float64
	modal  float64
	market string
	dist   string
	state  string
}

// Realistic per-quintal mandi prices, keyed by state/district/crop.
var sampleRows = []sampleRow{
	{"Wheat", 2100, 2300, 2200, "Azadpur Mandi", "North Delhi", "Delhi"},
	{"Rice", 1800, 2000, 1900, "Azadpur Mandi", "North Delhi", "Delhi"},
	{"Tomato", 1200, 1500, 1350, "Azadpur Mandi", "North Delhi", "Delhi"},
	{"Potato", 800, 1000, 900, "Azadpur Mandi", "North Delhi", "Delhi"},
	{"Onion", 1500, 1800, 1650, "Azadpur Mandi", "North Delhi", "Delhi"},
	{"Wheat", 2050, 2250, 2150, "Khanna Mandi", "Ludhiana", "Punjab"},
	{"Rice", 1750, 1950, 1850, "Khanna Mandi", "Ludhiana", "Punjab"},
	{"Cotton", 5500, 6000, 5750, "Yavatmal Mandi", "Yavatmal", "Maharashtra"},
	{"Sugarcane", 280, 320, 300, "Kolhapur Mandi", "Kolhapur", "Maharashtra"},
	{"Turmeric", 12000, 14000, 13000, "Erode Mandi", "Erode", "Tamil Nadu"},
}

// Provider generates plausible price records without touching the network.
// It never fails.
type Provider struct {
	clock mandi.Clock
}

// New constructs a Provider. The clock supplies price dates.
func New(clock mandi.Clock) *Provider {
	return &Provider{clock: clock}
}

// Name identifies the provider in envelopes and logs.
func (p *Provider) Name() string {
	return mandi.SourceSynthetic
}

// Fetch returns sample records matching the query. Filtering on state,
// district, and crop is case-insensitive. Record order is stable across
// calls for identical queries.
func (p *Provider) Fetch(_ context.Context, query mandi.PriceQuery) ([]mandi.PriceRecord, error) {
	today := mandi.DateOf(p.clock.Now())
	records := make([]mandi.PriceRecord, 0, len(sampleRows))
	for _, row := range sampleRows {
		if !strings.EqualFold(row.state, query.State) {
			continue
		}
		if query.District != "" && !strings.EqualFold(row.dist, query.District) {
			continue
		}
		if query.CropName != "" && !strings.EqualFold(row.crop, query.CropName) {
			continue
		}
		records = append(records, mandi.PriceRecord{
			CropName:   row.crop,
			MinPrice:   row.min,
			MaxPrice:   row.max,
			ModalPrice: row.modal,
			MarketName: row.market,
			District:   row.dist,
			State:      row.state,
			PriceDate:  today,
			Unit:       mandi.DefaultUnit,
		})
	}
	return records, nil
}

// States lists the states covered by the sample dataset, sorted.
func States() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(sampleRows))
	for _, row := range sampleRows {
		if _, ok := seen[row.state]; ok {
			continue
		}
		seen[row.state] = struct{}{}
		out = append(out, row.state)
	}
	sort.Strings(out)
	return out
}

// Crops lists crops in the sample dataset, optionally restricted to a state.
func Crops(state string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(sampleRows))
	for _, row := range sampleRows {
		if state != "" && !strings.EqualFold(row.state, state) {
			continue
		}
		if _, ok := seen[row.crop]; ok {
			continue
		}
		seen[row.crop] = struct{}{}
		out = append(out, row.crop)
	}
	sort.Strings(out)
	return out
}
