package synthetic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishi-shayak/mandi-prices/internal/mandi"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- c.now.Add(d)
	return ch
}

func newTestProvider() *Provider {
	return New(&fakeClock{now: time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)})
}

func TestProvider_Deterministic(t *testing.T) {
	t.Parallel()

	p := newTestProvider()
	query := mandi.PriceQuery{State: "Delhi"}

	first, err := p.Fetch(context.Background(), query)
	require.NoError(t, err)
	second, err := p.Fetch(context.Background(), query)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Len(t, first, 5)
}

func TestProvider_StateMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	p := newTestProvider()
	records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "tamil nadu"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Turmeric", records[0].CropName)
}

func TestProvider_DistrictAndCropFilters(t *testing.T) {
	t.Parallel()

	p := newTestProvider()

	records, err := p.Fetch(context.Background(), mandi.PriceQuery{
		State:    "Punjab",
		District: "ludhiana",
		CropName: "WHEAT",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Khanna Mandi", records[0].MarketName)
	require.Equal(t, mandi.DefaultUnit, records[0].Unit)
}

func TestProvider_UnknownStateReturnsEmptyNotError(t *testing.T) {
	t.Parallel()

	p := newTestProvider()
	records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Atlantis"})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestProvider_PriceDateComesFromClock(t *testing.T) {
	t.Parallel()

	p := newTestProvider()
	records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: "Delhi", CropName: "Wheat"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "2024-01-15", records[0].PriceDate.String())
}

func TestProvider_RecordsSatisfyInvariants(t *testing.T) {
	t.Parallel()

	p := newTestProvider()
	for _, state := range States() {
		records, err := p.Fetch(context.Background(), mandi.PriceQuery{State: state})
		require.NoError(t, err)
		for _, rec := range records {
			require.NoError(t, mandi.ValidateRecord(rec))
		}
	}
}

func TestStates(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"Delhi", "Maharashtra", "Punjab", "Tamil Nadu"}, States())
}

func TestCrops(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"Rice", "Wheat"}, Crops("Punjab"))
	require.Contains(t, Crops(""), "Turmeric")
}
