package mandi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validRecord() PriceRecord {
	return PriceRecord{
		CropName:   "Wheat",
		MinPrice:   2100,
		MaxPrice:   2300,
		ModalPrice: 2200,
		MarketName: "Azadpur Mandi",
		District:   "North Delhi",
		State:      "Delhi",
		PriceDate:  DateOf(time.Now()),
		Unit:       DefaultUnit,
	}
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*PriceRecord)
		wantErr bool
	}{
		{name: "valid", mutate: func(*PriceRecord) {}},
		{name: "min equals modal equals max", mutate: func(r *PriceRecord) {
			r.MinPrice, r.ModalPrice, r.MaxPrice = 2000, 2000, 2000
		}},
		{name: "modal above max", mutate: func(r *PriceRecord) {
			r.ModalPrice = r.MaxPrice + 100
		}, wantErr: true},
		{name: "modal below min", mutate: func(r *PriceRecord) {
			r.ModalPrice = r.MinPrice - 100
		}, wantErr: true},
		{name: "max below min", mutate: func(r *PriceRecord) {
			r.MaxPrice = r.MinPrice - 1
		}, wantErr: true},
		{name: "negative min", mutate: func(r *PriceRecord) {
			r.MinPrice, r.ModalPrice = -10, 0
		}, wantErr: true},
		{name: "missing crop name", mutate: func(r *PriceRecord) {
			r.CropName = ""
		}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := validRecord()
			tc.mutate(&rec)
			err := ValidateRecord(rec)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNormalizeRecord_DefaultsUnit(t *testing.T) {
	t.Parallel()

	rec := validRecord()
	rec.Unit = ""
	require.Equal(t, DefaultUnit, NormalizeRecord(rec).Unit)

	rec.Unit = "Tonne"
	require.Equal(t, "Tonne", NormalizeRecord(rec).Unit)
}
