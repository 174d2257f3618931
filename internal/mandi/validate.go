package mandi

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared; a validator.Validate is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRecord checks the PriceRecord invariants. A violating record is
// rejected, never coerced.
func ValidateRecord(rec PriceRecord) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("invalid price record for %q: %w", rec.CropName, err)
	}
	return nil
}

// NormalizeRecord fills defaulted fields on a raw record.
func NormalizeRecord(rec PriceRecord) PriceRecord {
	if rec.Unit == "" {
		rec.Unit = DefaultUnit
	}
	return rec
}
