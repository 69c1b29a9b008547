package tables

import (
	"math"

	"github.com/JonMunkholm/retailetl/internal/core"
)

// requireNumeric returns a present numeric value or an "invalid number" error.
func requireNumeric(rec core.Record, col string) (core.Value, error) {
	v := rec.Get(col)
	if !v.Valid || v.Type != core.FieldNumeric {
		return v, core.ValidationError{Field: col, Message: "invalid number"}
	}
	return v, nil
}

// requireWhole returns a present whole number or an "invalid number" error.
func requireWhole(rec core.Record, col string) (int, error) {
	v, err := requireNumeric(rec, col)
	if err != nil {
		return 0, err
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > math.MaxInt32 {
		return 0, core.ValidationError{Field: col, Value: v.Text, Message: "invalid number: not a whole number"}
	}
	return int(v.Num), nil
}

// optionalInt returns a pointer to a whole number, or nil when missing.
func optionalInt(rec core.Record, col string) *int {
	v := rec.Get(col)
	if !v.Valid || v.Num != math.Trunc(v.Num) {
		return nil
	}
	n := int(v.Num)
	return &n
}

// numeric returns the float value of a column, 0 when missing.
func numeric(rec core.Record, col string) float64 {
	v := rec.Get(col)
	if !v.Valid {
		return 0
	}
	return v.Num
}
