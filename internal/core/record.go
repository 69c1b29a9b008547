package core

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Value is a single cleaned cell. Valid=false is the explicit "missing" marker.
type Value struct {
	Type  FieldType
	Text  string    // Cleaned text; canonical decimal text for numerics
	Date  time.Time // Set for FieldDate
	Num   float64   // Set for FieldNumeric
	Valid bool
}

// Missing returns the "missing" marker for the given type.
func Missing(t FieldType) Value {
	return Value{Type: t}
}

// TextValue returns a present text value.
func TextValue(s string) Value {
	return Value{Type: FieldText, Text: s, Valid: true}
}

// NumericValue returns a present numeric value.
func NumericValue(text string, f float64) Value {
	return Value{Type: FieldNumeric, Text: text, Num: f, Valid: true}
}

// DateValue returns a present date value.
func DateValue(t time.Time) Value {
	return Value{Type: FieldDate, Text: t.Format("2006-01-02"), Date: t, Valid: true}
}

// PgText converts the value to pgtype.Text.
func (v Value) PgText() pgtype.Text {
	if !v.Valid || strings.TrimSpace(v.Text) == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: v.Text, Valid: true}
}

// PgDate converts the value to pgtype.Date.
func (v Value) PgDate() pgtype.Date {
	if !v.Valid || v.Type != FieldDate {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: v.Date, Valid: true}
}

// PgNumeric converts the value to pgtype.Numeric using its canonical text so
// no precision is lost through float64.
func (v Value) PgNumeric() pgtype.Numeric {
	if !v.Valid || v.Text == "" {
		return pgtype.Numeric{Valid: false}
	}
	var n pgtype.Numeric
	if err := n.Scan(v.Text); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// PgInt4 converts a whole numeric value to pgtype.Int4.
// Fractional values are reported as invalid.
func (v Value) PgInt4() pgtype.Int4 {
	if !v.Valid || v.Num != float64(int32(v.Num)) {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(v.Num), Valid: true}
}

// Record is a cleaned row keyed by lowercase column name.
type Record map[string]Value

// Get returns the value for a column; absent columns are missing.
func (r Record) Get(col string) Value {
	v, ok := r[strings.ToLower(col)]
	if !ok {
		return Missing(FieldText)
	}
	return v
}

// Text returns the text of a column, or "" when missing.
func (r Record) Text(col string) string {
	v := r.Get(col)
	if !v.Valid {
		return ""
	}
	return v.Text
}

// Has reports whether a column is present and not missing.
func (r Record) Has(col string) bool {
	return r.Get(col).Valid
}

// Set stores a value under the lowercase column name.
func (r Record) Set(col string, v Value) {
	r[strings.ToLower(col)] = v
}

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two records hold the same values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		o, ok := other[k]
		if !ok {
			return false
		}
		if v.Type != o.Type || v.Valid != o.Valid || v.Text != o.Text ||
			v.Num != o.Num || !v.Date.Equal(o.Date) {
			return false
		}
	}
	return true
}
