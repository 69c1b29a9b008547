package core

import "strings"

// DefaultNullSentinels are cell values read as missing regardless of case.
var DefaultNullSentinels = []string{"nan", "null", "none", "n/a", "<na>", "nat"}

// Normalizer turns raw source records into typed, cleaned records.
// It never fails: a bad cell degrades to missing (dates, numerics) or passes
// through trimmed but otherwise unchanged (text).
type Normalizer struct {
	sentinels map[string]struct{}
	dayFirst  bool
}

// NewNormalizer builds a Normalizer. A nil sentinel list uses the defaults.
func NewNormalizer(sentinels []string, dayFirst bool) *Normalizer {
	if sentinels == nil {
		sentinels = DefaultNullSentinels
	}
	set := make(map[string]struct{}, len(sentinels))
	for _, s := range sentinels {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return &Normalizer{sentinels: set, dayFirst: dayFirst}
}

// IsBlank reports whether a cleaned cell is empty or a null sentinel.
func (n *Normalizer) IsBlank(s string) bool {
	if s == "" {
		return true
	}
	_, ok := n.sentinels[strings.ToLower(s)]
	return ok
}

// Normalize cleans every column declared in specs. Columns present in the raw
// record but not declared are kept as trimmed text.
func (n *Normalizer) Normalize(specs []FieldSpec, raw RawRecord) Record {
	out := make(Record, len(specs))
	declared := make(map[string]struct{}, len(specs))

	for _, spec := range specs {
		col := strings.ToLower(spec.Name)
		declared[col] = struct{}{}
		rawVal, ok := raw[col]
		if !ok {
			rawVal = ""
		}
		out[col] = n.Field(spec, rawVal)
	}

	for col, rawVal := range raw {
		col = strings.ToLower(col)
		if _, ok := declared[col]; ok {
			continue
		}
		out[col] = n.Field(FieldSpec{Name: col, Type: FieldText}, rawVal)
	}

	return out
}

// Field cleans a single cell according to its spec. Spreadsheet artifacts
// (="..." wrappers, stray quotes) are only stripped from ID, date and numeric
// cells; text and enum cells are trimmed and otherwise kept verbatim.
func (n *Normalizer) Field(spec FieldSpec, raw string) Value {
	s := strings.TrimSpace(raw)
	switch spec.Type {
	case FieldID, FieldDate, FieldNumeric:
		s = CleanCell(raw)
	}

	if n.IsBlank(s) {
		if spec.Type == FieldNumeric {
			return NumericValue("0", 0)
		}
		return Missing(spec.Type)
	}

	switch spec.Type {
	case FieldDate:
		t, ok := ParseDate(s, n.dayFirst)
		if !ok {
			return Missing(FieldDate)
		}
		return DateValue(t)

	case FieldNumeric:
		text, f, ok := ParseNumeric(s)
		if !ok {
			return Missing(FieldNumeric)
		}
		return NumericValue(text, f)

	case FieldEnum:
		if spec.Normalizer != nil {
			s = strings.TrimSpace(spec.Normalizer(s))
		}
		for _, allowed := range spec.EnumValues {
			if strings.EqualFold(s, allowed) {
				s = allowed
				break
			}
		}
		return Value{Type: FieldEnum, Text: s, Valid: true}

	case FieldID:
		return Value{Type: FieldID, Text: s, Valid: true}

	default:
		if spec.Normalizer != nil {
			s = strings.TrimSpace(spec.Normalizer(s))
			if s == "" {
				return Missing(FieldText)
			}
		}
		return TextValue(s)
	}
}
