package analytics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a scalar aggregate that may be undefined, e.g. a ratio over an
// empty population. Undefined metrics marshal to JSON null.
type Metric struct {
	Value   float64
	Defined bool
}

// DefinedMetric returns a defined metric rounded to two decimals.
func DefinedMetric(v float64) Metric {
	return Metric{Value: round2(v), Defined: true}
}

// Undefined returns the undefined metric.
func Undefined() Metric {
	return Metric{}
}

// Ratio returns num/den, undefined when den is zero.
func Ratio(num, den float64) Metric {
	if den == 0 {
		return Undefined()
	}
	return DefinedMetric(num / den)
}

// Percent returns 100*num/den, undefined when den is zero.
func Percent(num, den float64) Metric {
	if den == 0 {
		return Undefined()
	}
	return DefinedMetric(100 * num / den)
}

func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return strconv.FormatFloat(m.Value, 'f', 2, 64)
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Metric{Value: v, Defined: true}
	return nil
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
