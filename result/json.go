package result

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/katalvlaran/tsalign/series"
)

// Floats is a float slice whose non-finite entries marshal as null.
type Floats []float64

// MarshalJSON implements json.Marshaler.
func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for i, x := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendFloat(buf, x)
	}

	return append(buf, ']'), nil
}

// MarshalJSON implements json.Marshaler; NaN errors become null.
func (e Errors) MarshalJSON() ([]byte, error) {
	buf := []byte(`{"rmse":`)
	buf = appendFloat(buf, e.RMSE)
	buf = append(buf, `,"mae":`...)
	buf = appendFloat(buf, e.MAE)

	return append(buf, '}'), nil
}

// UnmarshalJSON implements json.Unmarshaler; null entries become NaN.
func (f *Floats) UnmarshalJSON(b []byte) error {
	var raw []*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*f = nil
		return nil
	}
	out := make(Floats, len(raw))
	for i, p := range raw {
		out[i] = math.NaN()
		if p != nil {
			out[i] = *p
		}
	}
	*f = out

	return nil
}

// UnmarshalJSON implements json.Unmarshaler; null errors become NaN.
func (e *Errors) UnmarshalJSON(b []byte) error {
	var raw struct {
		RMSE *float64 `json:"rmse"`
		MAE  *float64 `json:"mae"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.RMSE, e.MAE = orNaN(raw.RMSE), orNaN(raw.MAE)

	return nil
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}

	return *p
}

func appendFloat(buf []byte, x float64) []byte {
	if !series.IsFinite(x) {
		return append(buf, "null"...)
	}

	return strconv.AppendFloat(buf, x, 'g', -1, 64)
}

var (
	_ json.Marshaler   = Floats(nil)
	_ json.Marshaler   = Errors{}
	_ json.Unmarshaler = (*Floats)(nil)
	_ json.Unmarshaler = (*Errors)(nil)
)
