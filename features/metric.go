// SPDX-License-Identifier: MIT

package features

import (
	"encoding/json"
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrUndefined marks a descriptor that has no value on this input, such as
// the skewness of constant data.
var ErrUndefined = errors.New("features: descriptor undefined")

// Metric is a descriptor value or the reason it could not be computed.
// Consumers decide how to impute a failed descriptor.
type Metric struct {
	Value float64
	Err   error
}

// OK wraps a value.
func OK(v float64) Metric { return Metric{Value: v} }

// Failed wraps an error.
func Failed(err error) Metric { return Metric{Value: math.NaN(), Err: err} }

// Valid reports whether m carries a finite value.
func (m Metric) Valid() bool {
	return m.Err == nil && !math.IsNaN(m.Value) && !math.IsInf(m.Value, 0)
}

// MarshalJSON encodes an invalid metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}

	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as ErrUndefined.
func (m *Metric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*m = Failed(ErrUndefined)

		return nil
	}
	*m = Metric{}

	return json.Unmarshal(b, &m.Value)
}

// popSkew is the biased (population) sample skewness m3/m2^1.5.
func popSkew(x []float64) Metric {
	if len(x) == 0 {
		return Failed(ErrUndefined)
	}
	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return Failed(ErrUndefined)
	}

	return OK(stat.Moment(3, x, nil) / math.Pow(m2, 1.5))
}

// popExKurtosis is the biased (population) excess kurtosis m4/m2²−3.
func popExKurtosis(x []float64) Metric {
	if len(x) == 0 {
		return Failed(ErrUndefined)
	}
	m2 := stat.Moment(2, x, nil)
	if m2 == 0 {
		return Failed(ErrUndefined)
	}

	return OK(stat.Moment(4, x, nil)/(m2*m2) - 3)
}

func meanOrZero(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return stat.Mean(x, nil)
}

func popStdOrZero(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return stat.PopStdDev(x, nil)
}
