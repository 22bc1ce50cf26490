// Package stats implements the aggregation kernels used by group-by, pivot
// and describe.
//
// Every function filters its input to Numbers. Null, Missing, NaN and
// values of other kinds count as absent. Empty input gives 0 for
// Count and Sum and NaN for the other reductions.
package stats

import (
	"fmt"
	"math"

	"github.com/paveg/tabular/internal/errors"
	"github.com/paveg/tabular/internal/validation"
	"github.com/paveg/tabular/internal/value"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Numbers returns the numeric payloads of vals in order.
func Numbers(vals []value.Value) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			out = append(out, f)
		}
	}
	return out
}

// HasNumber reports whether vals contains at least one usable Number.
func HasNumber(vals []value.Value) bool {
	for _, v := range vals {
		if f, ok := v.Float(); ok && !math.IsNaN(f) {
			return true
		}
	}
	return false
}

// Count returns the number of Numbers in vals.
func Count(vals []value.Value) int { return len(Numbers(vals)) }

// Sum adds the Numbers in vals.
func Sum(vals []value.Value) float64 { return floats.Sum(Numbers(vals)) }

// Mean is the arithmetic mean.
func Mean(vals []value.Value) float64 { return mean(Numbers(vals)) }

// Variance is the sample variance (n-1 denominator). A single value has
// variance 0.
func Variance(vals []value.Value) float64 { return variance(Numbers(vals)) }

// Std is the sample standard deviation.
func Std(vals []value.Value) float64 { return math.Sqrt(Variance(vals)) }

// Min returns the smallest Number.
func Min(vals []value.Value) float64 { return minOf(Numbers(vals)) }

// Max returns the largest Number.
func Max(vals []value.Value) float64 { return maxOf(Numbers(vals)) }

// Summary holds the six group-by reductions of one column.
type Summary struct {
	Count int
	Sum   float64
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Summarize computes every Summary field in one filtering pass.
func Summarize(vals []value.Value) Summary {
	xs := Numbers(vals)
	if len(xs) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, Max: nan}
	}
	return Summary{
		Count: len(xs),
		Sum:   floats.Sum(xs),
		Mean:  mean(xs),
		Std:   math.Sqrt(variance(xs)),
		Min:   floats.Min(xs),
		Max:   floats.Max(xs),
	}
}

// Percentile returns the p-th percentile, p in [0, 100], using linear
// interpolation between order statistics (R type 7).
func Percentile(vals []value.Value, p float64) (float64, error) {
	if err := validation.NewRangeValidator("Percentile", "percentile", p, 0, 100).Validate(); err != nil {
		return math.NaN(), err
	}
	return type7(sorted(Numbers(vals)), p/100), nil
}

// Quantile returns the q-th quantile, q in [0, 1], with the same
// interpolation as Percentile.
func Quantile(vals []value.Value, q float64) (float64, error) {
	if err := validation.NewRangeValidator("Quantile", "quantile", q, 0, 1).Validate(); err != nil {
		return math.NaN(), err
	}
	return type7(sorted(Numbers(vals)), q), nil
}

// Median is the 0.5 quantile.
func Median(vals []value.Value) float64 {
	return type7(sorted(Numbers(vals)), 0.5)
}

// IQR is the distance between the 0.75 and 0.25 quantiles.
func IQR(vals []value.Value) float64 {
	xs := sorted(Numbers(vals))
	return type7(xs, 0.75) - type7(xs, 0.25)
}

// Skewness is the bias-corrected sample skewness. It needs at least three
// values and a non-zero spread; otherwise it is NaN.
func Skewness(vals []value.Value) float64 {
	xs := Numbers(vals)
	if len(xs) < 3 || variance(xs) == 0 {
		return math.NaN()
	}
	return stat.Skew(xs, nil)
}

// Kurtosis is the bias-corrected sample excess kurtosis. It needs at least
// four values and a non-zero spread; otherwise it is NaN.
func Kurtosis(vals []value.Value) float64 {
	xs := Numbers(vals)
	if len(xs) < 4 || variance(xs) == 0 {
		return math.NaN()
	}
	return stat.ExKurtosis(xs, nil)
}

// Covariance is the sample covariance of the positional pairing of the
// Numbers in x and y. The filtered streams must have equal length; callers
// are responsible for gaps lining up.
func Covariance(x, y []value.Value) (float64, error) {
	xs, ys, err := paired("Covariance", x, y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}
	return stat.Covariance(xs, ys, nil), nil
}

// Correlation is the Pearson correlation over the same pairing as
// Covariance.
func Correlation(x, y []value.Value) (float64, error) {
	xs, ys, err := paired("Correlation", x, y)
	if err != nil {
		return math.NaN(), err
	}
	if len(xs) < 2 {
		return math.NaN(), nil
	}
	return stat.Correlation(xs, ys, nil), nil
}

func paired(op string, x, y []value.Value) ([]float64, []float64, error) {
	xs, ys := Numbers(x), Numbers(y)
	if len(xs) != len(ys) {
		return nil, nil, errors.NewPreconditionError(op, fmt.Sprintf(
			"numeric streams differ in length (%d vs %d); both columns must be present at the same rows",
			len(xs), len(ys)))
	}
	return xs, ys, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

func variance(xs []float64) float64 {
	switch len(xs) {
	case 0:
		return math.NaN()
	case 1:
		return 0
	}
	return stat.Variance(xs, nil)
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Min(xs)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return floats.Max(xs)
}

func sorted(xs []float64) []float64 {
	slices.Sort(xs)
	return xs
}

// type7 interpolates the q-th quantile of the sorted sample xs.
func type7(xs []float64, q float64) float64 {
	switch len(xs) {
	case 0:
		return math.NaN()
	case 1:
		return xs[0]
	}
	h := float64(len(xs)-1) * q
	lo := math.Floor(h)
	i := int(lo)
	if i >= len(xs)-1 {
		return xs[len(xs)-1]
	}
	return xs[i] + (h-lo)*(xs[i+1]-xs[i])
}

// Outliers returns the Numbers of vals lying outside the Tukey fences
// [Q1 - 1.5 IQR, Q3 + 1.5 IQR], in input order.
func Outliers(vals []value.Value) []float64 {
	xs := Numbers(vals)
	s := sorted(slices.Clone(xs))
	q1, q3 := type7(s, 0.25), type7(s, 0.75)
	lo, hi := q1-1.5*(q3-q1), q3+1.5*(q3-q1)
	var out []float64
	for _, x := range xs {
		if x < lo || x > hi {
			out = append(out, x)
		}
	}
	return out
}
