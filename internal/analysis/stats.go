package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NumStats mirrors the usual describe() table for one numeric column.
type NumStats struct {
	Count                    int
	Mean, Std                float64
	Min, Q1, Median, Q3, Max float64
	// Outliers (robust Z via MAD); OutlierThreshold is 0 when not computed.
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
}

// Describe computes count, mean, sample standard deviation, min, quartiles and
// max of vals. Quartiles use linear interpolation between order statistics.
func Describe(vals []float64, opt Options) *NumStats {
	st := &NumStats{Count: len(vals)}
	if len(vals) == 0 {
		return st
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	if len(vals) > 1 {
		st.Mean, st.Std = stat.MeanStdDev(sorted, nil)
	} else {
		st.Mean = sorted[0]
	}
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Q1 = quantile(sorted, 0.25)
	st.Median = quantile(sorted, 0.5)
	st.Q3 = quantile(sorted, 0.75)

	if opt.Outliers && len(sorted) >= 8 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		median, mad := medianMAD(sorted)
		st.OutlierThreshold = thr
		if mad > 0 {
			for _, v := range sorted {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					st.OutliersCount++
				}
				if az > st.OutliersMaxAbsZ {
					st.OutliersMaxAbsZ = az
				}
			}
		}
	}
	return st
}

// medianMAD computes median and MAD (median absolute deviation) of sorted values.
func medianMAD(sorted []float64) (median, mad float64) {
	if len(sorted) == 0 {
		return 0, 0
	}
	median = quantile(sorted, 0.5)
	dev := make([]float64, len(sorted))
	for i, v := range sorted {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
