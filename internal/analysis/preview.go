package analysis

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/tabsift/internal/dataset"
)

// DataFrame converts ds to a gota DataFrame. Numeric columns become float
// series; missing cells become NaN elements.
func DataFrame(ds *dataset.Dataset) dataframe.DataFrame {
	cols := ds.Columns()
	ss := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		vals := make([]string, c.Len())
		for i := range vals {
			v, ok := c.Value(i)
			if !ok {
				v = "NaN"
			}
			vals[i] = v
		}
		t := series.String
		if _, ok := c.Floats(ds.Format()); ok {
			t = series.Float
			if ds.Format() != (dataset.NumberFormat{}) {
				for i, v := range vals {
					if x, ok := ds.Format().ParseNumber(v); ok {
						vals[i] = formatFloat(x)
					}
				}
			}
		}
		ss = append(ss, series.New(vals, t, c.Name))
	}
	return dataframe.New(ss...)
}

// Preview renders the first n rows of ds as a table.
func Preview(ds *dataset.Dataset, n int) string {
	if ds.Width() == 0 {
		return "(no columns)\n"
	}
	df := DataFrame(ds.Head(n))
	if df.Err != nil {
		return "(preview unavailable: " + df.Err.Error() + ")\n"
	}
	return df.String()
}
