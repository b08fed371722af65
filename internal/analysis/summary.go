package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabsift/internal/clean"
	"github.com/KaramelBytes/tabsift/internal/dataset"
)

// Options controls how a dataset is summarized.
type Options struct {
	// HeadRows is the number of leading rows shown in the preview.
	HeadRows int
	// TopValues limits the categories listed for categorical columns.
	TopValues int
	// Outliers enables robust Z-score (MAD) outlier counts on numeric columns.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for exploratory summaries.
func DefaultOptions() Options {
	return Options{
		HeadRows:         5,
		TopValues:        8,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// Summary is a markdown-friendly description of a cleaned dataset.
type Summary struct {
	Name    string
	Rows    int
	Cols    []ColumnSummary
	Preview string
	// Cleaning is the cleaning pass that produced the dataset, if any.
	Cleaning *clean.Result
	Notes    []string
}

// ColumnSummary captures the inferred kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric describe statistics.
	Stats *NumStats
	// Categorical top values.
	TopValues    []CategoryCount
	ExampleTexts []string
}

// MissingPct returns the missing share of the column in percent.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100 / float64(total)
}

// CategoryCount is one distinct value and its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// Summarize profiles every column of ds. res, when non-nil, is rendered in the
// cleaning section of the report.
func Summarize(ds *dataset.Dataset, res *clean.Result, opt Options) *Summary {
	s := &Summary{Name: ds.Name(), Rows: ds.Rows(), Cleaning: res, Notes: ds.Notes()}
	for _, c := range ds.Columns() {
		s.Cols = append(s.Cols, summarizeColumn(c, ds.Format(), opt))
	}
	if opt.HeadRows > 0 {
		s.Preview = Preview(ds, opt.HeadRows)
	}
	return s
}

// Shape returns (rows, columns) of the summarized dataset.
func (s *Summary) Shape() (int, int) { return s.Rows, len(s.Cols) }

// NumericColumns returns the names of numeric columns in order.
func (s *Summary) NumericColumns() []string {
	var out []string
	for _, c := range s.Cols {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

func summarizeColumn(c *dataset.Column, f dataset.NumberFormat, opt Options) ColumnSummary {
	miss := c.MissingCount()
	cs := ColumnSummary{Name: c.Name, NonNull: c.Len() - miss, Missing: miss}
	if cs.NonNull == 0 {
		cs.Kind = KindEmpty
		return cs
	}
	if vals, ok := c.Floats(f); ok {
		cs.Kind = KindNumeric
		cs.Stats = Describe(vals, opt)
		return cs
	}
	cats := map[string]int{}
	var examples []string
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Value(i)
		if !ok {
			continue
		}
		if len(cats) <= 10000 && len(v) <= 64 {
			cats[v]++
		}
		if len(v) > 64 && len(examples) < 3 {
			examples = append(examples, v)
		}
	}
	cs.Unique = len(cats)
	if len(cats) == 0 {
		cs.Kind = KindText
		cs.ExampleTexts = examples
		return cs
	}
	cs.Kind = KindCategorical
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	limit := opt.TopValues
	if limit <= 0 {
		limit = 8
	}
	if len(tops) > limit {
		tops = tops[:limit]
	}
	cs.TopValues = tops
	return cs
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func pct(f float64) string { return fmt.Sprintf("%.1f%%", f*100) }
