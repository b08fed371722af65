package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/tabsift/internal/clean"
	"github.com/KaramelBytes/tabsift/internal/dataset"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("gtd.csv",
		dataset.ParseColumn("iyear", []string{"1970", "1970", "1971", "1972", "1972", "1972", "1973", "1974", "1975", "2017"}, nil),
		dataset.ParseColumn("nkill", []string{"1", "", "0", "2", "3", "1", "", "4", "2", "300"}, nil),
		dataset.ParseColumn("region_txt", []string{"South America", "Western Europe", "South America", "Middle East", "", "South America", "Western Europe", "South America", "Middle East", "South Asia"}, nil),
		dataset.ParseColumn("summary", []string{"", "", "", "", "", "", "", "", "", strings.Repeat("long narrative ", 6)}, nil),
		dataset.ParseColumn("ransomnote", make([]string, 10), nil),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ds
}

func findCol(t *testing.T, s *Summary, name string) ColumnSummary {
	t.Helper()
	for _, c := range s.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %s not summarized", name)
	return ColumnSummary{}
}

func TestSummarizeKinds(t *testing.T) {
	s := Summarize(sampleDataset(t), nil, DefaultOptions())
	if rows, cols := s.Shape(); rows != 10 || cols != 5 {
		t.Fatalf("shape = (%d,%d)", rows, cols)
	}
	if got := findCol(t, s, "iyear").Kind; got != KindNumeric {
		t.Fatalf("iyear kind = %s", got)
	}
	reg := findCol(t, s, "region_txt")
	if reg.Kind != KindCategorical || reg.TopValues[0].Value != "South America" || reg.TopValues[0].Count != 4 {
		t.Fatalf("region = %+v", reg)
	}
	if reg.Missing != 1 || reg.Unique != 4 {
		t.Fatalf("region missing/unique = %d/%d", reg.Missing, reg.Unique)
	}
	if got := findCol(t, s, "summary").Kind; got != KindText {
		t.Fatalf("summary kind = %s", got)
	}
	empty := findCol(t, s, "ransomnote")
	if empty.Kind != KindEmpty || empty.MissingPct() != 100 {
		t.Fatalf("ransomnote = %+v", empty)
	}
	if got := s.NumericColumns(); len(got) != 2 || got[0] != "iyear" || got[1] != "nkill" {
		t.Fatalf("numeric = %v", got)
	}
}

func TestDescribeQuartilesAndOutliers(t *testing.T) {
	st := Describe([]float64{1, 0, 2, 3, 1, 4, 2, 300}, DefaultOptions())
	if st.Count != 8 || st.Min != 0 || st.Max != 300 {
		t.Fatalf("count/min/max = %d/%v/%v", st.Count, st.Min, st.Max)
	}
	// sorted: 0 1 1 2 2 3 4 300
	if st.Median != 2 || st.Q1 != 1 || st.Q3 != 3.25 {
		t.Fatalf("quartiles = %v %v %v", st.Q1, st.Median, st.Q3)
	}
	if math.Abs(st.Mean-39.125) > 1e-9 {
		t.Fatalf("mean = %v", st.Mean)
	}
	if st.OutliersCount != 1 || st.OutlierThreshold != 3.5 {
		t.Fatalf("outliers = %d (thr %v)", st.OutliersCount, st.OutlierThreshold)
	}
}

func TestDescribeSingleValue(t *testing.T) {
	st := Describe([]float64{7}, DefaultOptions())
	if st.Mean != 7 || st.Std != 0 || st.Median != 7 || st.OutlierThreshold != 0 {
		t.Fatalf("single = %+v", st)
	}
}

func TestMarkdownSections(t *testing.T) {
	ds := sampleDataset(t).WithNote("read only the first 10 rows due to MaxRows")
	res, err := clean.Clean(ds, clean.Options{Threshold: 0.8, RequiredField: "nkill"})
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	md := Summarize(res.Dataset, res, DefaultOptions()).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: gtd.csv",
		"Shape: (8, 3)",
		"[CLEANING]",
		"more than 80.0% missing values dropped",
		"Dropped columns (2): summary, ransomnote",
		`Rows missing "nkill" removed: 2 (10 -> 8)`,
		"[SCHEMA]",
		"- nkill: numeric (non-null 8, missing 0.0%)",
		"[NUMERIC SUMMARY]",
		"| iyear | 8 |",
		"[HEAD]",
		"[NOTES]",
		"first 10 rows",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPreviewNoColumns(t *testing.T) {
	ds, _ := dataset.New("x.csv")
	if got := Preview(ds, 5); got != "(no columns)\n" {
		t.Fatalf("preview = %q", got)
	}
}

func TestDataFrameConversion(t *testing.T) {
	ds := sampleDataset(t)
	df := DataFrame(ds)
	if df.Err != nil {
		t.Fatalf("dataframe: %v", df.Err)
	}
	if df.Nrow() != 10 || df.Ncol() != 5 {
		t.Fatalf("dims = %dx%d", df.Nrow(), df.Ncol())
	}
	if got := df.Col("nkill").IsNaN(); !got[1] || got[2] {
		t.Fatalf("nkill NaN mask = %v", got)
	}
}
