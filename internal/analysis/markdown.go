package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Markdown renders a compact report suitable for a text file or the terminal.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	rows, cols := s.Shape()
	b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n", rows, cols))

	if r := s.Cleaning; r != nil {
		b.WriteString("\n[CLEANING]\n")
		b.WriteString(fmt.Sprintf("Threshold: columns with more than %s missing values dropped\n", pct(r.Threshold)))
		b.WriteString(fmt.Sprintf("Columns: %d -> %d\n", r.ColumnsBefore, r.Dataset.Width()))
		if len(r.DroppedColumns) == 0 {
			b.WriteString("Dropped columns: (none)\n")
		} else {
			b.WriteString(fmt.Sprintf("Dropped columns (%d): %s\n", len(r.DroppedColumns), strings.Join(r.DroppedColumns, ", ")))
		}
		if r.RequiredField != "" {
			b.WriteString(fmt.Sprintf("Rows missing %q removed: %d (%d -> %d)\n", r.RequiredField, r.RowsRemoved, r.RowsBefore, r.Dataset.Rows()))
		}
	}

	b.WriteString("\n[SCHEMA]\n")
	for _, c := range s.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, c.MissingPct()))
		switch c.Kind {
		case KindNumeric:
			st := c.Stats
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", st.Min, st.Max, st.Mean, st.Std))
			if st.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", st.OutliersCount, st.OutlierThreshold))
			}
		case KindCategorical:
			b.WriteString(" — top: ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		case KindText:
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" — e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					if len(ex) > 80 {
						ex = ex[:77] + "..."
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}

	if num := s.NumericColumns(); len(num) > 0 {
		b.WriteString("\n[NUMERIC SUMMARY]\n")
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, c := range s.Cols {
			if c.Kind != KindNumeric {
				continue
			}
			st := c.Stats
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				safeVal(safeName(c.Name)), st.Count, num4(st.Mean), num4(st.Std), num4(st.Min),
				num4(st.Q1), num4(st.Median), num4(st.Q3), num4(st.Max)))
		}
	}

	if s.Preview != "" {
		b.WriteString("\n[HEAD]\n")
		b.WriteString(s.Preview)
		if !strings.HasSuffix(s.Preview, "\n") {
			b.WriteString("\n")
		}
	}

	if len(s.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range s.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func num4(x float64) string { return fmt.Sprintf("%.4g", x) }

func formatFloat(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }
