// Package chart renders histograms and box plots of numeric columns to image files.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/tabsift/internal/dataset"
	"github.com/KaramelBytes/tabsift/internal/utils"
)

// Chart kinds.
const (
	KindHistogram = "hist"
	KindBox       = "box"
)

// Options controls which charts are drawn and how.
type Options struct {
	// Dir receives the image files; it is created when missing.
	Dir string
	// Kinds selects chart kinds: "hist", "box". Empty means both.
	Kinds []string
	// Columns restricts plotting to these numeric columns. Empty means all numeric columns.
	Columns []string
	// Bins is the number of histogram bins.
	Bins int
	// GridCols is the number of box plots per row in the grid image.
	GridCols int
	// Width and Height of a single chart in inches.
	Width, Height float64
}

// DefaultOptions returns the settings used by the exploration scripts: 4 box plots per row.
func DefaultOptions() Options {
	return Options{
		Kinds:    []string{KindHistogram, KindBox},
		Bins:     20,
		GridCols: 4,
		Width:    4,
		Height:   3,
	}
}

type series struct {
	name string
	vals plotter.Values
}

// Render draws the selected charts for the numeric columns of ds and returns
// the written file paths, histograms first in column order, then the box-plot grid.
func Render(ctx context.Context, ds *dataset.Dataset, opt Options) ([]string, error) {
	if opt.Dir == "" {
		return nil, fmt.Errorf("chart output directory is required")
	}
	kinds, err := parseKinds(opt.Kinds)
	if err != nil {
		return nil, err
	}
	data, err := numericSeries(ds, opt.Columns)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		slog.Debug("no numeric columns to plot", "dataset", ds.Name())
		return nil, nil
	}
	if err := utils.EnsureDir(opt.Dir); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	if opt.Bins <= 0 {
		opt.Bins = 20
	}
	if opt.GridCols <= 0 {
		opt.GridCols = 4
	}
	if opt.Width <= 0 {
		opt.Width = 4
	}
	if opt.Height <= 0 {
		opt.Height = 3
	}

	var paths []string
	if kinds[KindHistogram] {
		hist := make([]string, len(data))
		names := fileNames(data)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, s := range data {
			i, s := i, s
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p := filepath.Join(opt.Dir, "hist_"+names[i]+".png")
				if err := saveHistogram(s, opt, p); err != nil {
					return fmt.Errorf("histogram %s: %w", s.name, err)
				}
				hist[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		paths = append(paths, hist...)
	}
	if kinds[KindBox] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := filepath.Join(opt.Dir, "boxplots.png")
		if err := saveBoxGrid(data, opt, p); err != nil {
			return nil, fmt.Errorf("box plots: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func parseKinds(kinds []string) (map[string]bool, error) {
	out := map[string]bool{}
	if len(kinds) == 0 {
		out[KindHistogram] = true
		out[KindBox] = true
		return out, nil
	}
	for _, k := range kinds {
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "hist", "histogram":
			out[KindHistogram] = true
		case "box", "boxplot":
			out[KindBox] = true
		default:
			return nil, fmt.Errorf("unsupported chart kind: %s (use hist|box)", k)
		}
	}
	return out, nil
}

func numericSeries(ds *dataset.Dataset, only []string) ([]series, error) {
	names := ds.NumericColumns()
	if len(only) > 0 {
		numeric := map[string]bool{}
		for _, n := range names {
			numeric[n] = true
		}
		for _, n := range only {
			if _, ok := ds.Column(n); !ok {
				return nil, fmt.Errorf("chart column %q not found", n)
			}
			if !numeric[n] {
				return nil, fmt.Errorf("chart column %q is not numeric", n)
			}
		}
		names = only
	}
	out := make([]series, 0, len(names))
	for _, n := range names {
		c, _ := ds.Column(n)
		vals, _ := c.Floats(ds.Format())
		out = append(out, series{name: n, vals: plotter.Values(vals)})
	}
	return out, nil
}

// fileNames maps column names to unique, file-system safe stems.
func fileNames(data []series) []string {
	out := make([]string, len(data))
	used := map[string]bool{}
	for i, s := range data {
		base := utils.SafeName(s.name, "column")
		cand := base
		for n := 2; used[cand]; n++ {
			cand = fmt.Sprintf("%s-%d", base, n)
		}
		used[cand] = true
		out[i] = cand
	}
	return out
}

func saveHistogram(s series, opt Options, path string) error {
	p := plot.New()
	p.Title.Text = s.name
	p.X.Label.Text = s.name
	p.Y.Label.Text = "count"
	bins := opt.Bins
	if min, max := bounds(s.vals); min == max {
		bins = 1
	}
	h, err := plotter.NewHist(s.vals, bins)
	if err != nil {
		return err
	}
	p.Add(h)
	return p.Save(vg.Length(opt.Width)*vg.Inch, vg.Length(opt.Height)*vg.Inch, path)
}

func boxPlot(s series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = s.name
	box, err := plotter.NewBoxPlot(vg.Points(20), 0, s.vals)
	if err != nil {
		return nil, err
	}
	p.Add(box)
	p.HideX()
	return p, nil
}

// saveBoxGrid lays out one box plot per column, GridCols per row, in a single image.
func saveBoxGrid(data []series, opt Options, path string) error {
	cols := opt.GridCols
	if len(data) < cols {
		cols = len(data)
	}
	rows := int(math.Ceil(float64(len(data)) / float64(cols)))
	plots := make([][]*plot.Plot, rows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, cols)
		for c := range plots[r] {
			i := r*cols + c
			if i >= len(data) {
				blank := plot.New()
				blank.HideAxes()
				plots[r][c] = blank
				continue
			}
			p, err := boxPlot(data[i])
			if err != nil {
				return fmt.Errorf("%s: %w", data[i].name, err)
			}
			plots[r][c] = p
		}
	}

	w := vg.Length(opt.Width) * vg.Inch * vg.Length(cols)
	h := vg.Length(opt.Height) * vg.Inch * vg.Length(rows)
	img := vgimg.New(w, h)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func bounds(vals plotter.Values) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
